package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-journal-go/internal/client"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/logger"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configDir string
	server    string
	timeout   time.Duration
	output    string
	logLevel  string

	client *client.Client
	log    *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "journal",
		Short:         "Trading journal: record trades and review performance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&a.configDir, "config", "./configs", "directory containing config.yml")
	cmd.PersistentFlags().StringVar(&a.server, "server", "", "journal server URL (overrides client.base_url)")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "request timeout (overrides client.timeout)")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "output format: table|json|yaml")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup()
	}

	cmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newRecentCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newReloadCmd(a),
		newStatsCmd(a),
		newDailyCmd(a),
		newTodayCmd(a),
		newCalendarCmd(a),
		newStatusCmd(a),
	)

	return cmd
}

func (a *app) setup() error {
	switch a.output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.server != "" {
		cfg.Client.BaseURL = a.server
	}
	if a.timeout > 0 {
		cfg.Client.Timeout = a.timeout
	}

	a.log, err = logger.NewLogger(a.logLevel, "console", "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.client = client.New(cfg.Client, a.log)
	return nil
}
