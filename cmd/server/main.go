package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trading-journal-go/internal/api"
	"trading-journal-go/internal/backup"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/id"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/logger"
	"trading-journal-go/internal/storage"
)

func main() {
	os.Exit(serve(os.Args[1:]))
}

// serve runs the server until a shutdown signal and returns the exit code.
// Deferred cleanup has run by the time it returns.
func serve(args []string) int {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configDir := fs.String("config", "./configs", "directory containing config.yml")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Load application configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	instanceID := uuid.NewString()
	log = log.With(zap.String("instance", instanceID))
	log.Info("Configuration loaded", zap.String("storage", cfg.Storage.Backend))

	// Setup context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, instanceID, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return 1
	}
	log.Info("Server has been shut down.")
	return 0
}

func run(ctx context.Context, cfg config.Config, instanceID string, log *zap.Logger) error {
	st, err := storage.Open(ctx, cfg.Storage, instanceID)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	store := journal.New(st, cfg.Storage.Key, id.NewGenerator(), log)
	store.Load(ctx)

	server := api.NewServer(cfg, store, instanceID, log)

	var scheduler *backup.Scheduler
	if cfg.Backup.Schedule != "" {
		scheduler, err = backup.NewScheduler(cfg.Backup, store, log)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if scheduler != nil {
			if err := scheduler.Stop(shutdownCtx); err != nil {
				log.Warn("Backup scheduler did not stop cleanly", zap.Error(err))
			}
		}
		return server.Stop(shutdownCtx)
	})

	return g.Wait()
}
