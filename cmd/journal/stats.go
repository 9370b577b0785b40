package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show performance metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), stats, statsTable(stats))
		},
	}
}

func newDailyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show profit and loss per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := a.client.Daily(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), days, dailyTable(days))
		},
	}
}

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's profit and loss",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := a.client.Today(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), today, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Date:\t%s\n", today.Date)
				fmt.Fprintf(tw, "Trades:\t%d\n", today.Count)
				fmt.Fprintf(tw, "P/L:\t%s\n", today.ProfitLoss.StringFixed(2))
			})
		},
	}
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show daily results for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := a.client.Calendar(cmd.Context(), month)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), cal, calendarTable(cal))
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (defaults to the current month)")
	return cmd
}
