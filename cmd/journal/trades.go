package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

type tradeFlags struct {
	date, symbol, tradeType, direction string
	entry, exit, qty                   string
	strategy, notes                    string
	images                             []string
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "trade date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "instrument symbol")
	cmd.Flags().StringVar(&f.tradeType, "type", "", "stock|option|future|forex|crypto")
	cmd.Flags().StringVar(&f.direction, "direction", "", "long|short")
	cmd.Flags().StringVar(&f.entry, "entry", "", "entry price")
	cmd.Flags().StringVar(&f.exit, "exit", "", "exit price")
	cmd.Flags().StringVar(&f.qty, "qty", "", "quantity")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "strategy label")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().StringArrayVar(&f.images, "image", nil, "attached image reference (repeatable)")
}

func newAddCmd(a *app) *cobra.Command {
	var f tradeFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trade, err := a.client.CreateTrade(cmd.Context(), models.TradeInput{
				Date:       f.date,
				Symbol:     f.symbol,
				Type:       f.tradeType,
				Direction:  f.direction,
				EntryPrice: models.Numeric(f.entry),
				ExitPrice:  models.Numeric(f.exit),
				Quantity:   models.Numeric(f.qty),
				Strategy:   f.strategy,
				Notes:      f.notes,
				Images:     f.images,
			})
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), trade, tradeTable(*trade))
		},
	}
	f.register(cmd)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var search, outcome, tradeType, sortBy, order string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.client.ListTrades(cmd.Context(), journal.Filter{
				Search:  search,
				Outcome: models.Outcome(outcome),
				Type:    models.TradeType(tradeType),
				SortBy:  journal.SortField(sortBy),
				Order:   journal.Order(order),
			})
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), trades, tradesTable(trades))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match symbol, strategy or notes")
	cmd.Flags().StringVar(&outcome, "outcome", "", "win|loss|break-even")
	cmd.Flags().StringVar(&tradeType, "type", "", "trade type")
	cmd.Flags().StringVar(&sortBy, "sort", "", "date|symbol|profitLoss")
	cmd.Flags().StringVar(&order, "order", "", "asc|desc")
	return cmd
}

func newRecentCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently recorded trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.client.RecentTrades(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), trades, tradesTable(trades))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of trades (server default when 0)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trade, err := a.client.GetTrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), trade, tradeTable(*trade))
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var f tradeFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := f.update(cmd)
			trade, err := a.client.UpdateTrade(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), trade, tradeTable(*trade))
		},
	}
	f.register(cmd)
	return cmd
}

// update builds a partial update from the flags the user actually set.
func (f *tradeFlags) update(cmd *cobra.Command) models.TradeUpdate {
	var u models.TradeUpdate
	changed := cmd.Flags().Changed
	str := func(name string, v string) *string {
		if !changed(name) {
			return nil
		}
		return &v
	}
	num := func(name string, v string) *models.Numeric {
		if !changed(name) {
			return nil
		}
		n := models.Numeric(v)
		return &n
	}

	u.Date = str("date", f.date)
	u.Symbol = str("symbol", f.symbol)
	u.Type = str("type", f.tradeType)
	u.Direction = str("direction", f.direction)
	u.EntryPrice = num("entry", f.entry)
	u.ExitPrice = num("exit", f.exit)
	u.Quantity = num("qty", f.qty)
	u.Strategy = str("strategy", f.strategy)
	u.Notes = str("notes", f.notes)
	if changed("image") {
		images := f.images
		u.Images = &images
	}
	return u
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteTrade(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every trade in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the journal without --yes")
			}
			if err := a.client.ClearTrades(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of all trades")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client.Status(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), st, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Name:\t%s\n", st.Name)
				fmt.Fprintf(tw, "UUID:\t%s\n", st.UUID)
				fmt.Fprintf(tw, "Started:\t%s\n", st.StartTime)
				fmt.Fprintf(tw, "Uptime:\t%s\n", st.Uptime)
				fmt.Fprintf(tw, "Trades:\t%d\n", st.Trades)
				fmt.Fprintf(tw, "Storage version:\t%d\n", st.Version)
			})
		},
	}
}
