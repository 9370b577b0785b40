package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"trading-journal-go/internal/api"
	"trading-journal-go/internal/metrics"
	"trading-journal-go/internal/models"
)

// render writes v as JSON or YAML, or calls table for the default format.
func (a *app) render(w io.Writer, v interface{}, table func(tw *tabwriter.Writer)) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func tradesTable(trades []models.Trade) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tDATE\tSYMBOL\tTYPE\tDIR\tENTRY\tEXIT\tQTY\tP/L\tOUTCOME\tSTRATEGY")
		for _, t := range trades {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Date, t.Symbol, t.Type, t.Direction,
				t.EntryPrice, t.ExitPrice, t.Quantity,
				t.ProfitLoss.StringFixed(2), t.Outcome, t.Strategy)
		}
	}
}

func tradeTable(t models.Trade) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
		fmt.Fprintf(tw, "Date:\t%s\n", t.Date)
		fmt.Fprintf(tw, "Symbol:\t%s\n", t.Symbol)
		fmt.Fprintf(tw, "Type:\t%s\n", t.Type)
		fmt.Fprintf(tw, "Direction:\t%s\n", t.Direction)
		fmt.Fprintf(tw, "Entry:\t%s\n", t.EntryPrice)
		fmt.Fprintf(tw, "Exit:\t%s\n", t.ExitPrice)
		fmt.Fprintf(tw, "Quantity:\t%s\n", t.Quantity)
		fmt.Fprintf(tw, "P/L:\t%s\n", t.ProfitLoss.StringFixed(2))
		fmt.Fprintf(tw, "Outcome:\t%s\n", t.Outcome)
		if t.Strategy != "" {
			fmt.Fprintf(tw, "Strategy:\t%s\n", t.Strategy)
		}
		if t.Notes != "" {
			fmt.Fprintf(tw, "Notes:\t%s\n", t.Notes)
		}
		for _, img := range t.Images {
			fmt.Fprintf(tw, "Image:\t%s\n", img)
		}
	}
}

func statsTable(s *api.StatsResponse) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		sum := s.Summary
		fmt.Fprintf(tw, "Trades:\t%d (%d wins, %d losses, %d break-even)\n", sum.Count, sum.Wins, sum.Losses, sum.BreakEven)
		fmt.Fprintf(tw, "Total P/L:\t%s\n", sum.TotalPL.StringFixed(2))
		fmt.Fprintf(tw, "Average P/L:\t%s\n", sum.AveragePL.StringFixed(2))
		fmt.Fprintf(tw, "Win rate:\t%s%%\n", sum.WinRate.StringFixed(1))
		fmt.Fprintf(tw, "Profit factor:\t%s\n", sum.ProfitFactor.StringFixed(2))
		fmt.Fprintf(tw, "Average win:\t%s\n", sum.AverageWin.StringFixed(2))
		fmt.Fprintf(tw, "Average loss:\t%s\n", sum.AverageLoss.StringFixed(2))
		fmt.Fprintf(tw, "Risk/reward:\t%s\n", sum.RiskReward.StringFixed(2))

		if len(s.ByType) > 0 {
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "TYPE\tTRADES\tWIN RATE")
			for _, t := range s.ByType {
				fmt.Fprintf(tw, "%s\t%d\t%s%%\n", t.Type, t.Count, t.WinRate.StringFixed(1))
			}
		}
	}
}

func dailyTable(days []metrics.DailyPL) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "DATE\tTRADES\tPROFIT\tLOSS\tTOTAL")
		for _, d := range days {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", d.Date, d.Count,
				d.Profit.StringFixed(2), d.Loss.StringFixed(2), d.Total.StringFixed(2))
		}
	}
}

func calendarTable(cal *api.CalendarResponse) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Month:\t%s\n", cal.Month)
		fmt.Fprintln(tw, "DATE\tTRADES\tP/L")
		for _, d := range cal.Days {
			if len(d.Trades) == 0 {
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Date, len(d.Trades), d.ProfitLoss.StringFixed(2))
		}
	}
}
