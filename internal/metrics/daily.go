package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal-go/internal/models"
)

// DailyPL is the profit and loss booked on one calendar date.
type DailyPL struct {
	Date   models.Date     `json:"date" yaml:"date"`
	Profit decimal.Decimal `json:"profit" yaml:"profit"`
	Loss   decimal.Decimal `json:"loss" yaml:"loss"`
	Total  decimal.Decimal `json:"total" yaml:"total"`
	Count  int             `json:"count" yaml:"count"`
}

// Daily groups trades by date, splitting positive and negative results.
// Days are returned oldest first.
func Daily(trades []models.Trade) []DailyPL {
	byDate := make(map[models.Date]*DailyPL)
	for _, tr := range trades {
		d, ok := byDate[tr.Date]
		if !ok {
			d = &DailyPL{Date: tr.Date}
			byDate[tr.Date] = d
		}
		d.Count++
		d.Total = d.Total.Add(tr.ProfitLoss)
		switch tr.ProfitLoss.Sign() {
		case 1:
			d.Profit = d.Profit.Add(tr.ProfitLoss)
		case -1:
			d.Loss = d.Loss.Add(tr.ProfitLoss)
		}
	}

	out := make([]DailyPL, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TodayPL is the result of trades dated today.
type TodayPL struct {
	Date       models.Date     `json:"date" yaml:"date"`
	ProfitLoss decimal.Decimal `json:"profitLoss" yaml:"profitLoss"`
	Count      int             `json:"count" yaml:"count"`
}

// Today sums the trades whose date is now's date in now's location.
func Today(trades []models.Trade, now time.Time) TodayPL {
	out := TodayPL{Date: models.DateOf(now)}
	for _, tr := range trades {
		if tr.Date == out.Date {
			out.ProfitLoss = out.ProfitLoss.Add(tr.ProfitLoss)
			out.Count++
		}
	}
	return out
}

// CalendarDay is one cell of the monthly calendar.
type CalendarDay struct {
	Date       models.Date     `json:"date" yaml:"date"`
	ProfitLoss decimal.Decimal `json:"profitLoss" yaml:"profitLoss"`
	Trades     []models.Trade  `json:"trades" yaml:"trades"`
}

// Calendar returns one entry per day of the month, each with its trades
// in collection order.
func Calendar(trades []models.Trade, year int, month time.Month) []CalendarDay {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	out := make([]CalendarDay, days)
	for i := range out {
		out[i] = CalendarDay{Date: models.NewDate(year, month, i+1), Trades: []models.Trade{}}
	}

	for _, tr := range trades {
		if tr.Date.Year != year || tr.Date.Month != month {
			continue
		}
		if tr.Date.Day < 1 || tr.Date.Day > days {
			continue
		}
		day := &out[tr.Date.Day-1]
		day.Trades = append(day.Trades, tr)
		day.ProfitLoss = day.ProfitLoss.Add(tr.ProfitLoss)
	}
	return out
}
