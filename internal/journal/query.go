package journal

import (
	"sort"
	"strings"

	"trading-journal-go/internal/models"
)

// SortField names the trade field a history query is ordered by.
type SortField string

const (
	SortDate       SortField = "date"
	SortSymbol     SortField = "symbol"
	SortProfitLoss SortField = "profitLoss"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	return f == SortDate || f == SortSymbol || f == SortProfitLoss
}

// Order is the direction of a history sort.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Filter selects and orders trades for the history view.
// Zero values match everything, sorted by date, newest first.
type Filter struct {
	Search  string
	Outcome models.Outcome
	Type    models.TradeType
	SortBy  SortField
	Order   Order
}

// Query returns the trades matching f in the requested order.
func (s *Store) Query(f Filter) []models.Trade {
	return ApplyFilter(s.Trades(), f)
}

// ApplyFilter returns the trades matching f in the requested order. trades is not modified.
func ApplyFilter(trades []models.Trade, f Filter) []models.Trade {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Outcome != "" && t.Outcome != f.Outcome {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if search != "" && !matches(t, search) {
			continue
		}
		out = append(out, t)
	}

	less := compareBy(f.SortBy)
	desc := f.Order != Asc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func matches(t models.Trade, search string) bool {
	return strings.Contains(strings.ToLower(t.Symbol), search) ||
		strings.Contains(strings.ToLower(t.Strategy), search) ||
		strings.Contains(strings.ToLower(t.Notes), search)
}

func compareBy(field SortField) func(a, b models.Trade) bool {
	switch field {
	case SortSymbol:
		return func(a, b models.Trade) bool { return a.Symbol < b.Symbol }
	case SortProfitLoss:
		return func(a, b models.Trade) bool { return a.ProfitLoss.LessThan(b.ProfitLoss) }
	default:
		return func(a, b models.Trade) bool { return a.Date.Before(b.Date) }
	}
}
