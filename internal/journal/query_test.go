package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"trading-journal-go/internal/models"
)

func ids(trades []models.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	mk := func(id, symbol string, day int, typ models.TradeType, pl int64, strategy, notes string) models.Trade {
		tr := models.NewTrade(id, models.TradeParams{
			Date:       models.NewDate(2024, 3, day),
			Symbol:     symbol,
			Type:       typ,
			Direction:  models.Long,
			EntryPrice: decimal.NewFromInt(100),
			ExitPrice:  decimal.NewFromInt(100 + pl),
			Quantity:   decimal.NewFromInt(1),
			Strategy:   strategy,
			Notes:      notes,
		}, testNow)
		return tr
	}

	// Collection order is newest first
	trades := []models.Trade{
		mk("d", "BTCUSD", 4, models.TypeCrypto, 0, "scalp", ""),
		mk("c", "MSFT", 3, models.TypeStock, -20, "Breakout", ""),
		mk("b", "TSLA", 2, models.TypeOption, 50, "", "earnings breakout"),
		mk("a", "AAPL", 1, models.TypeStock, 10, "swing", ""),
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"Default is date descending", Filter{}, []string{"d", "c", "b", "a"}},
		{"Date ascending", Filter{SortBy: SortDate, Order: Asc}, []string{"a", "b", "c", "d"}},
		{"Symbol ascending", Filter{SortBy: SortSymbol, Order: Asc}, []string{"a", "d", "c", "b"}},
		{"Profit descending", Filter{SortBy: SortProfitLoss, Order: Desc}, []string{"b", "a", "d", "c"}},
		{"Search matches strategy and notes case-insensitively", Filter{Search: "BREAKOUT"}, []string{"c", "b"}},
		{"Search matches symbol", Filter{Search: "tsl"}, []string{"b"}},
		{"Outcome filter", Filter{Outcome: models.Win}, []string{"b", "a"}},
		{"Break-even filter", Filter{Outcome: models.BreakEven}, []string{"d"}},
		{"Type filter", Filter{Type: models.TypeStock}, []string{"c", "a"}},
		{"Combined filters", Filter{Type: models.TypeStock, Outcome: models.Loss}, []string{"c"}},
		{"No matches", Filter{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ApplyFilter(trades, tt.filter)))
		})
	}

	// Input order is untouched
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(trades))
}

func TestSortField_Valid(t *testing.T) {
	assert.True(t, SortProfitLoss.Valid())
	assert.False(t, SortField("price").Valid())
}
