package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-go/internal/models"
)

// tr builds a long trade of quantity 1 whose profit is pl.
func tr(date models.Date, typ models.TradeType, pl float64) models.Trade {
	return models.NewTrade("", models.TradeParams{
		Date:       date,
		Symbol:     "TEST",
		Type:       typ,
		Direction:  models.Long,
		EntryPrice: decimal.NewFromInt(1000),
		ExitPrice:  decimal.NewFromInt(1000).Add(decimal.NewFromFloat(pl)),
		Quantity:   decimal.NewFromInt(1),
	}, time.Now())
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

var day = models.NewDate(2024, 3, 15)

func TestSummarize(t *testing.T) {
	trades := []models.Trade{
		tr(day, models.TypeStock, 500),
		tr(day, models.TypeStock, -200),
		tr(day, models.TypeStock, 300),
	}

	s := Summarize(trades)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 0, s.BreakEven)
	assertDecimal(t, "600", s.TotalPL)
	assertDecimal(t, "200", s.AveragePL)
	assertDecimal(t, "66.7", s.WinRate.Round(1))
	assertDecimal(t, "800", s.GrossProfit)
	assertDecimal(t, "200", s.GrossLoss)
	assertDecimal(t, "4", s.ProfitFactor)
	assertDecimal(t, "400", s.AverageWin)
	assertDecimal(t, "200", s.AverageLoss)
	assertDecimal(t, "2", s.RiskReward)

	// The standalone functions agree with the summary
	assert.True(t, WinRate(trades).Equal(s.WinRate))
	assert.True(t, ProfitFactor(trades).Equal(s.ProfitFactor))
	assert.True(t, AverageWin(trades).Equal(s.AverageWin))
	assert.True(t, AverageLoss(trades).Equal(s.AverageLoss))
	assert.True(t, RiskReward(trades).Equal(s.RiskReward))
}

func TestSummarize_Empty(t *testing.T) {
	for _, trades := range [][]models.Trade{nil, {}} {
		s := Summarize(trades)

		assert.Equal(t, 0, s.Count)
		assertDecimal(t, "0", s.TotalPL)
		assertDecimal(t, "0", s.AveragePL)
		assertDecimal(t, "0", s.WinRate)
		assertDecimal(t, "0", s.ProfitFactor)
		assertDecimal(t, "0", s.AverageWin)
		assertDecimal(t, "0", s.AverageLoss)
		assertDecimal(t, "0", s.RiskReward)
	}
}

func TestDivisionByZeroFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		trades       []models.Trade
		profitFactor string
		riskReward   string
	}{
		{
			name:         "Only wins",
			trades:       []models.Trade{tr(day, models.TypeStock, 120), tr(day, models.TypeStock, 80)},
			profitFactor: "200",
			riskReward:   "100",
		},
		{
			name:         "Only losses",
			trades:       []models.Trade{tr(day, models.TypeStock, -50)},
			profitFactor: "0",
			riskReward:   "0",
		},
		{
			name:         "Only break-even",
			trades:       []models.Trade{tr(day, models.TypeStock, 0)},
			profitFactor: "0",
			riskReward:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.profitFactor, ProfitFactor(tt.trades))
			assertDecimal(t, tt.riskReward, RiskReward(tt.trades))
		})
	}
}

func TestByType(t *testing.T) {
	trades := []models.Trade{
		tr(day, models.TypeOption, 10),
		tr(day, models.TypeStock, 10),
		tr(day, models.TypeOption, -10),
		tr(day, models.TypeStock, 10),
		tr(day, models.TypeCrypto, 0),
	}

	got := ByType(trades)

	require.Len(t, got, 3)
	assert.Equal(t, models.TypeOption, got[0].Type)
	assert.Equal(t, 2, got[0].Count)
	assertDecimal(t, "50", got[0].WinRate)

	assert.Equal(t, models.TypeStock, got[1].Type)
	assertDecimal(t, "100", got[1].WinRate)

	assert.Equal(t, models.TypeCrypto, got[2].Type)
	assertDecimal(t, "0", got[2].WinRate)

	assert.Empty(t, ByType(nil))
	assert.NotNil(t, ByType(nil))
}
