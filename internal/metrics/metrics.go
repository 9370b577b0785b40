// Package metrics derives performance figures from a set of trades.
// Every function is pure; an empty input yields zero values.
package metrics

import (
	"github.com/shopspring/decimal"

	"trading-journal-go/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the aggregate figures shown on the dashboard.
type Summary struct {
	Count        int             `json:"count" yaml:"count"`
	Wins         int             `json:"wins" yaml:"wins"`
	Losses       int             `json:"losses" yaml:"losses"`
	BreakEven    int             `json:"breakEven" yaml:"breakEven"`
	TotalPL      decimal.Decimal `json:"totalProfitLoss" yaml:"totalProfitLoss"`
	AveragePL    decimal.Decimal `json:"averageProfitLoss" yaml:"averageProfitLoss"`
	WinRate      decimal.Decimal `json:"winRate" yaml:"winRate"`
	GrossProfit  decimal.Decimal `json:"grossProfit" yaml:"grossProfit"`
	GrossLoss    decimal.Decimal `json:"grossLoss" yaml:"grossLoss"`
	ProfitFactor decimal.Decimal `json:"profitFactor" yaml:"profitFactor"`
	AverageWin   decimal.Decimal `json:"averageWin" yaml:"averageWin"`
	AverageLoss  decimal.Decimal `json:"averageLoss" yaml:"averageLoss"`
	RiskReward   decimal.Decimal `json:"riskReward" yaml:"riskReward"`
}

// tally is the single pass every other figure is derived from.
type tally struct {
	count, wins, losses, breakEven int
	total, winSum, lossSum         decimal.Decimal
}

func count(trades []models.Trade) tally {
	var t tally
	for _, tr := range trades {
		t.count++
		t.total = t.total.Add(tr.ProfitLoss)
		switch tr.Outcome {
		case models.Win:
			t.wins++
			t.winSum = t.winSum.Add(tr.ProfitLoss)
		case models.Loss:
			t.losses++
			t.lossSum = t.lossSum.Add(tr.ProfitLoss)
		default:
			t.breakEven++
		}
	}
	return t
}

func (t tally) winRate() decimal.Decimal {
	if t.count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(t.wins)).Div(decimal.NewFromInt(int64(t.count))).Mul(hundred)
}

func (t tally) profitFactor() decimal.Decimal {
	if t.losses == 0 || t.lossSum.IsZero() {
		return t.winSum
	}
	return t.winSum.Div(t.lossSum.Abs())
}

func (t tally) averageWin() decimal.Decimal {
	if t.wins == 0 {
		return decimal.Zero
	}
	return t.winSum.Div(decimal.NewFromInt(int64(t.wins)))
}

// averageLoss is reported as a positive magnitude.
func (t tally) averageLoss() decimal.Decimal {
	if t.losses == 0 {
		return decimal.Zero
	}
	return t.lossSum.Abs().Div(decimal.NewFromInt(int64(t.losses)))
}

func (t tally) riskReward() decimal.Decimal {
	avgLoss := t.averageLoss()
	if avgLoss.IsZero() {
		return t.averageWin()
	}
	return t.averageWin().Div(avgLoss)
}

// Summarize computes every aggregate figure in one pass.
func Summarize(trades []models.Trade) Summary {
	t := count(trades)

	s := Summary{
		Count:        t.count,
		Wins:         t.wins,
		Losses:       t.losses,
		BreakEven:    t.breakEven,
		TotalPL:      t.total,
		AveragePL:    decimal.Zero,
		WinRate:      t.winRate(),
		GrossProfit:  t.winSum,
		GrossLoss:    t.lossSum.Abs(),
		ProfitFactor: t.profitFactor(),
		AverageWin:   t.averageWin(),
		AverageLoss:  t.averageLoss(),
		RiskReward:   t.riskReward(),
	}
	if t.count > 0 {
		s.AveragePL = t.total.Div(decimal.NewFromInt(int64(t.count)))
	}
	return s
}

// WinRate is the percentage of winning trades, 0 for no trades.
func WinRate(trades []models.Trade) decimal.Decimal {
	return count(trades).winRate()
}

// ProfitFactor is gross profit over gross loss. Without losses it is the gross profit.
func ProfitFactor(trades []models.Trade) decimal.Decimal {
	return count(trades).profitFactor()
}

// AverageWin is the mean profit of winning trades.
func AverageWin(trades []models.Trade) decimal.Decimal {
	return count(trades).averageWin()
}

// AverageLoss is the mean absolute loss of losing trades.
func AverageLoss(trades []models.Trade) decimal.Decimal {
	return count(trades).averageLoss()
}

// RiskReward is average win over average loss, or the average win when there are no losses.
func RiskReward(trades []models.Trade) decimal.Decimal {
	return count(trades).riskReward()
}

// TypeStats is the win rate of one trade type.
type TypeStats struct {
	Type    models.TradeType `json:"type" yaml:"type"`
	Count   int              `json:"count" yaml:"count"`
	Wins    int              `json:"wins" yaml:"wins"`
	WinRate decimal.Decimal  `json:"winRate" yaml:"winRate"`
}

// ByType groups trades by type. Groups appear in the order their type is first seen.
func ByType(trades []models.Trade) []TypeStats {
	index := make(map[models.TradeType]int)
	var out []TypeStats

	for _, tr := range trades {
		i, ok := index[tr.Type]
		if !ok {
			i = len(out)
			index[tr.Type] = i
			out = append(out, TypeStats{Type: tr.Type})
		}
		out[i].Count++
		if tr.Outcome == models.Win {
			out[i].Wins++
		}
	}

	for i := range out {
		out[i].WinRate = tally{count: out[i].Count, wins: out[i].Wins}.winRate()
	}
	if out == nil {
		out = []TypeStats{}
	}
	return out
}
