package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and quantities are stored as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// TradeType is the asset class of a trade.
type TradeType string

const (
	TypeStock  TradeType = "stock"
	TypeOption TradeType = "option"
	TypeFuture TradeType = "future"
	TypeForex  TradeType = "forex"
	TypeCrypto TradeType = "crypto"
)

// TradeTypes lists every valid TradeType in display order.
var TradeTypes = []TradeType{TypeStock, TypeOption, TypeFuture, TypeForex, TypeCrypto}

// Valid reports whether t is a known trade type.
func (t TradeType) Valid() bool {
	for _, v := range TradeTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Direction is long (profit when price rises) or short (profit when price falls).
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Valid reports whether d is long or short.
func (d Direction) Valid() bool {
	return d == Long || d == Short
}

// Outcome classifies the result of a trade.
type Outcome string

const (
	Win       Outcome = "win"
	Loss      Outcome = "loss"
	BreakEven Outcome = "break-even"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == Win || o == Loss || o == BreakEven
}

// Trade represents a single recorded trade.
// ProfitLoss and Outcome are derived from the prices, quantity and direction;
// they are only ever set by NewTrade and Apply.
type Trade struct {
	ID         string          `json:"id" yaml:"id"`
	Date       Date            `json:"date" yaml:"date"`
	Symbol     string          `json:"symbol" yaml:"symbol"`
	Type       TradeType       `json:"type" yaml:"type"`
	Direction  Direction       `json:"direction" yaml:"direction"`
	EntryPrice decimal.Decimal `json:"entryPrice" yaml:"entryPrice"`
	ExitPrice  decimal.Decimal `json:"exitPrice" yaml:"exitPrice"`
	Quantity   decimal.Decimal `json:"quantity" yaml:"quantity"`
	ProfitLoss decimal.Decimal `json:"profitLoss" yaml:"profitLoss"`
	Outcome    Outcome         `json:"outcome" yaml:"outcome"`
	Strategy   string          `json:"strategy" yaml:"strategy"`
	Notes      string          `json:"notes" yaml:"notes"`
	Images     []string        `json:"images" yaml:"images"`
	Timestamp  time.Time       `json:"timestamp" yaml:"timestamp"`
}

// TradeParams holds the validated inputs of a new trade.
type TradeParams struct {
	Date       Date
	Symbol     string
	Type       TradeType
	Direction  Direction
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	Quantity   decimal.Decimal
	Strategy   string
	Notes      string
	Images     []string
}

// ProfitLoss is the realized result of a trade:
// (exit - entry) * quantity for long trades, (entry - exit) * quantity for short ones.
func ProfitLoss(direction Direction, entry, exit, quantity decimal.Decimal) decimal.Decimal {
	if direction == Short {
		return entry.Sub(exit).Mul(quantity)
	}
	return exit.Sub(entry).Mul(quantity)
}

// OutcomeOf classifies a profit/loss value by its sign.
func OutcomeOf(profitLoss decimal.Decimal) Outcome {
	switch profitLoss.Sign() {
	case 1:
		return Win
	case -1:
		return Loss
	default:
		return BreakEven
	}
}

// NewTrade builds a trade from validated params, computing ProfitLoss and Outcome.
func NewTrade(id string, p TradeParams, now time.Time) Trade {
	t := Trade{
		ID:         id,
		Date:       p.Date,
		Symbol:     NormalizeSymbol(p.Symbol),
		Type:       p.Type,
		Direction:  p.Direction,
		EntryPrice: p.EntryPrice,
		ExitPrice:  p.ExitPrice,
		Quantity:   p.Quantity,
		Strategy:   p.Strategy,
		Notes:      p.Notes,
		Images:     append([]string{}, p.Images...),
		Timestamp:  now.UTC(),
	}
	t.reprice()
	return t
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (t *Trade) reprice() {
	t.ProfitLoss = ProfitLoss(t.Direction, t.EntryPrice, t.ExitPrice, t.Quantity)
	t.Outcome = OutcomeOf(t.ProfitLoss)
}

// TradePatch holds the fields of a partial update. Nil fields are left unchanged.
type TradePatch struct {
	Date       *Date
	Symbol     *string
	Type       *TradeType
	Direction  *Direction
	EntryPrice *decimal.Decimal
	ExitPrice  *decimal.Decimal
	Quantity   *decimal.Decimal
	Strategy   *string
	Notes      *string
	Images     *[]string
}

// Empty reports whether the patch changes nothing.
func (p TradePatch) Empty() bool {
	return p.Date == nil && p.Symbol == nil && p.Type == nil && p.Direction == nil &&
		p.EntryPrice == nil && p.ExitPrice == nil && p.Quantity == nil &&
		p.Strategy == nil && p.Notes == nil && p.Images == nil
}

func (p TradePatch) repricing() bool {
	return p.Direction != nil || p.EntryPrice != nil || p.ExitPrice != nil || p.Quantity != nil
}

// Apply returns a copy of t with the patch merged in. When any input of the
// profit/loss formula changes, ProfitLoss and Outcome are recomputed together.
func (t Trade) Apply(p TradePatch) Trade {
	out := t
	out.Images = append([]string{}, t.Images...)

	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.Symbol != nil {
		out.Symbol = NormalizeSymbol(*p.Symbol)
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Direction != nil {
		out.Direction = *p.Direction
	}
	if p.EntryPrice != nil {
		out.EntryPrice = *p.EntryPrice
	}
	if p.ExitPrice != nil {
		out.ExitPrice = *p.ExitPrice
	}
	if p.Quantity != nil {
		out.Quantity = *p.Quantity
	}
	if p.Strategy != nil {
		out.Strategy = *p.Strategy
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	if p.Images != nil {
		out.Images = append([]string{}, (*p.Images)...)
	}

	if p.repricing() {
		out.reprice()
	}
	return out
}
