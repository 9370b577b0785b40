package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"trading-journal-go/internal/models"
)

// ValidateCreateTrade validates a new trade and converts it into TradeParams.
//
// Required fields:
//   - symbol: non-empty
//   - entryPrice, exitPrice: numeric, not negative
//   - quantity: numeric, positive
//
// Optional fields:
//   - date: YYYY-MM-DD, defaults to today
//   - type: one of stock, option, future, forex, crypto; defaults to stock
//   - direction: long or short; defaults to long
//
// Returns an *Error with one message per failing field.
func ValidateCreateTrade(in models.TradeInput, today models.Date) (models.TradeParams, error) {
	errs := make(map[string]string)
	params := models.TradeParams{
		Date:      today,
		Type:      models.TypeStock,
		Direction: models.Long,
		Strategy:  strings.TrimSpace(in.Strategy),
		Notes:     in.Notes,
		Images:    in.Images,
	}

	if strings.TrimSpace(in.Date) != "" {
		if d, err := models.ParseDate(strings.TrimSpace(in.Date)); err != nil {
			errs["date"] = err.Error()
		} else {
			params.Date = d
		}
	}

	if symbol := models.NormalizeSymbol(in.Symbol); symbol == "" {
		errs["symbol"] = "symbol is required"
	} else {
		params.Symbol = symbol
	}

	if strings.TrimSpace(in.Type) != "" {
		if t, ok := parseType(in.Type); ok {
			params.Type = t
		} else {
			errs["type"] = fmt.Sprintf("invalid type: %s", in.Type)
		}
	}

	if strings.TrimSpace(in.Direction) != "" {
		if d, ok := parseDirection(in.Direction); ok {
			params.Direction = d
		} else {
			errs["direction"] = fmt.Sprintf("invalid direction: %s", in.Direction)
		}
	}

	if v, msg := parsePrice("entryPrice", string(in.EntryPrice)); msg != "" {
		errs["entryPrice"] = msg
	} else {
		params.EntryPrice = v
	}

	if v, msg := parsePrice("exitPrice", string(in.ExitPrice)); msg != "" {
		errs["exitPrice"] = msg
	} else {
		params.ExitPrice = v
	}

	if v, msg := parseQuantity(string(in.Quantity)); msg != "" {
		errs["quantity"] = msg
	} else {
		params.Quantity = v
	}

	if len(errs) > 0 {
		return models.TradeParams{}, &Error{Fields: errs}
	}
	return params, nil
}

// ValidateUpdateTrade validates a partial update. All fields are optional, but
// when present they must meet the same constraints as on create.
// Returns an *Error with one message per failing field.
func ValidateUpdateTrade(in models.TradeUpdate) (models.TradePatch, error) {
	errs := make(map[string]string)
	var patch models.TradePatch

	if in.Date != nil {
		if d, err := models.ParseDate(strings.TrimSpace(*in.Date)); err != nil {
			errs["date"] = err.Error()
		} else {
			patch.Date = &d
		}
	}
	if in.Symbol != nil {
		if symbol := models.NormalizeSymbol(*in.Symbol); symbol == "" {
			errs["symbol"] = "symbol is required"
		} else {
			patch.Symbol = &symbol
		}
	}
	if in.Type != nil {
		if t, ok := parseType(*in.Type); ok {
			patch.Type = &t
		} else {
			errs["type"] = fmt.Sprintf("invalid type: %s", *in.Type)
		}
	}
	if in.Direction != nil {
		if d, ok := parseDirection(*in.Direction); ok {
			patch.Direction = &d
		} else {
			errs["direction"] = fmt.Sprintf("invalid direction: %s", *in.Direction)
		}
	}
	if in.EntryPrice != nil {
		if v, msg := parsePrice("entryPrice", string(*in.EntryPrice)); msg != "" {
			errs["entryPrice"] = msg
		} else {
			patch.EntryPrice = &v
		}
	}
	if in.ExitPrice != nil {
		if v, msg := parsePrice("exitPrice", string(*in.ExitPrice)); msg != "" {
			errs["exitPrice"] = msg
		} else {
			patch.ExitPrice = &v
		}
	}
	if in.Quantity != nil {
		if v, msg := parseQuantity(string(*in.Quantity)); msg != "" {
			errs["quantity"] = msg
		} else {
			patch.Quantity = &v
		}
	}
	if in.Strategy != nil {
		s := strings.TrimSpace(*in.Strategy)
		patch.Strategy = &s
	}
	patch.Notes = in.Notes
	patch.Images = in.Images

	if len(errs) > 0 {
		return models.TradePatch{}, &Error{Fields: errs}
	}
	return patch, nil
}

func parseType(s string) (models.TradeType, bool) {
	t := models.TradeType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func parseDirection(s string) (models.Direction, bool) {
	d := models.Direction(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

func parsePrice(field, s string) (decimal.Decimal, string) {
	v, msg := parseNumber(field, s)
	if msg != "" {
		return decimal.Zero, msg
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Sprintf("%s cannot be negative", field)
	}
	return v, ""
}

func parseQuantity(s string) (decimal.Decimal, string) {
	v, msg := parseNumber("quantity", s)
	if msg != "" {
		return decimal.Zero, msg
	}
	if !v.IsPositive() {
		return decimal.Zero, "quantity must be positive"
	}
	return v, ""
}

func parseNumber(field, s string) (decimal.Decimal, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Sprintf("%s is required", field)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("%s must be a number", field)
	}
	return v, ""
}
