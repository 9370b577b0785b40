package models

import (
	"bytes"
	"encoding/json"
)

// Numeric is a raw number as typed by the user. It decodes from either a JSON
// number or a JSON string so that malformed values reach validation intact.
type Numeric string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	*n = Numeric(data)
	return nil
}

// TradeInput is the raw, unvalidated form of a new trade. Numeric fields keep
// their raw text so that malformed values can be reported per field.
type TradeInput struct {
	Date       string   `json:"date"`
	Symbol     string   `json:"symbol"`
	Type       string   `json:"type"`
	Direction  string   `json:"direction"`
	EntryPrice Numeric  `json:"entryPrice"`
	ExitPrice  Numeric  `json:"exitPrice"`
	Quantity   Numeric  `json:"quantity"`
	Strategy   string   `json:"strategy"`
	Notes      string   `json:"notes"`
	Images     []string `json:"images"`
}

// TradeUpdate is the raw form of a partial update. Nil fields are left unchanged.
type TradeUpdate struct {
	Date       *string   `json:"date,omitempty"`
	Symbol     *string   `json:"symbol,omitempty"`
	Type       *string   `json:"type,omitempty"`
	Direction  *string   `json:"direction,omitempty"`
	EntryPrice *Numeric  `json:"entryPrice,omitempty"`
	ExitPrice  *Numeric  `json:"exitPrice,omitempty"`
	Quantity   *Numeric  `json:"quantity,omitempty"`
	Strategy   *string   `json:"strategy,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Images     *[]string `json:"images,omitempty"`
}
