package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trading-journal-go/internal/models"
)

// Export is a downloadable snapshot of the collection.
type Export struct {
	Filename string
	Data     []byte
}

// ExportFilename is the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("trading-journal-export-%s.json", now.UTC().Format(models.DateLayout))
}

// Export serializes the collection as indented JSON. It does not modify the store.
func (s *Store) Export(now time.Time) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades := s.trades
	if trades == nil {
		trades = []models.Trade{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trades); err != nil {
		return Export{}, fmt.Errorf("failed to encode export: %w", err)
	}

	return Export{
		Filename: ExportFilename(now),
		Data:     bytes.TrimRight(buf.Bytes(), "\n"),
	}, nil
}

// Import replaces the collection with the trades in payload, which must be a
// JSON array of trade objects. On ErrImportFormat the store is unchanged.
func (s *Store) Import(ctx context.Context, payload []byte) (int, error) {
	trades, err := decodeImport(payload)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = trades
	s.log.Info("Imported trades", zap.Int("count", len(trades)))
	return len(trades), s.persist(ctx, "import")
}

func decodeImport(payload []byte) ([]models.Trade, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrImportFormat
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	trades := make([]models.Trade, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrImportFormat, i)
		}
		var t models.Trade
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrImportFormat, i, err)
		}
		if t.Images == nil {
			t.Images = []string{}
		}
		trades = append(trades, t)
	}
	return trades, nil
}
