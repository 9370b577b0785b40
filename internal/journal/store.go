// Package journal owns the trade collection and keeps it in sync with storage.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/storage"
	"trading-journal-go/internal/validation"
)

// DefaultKey is the storage key holding the trade array.
const DefaultKey = "tradingJournalTrades"

// IDGenerator hands out unique trade ids.
type IDGenerator interface {
	New() string
}

// Store holds the trade collection, newest first, and rewrites it to storage
// after every mutation. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	key     string
	ids     IDGenerator
	log     *zap.Logger

	trades  []models.Trade
	version int64

	retryDelay time.Duration
}

// New creates an empty Store. Call Load to read the persisted collection.
func New(st storage.Storage, key string, ids IDGenerator, log *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		storage:    st,
		key:        key,
		ids:        ids,
		log:        log.Named("store"),
		trades:     []models.Trade{},
		retryDelay: 200 * time.Millisecond,
	}
}

// Load replaces the in-memory collection with the persisted one.
// A missing, unreadable or corrupt entry yields an empty collection.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
}

// Reload re-reads the collection from storage, discarding unsaved state.
func (s *Store) Reload(ctx context.Context) {
	s.Load(ctx)
}

func (s *Store) load(ctx context.Context) {
	s.trades = []models.Trade{}

	entry, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.version = 0
		s.log.Info("No saved trades found, starting empty", zap.String("key", s.key))
		return
	}
	if err != nil {
		s.log.Error("Failed to read saved trades, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}

	// Keep the version even for a corrupt value so the next save replaces it.
	s.version = entry.Version

	var trades []models.Trade
	if err := json.Unmarshal(entry.Value, &trades); err != nil {
		s.log.Warn("Saved trades are not valid JSON, starting empty",
			zap.String("key", s.key), zap.Int64("version", entry.Version), zap.Error(err))
		return
	}
	if trades != nil {
		s.trades = trades
	}

	s.log.Info("Loaded trades",
		zap.Int("count", len(s.trades)),
		zap.Int64("version", entry.Version),
		zap.String("writer", entry.Writer))
}

// Add prepends a fully formed trade and persists the collection.
func (s *Store) Add(ctx context.Context, trade models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(trade.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateTrade, trade.ID)
	}

	s.trades = append([]models.Trade{cloneTrade(trade)}, s.trades...)
	s.log.Info("Added trade",
		zap.String("id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("profitLoss", trade.ProfitLoss.String()))

	return s.persist(ctx, "add")
}

// Create validates raw input, builds a trade dated relative to now and adds it.
// The returned trade is valid whenever the error is nil or a *StorageWriteError.
func (s *Store) Create(ctx context.Context, in models.TradeInput, now time.Time) (models.Trade, error) {
	params, err := validation.ValidateCreateTrade(in, models.DateOf(now))
	if err != nil {
		return models.Trade{}, err
	}

	trade := models.NewTrade(s.ids.New(), params, now)
	if err := s.Add(ctx, trade); err != nil {
		return trade, err
	}
	return trade, nil
}

// Update merges patch into the trade with the given id. found is false, and
// nothing is written, when no such trade exists.
func (s *Store) Update(ctx context.Context, id string, patch models.TradePatch) (trade models.Trade, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Trade{}, false, nil
	}
	if patch.Empty() {
		return cloneTrade(s.trades[i]), true, nil
	}

	s.trades[i] = s.trades[i].Apply(patch)
	trade = cloneTrade(s.trades[i])
	s.log.Info("Updated trade",
		zap.String("id", id),
		zap.String("profitLoss", trade.ProfitLoss.String()),
		zap.String("outcome", string(trade.Outcome)))

	return trade, true, s.persist(ctx, "update")
}

// Delete removes the trade with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	trades := make([]models.Trade, 0, len(s.trades)-1)
	trades = append(trades, s.trades[:i]...)
	s.trades = append(trades, s.trades[i+1:]...)
	s.log.Info("Deleted trade", zap.String("id", id))

	return true, s.persist(ctx, "delete")
}

// Clear removes every trade.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Clearing trades", zap.Int("count", len(s.trades)))
	s.trades = []models.Trade{}
	return s.persist(ctx, "clear")
}

// Trades returns a copy of the collection, newest first.
func (s *Store) Trades() []models.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTrades(s.trades)
}

// Len returns the number of trades.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

// Get returns the trade with the given id.
func (s *Store) Get(id string) (models.Trade, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Trade{}, false
	}
	return cloneTrade(s.trades[i]), true
}

// Recent returns up to n of the newest trades.
func (s *Store) Recent(n int) []models.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if n > len(s.trades) {
		n = len(s.trades)
	}
	return cloneTrades(s.trades[:n])
}

// Version returns the storage version the collection was last read or written at.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) indexOf(id string) int {
	for i := range s.trades {
		if s.trades[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole collection. Transient failures are retried once;
// version conflicts are returned immediately. Must be called with mu held.
func (s *Store) persist(ctx context.Context, op string) error {
	data, err := encodeCompact(s.trades)
	if err != nil {
		return &StorageWriteError{Op: op, Err: err}
	}

	for attempt := 1; ; attempt++ {
		version, err := s.storage.Put(ctx, s.key, data, s.version)
		if err == nil {
			s.version = version
			return nil
		}

		if errors.Is(err, storage.ErrVersionConflict) || attempt == 2 {
			s.log.Error("Failed to persist trades",
				zap.String("op", op),
				zap.Int64("version", s.version),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return &StorageWriteError{Op: op, Err: err}
		}

		s.log.Warn("Persisting trades failed, retrying", zap.String("op", op), zap.Error(err))
		select {
		case <-ctx.Done():
			return &StorageWriteError{Op: op, Err: ctx.Err()}
		case <-time.After(s.retryDelay):
		}
	}
}

func encodeCompact(trades []models.Trade) ([]byte, error) {
	if trades == nil {
		trades = []models.Trade{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(trades); err != nil {
		return nil, fmt.Errorf("failed to encode trades: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func cloneTrade(t models.Trade) models.Trade {
	if t.Images != nil {
		t.Images = append([]string{}, t.Images...)
	}
	return t
}

func cloneTrades(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	for i, t := range trades {
		out[i] = cloneTrade(t)
	}
	return out
}
