package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/storage"
	"trading-journal-go/internal/validation"
)

// MockStorage is a mock implementation of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (storage.Entry, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.Entry), args.Error(1)
}

func (m *MockStorage) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, key, value, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Close() error {
	return m.Called().Error(0)
}

// seqIDs returns "t1", "t2", ... in order.
type seqIDs struct{ n int }

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("t%d", g.n)
}

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStorage) {
	t.Helper()
	st := storage.NewMemoryStorage("test")
	s := New(st, "", &seqIDs{}, zap.NewNop())
	s.Load(context.Background())
	return s, st
}

func trade(id, symbol string, entry, exit, qty int64) models.Trade {
	return models.NewTrade(id, models.TradeParams{
		Date:       models.NewDate(2024, 3, 15),
		Symbol:     symbol,
		Type:       models.TypeStock,
		Direction:  models.Long,
		EntryPrice: decimal.NewFromInt(entry),
		ExitPrice:  decimal.NewFromInt(exit),
		Quantity:   decimal.NewFromInt(qty),
	}, testNow)
}

func stored(t *testing.T, st storage.Storage) string {
	t.Helper()
	entry, err := st.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	return string(entry.Value)
}

func TestStore_LoadMissingStartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.Trades())
	assert.Equal(t, int64(0), s.Version())
}

func TestStore_LoadCorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage("test")
	_, err := st.Put(ctx, DefaultKey, []byte(`{not json`), 0)
	require.NoError(t, err)

	s := New(st, "", &seqIDs{}, zap.NewNop())
	s.Load(ctx)
	assert.Empty(t, s.Trades())

	// The next save overwrites the corrupt value instead of conflicting with it
	require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
	assert.Contains(t, stored(t, st), `"id":"a"`)
}

func TestStore_LoadReadErrorStartsEmpty(t *testing.T) {
	st := new(MockStorage)
	st.On("Get", mock.Anything, DefaultKey).Return(storage.Entry{}, errors.New("disk on fire"))

	s := New(st, "", &seqIDs{}, zap.NewNop())
	s.Load(context.Background())

	assert.Empty(t, s.Trades())
	st.AssertExpectations(t)
}

func TestStore_AddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	s, st := newTestStore(t)

	require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
	require.NoError(t, s.Add(ctx, trade("b", "MSFT", 200, 190, 1)))

	trades := s.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, "b", trades[0].ID)
	assert.Equal(t, "a", trades[1].ID)

	// Persisted value is the compact array, newest first
	value := stored(t, st)
	assert.Regexp(t, `^\[\{"id":"b".*\},\{"id":"a".*\}\]$`, value)
	assert.Equal(t, int64(2), s.Version())
}

func TestStore_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
	err := s.Add(ctx, trade("a", "TSLA", 1, 2, 3))

	assert.ErrorIs(t, err, ErrDuplicateTrade)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid input", func(t *testing.T) {
		s, _ := newTestStore(t)

		got, err := s.Create(ctx, models.TradeInput{
			Symbol:     " aapl ",
			EntryPrice: "100",
			ExitPrice:  "105",
			Quantity:   "10",
		}, testNow)
		require.NoError(t, err)

		assert.Equal(t, "t1", got.ID)
		assert.Equal(t, "AAPL", got.Symbol)
		assert.Equal(t, models.NewDate(2024, 3, 15), got.Date)
		assert.Equal(t, models.TypeStock, got.Type)
		assert.Equal(t, models.Long, got.Direction)
		assert.True(t, got.ProfitLoss.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, models.Win, got.Outcome)

		saved, ok := s.Get("t1")
		require.True(t, ok)
		assert.Equal(t, got, saved)
	})

	t.Run("Invalid input", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.Create(ctx, models.TradeInput{EntryPrice: "abc", ExitPrice: "1", Quantity: "0"}, testNow)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "symbol")
		assert.Contains(t, verr.Fields, "entryPrice")
		assert.Contains(t, verr.Fields, "quantity")
		assert.Equal(t, 0, s.Len())
	})
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Exit price change recomputes profit", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))

		exit := decimal.NewFromInt(95)
		got, found, err := s.Update(ctx, "a", models.TradePatch{ExitPrice: &exit})
		require.NoError(t, err)
		require.True(t, found)

		assert.True(t, got.ProfitLoss.Equal(decimal.NewFromInt(-50)))
		assert.Equal(t, models.Loss, got.Outcome)

		current, _ := s.Get("a")
		assert.Equal(t, got, current)
	})

	t.Run("Notes change keeps profit", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))

		notes := "held through earnings"
		got, found, err := s.Update(ctx, "a", models.TradePatch{Notes: &notes})
		require.NoError(t, err)
		require.True(t, found)

		assert.Equal(t, notes, got.Notes)
		assert.True(t, got.ProfitLoss.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Unknown id is a no-op", func(t *testing.T) {
		s, st := newTestStore(t)
		require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
		before := stored(t, st)

		notes := "x"
		_, found, err := s.Update(ctx, "missing", models.TradePatch{Notes: &notes})
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, before, stored(t, st))
		assert.Equal(t, int64(1), s.Version())
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing id", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
		require.NoError(t, s.Add(ctx, trade("b", "MSFT", 100, 105, 10)))
		require.NoError(t, s.Add(ctx, trade("c", "TSLA", 100, 105, 10)))

		found, err := s.Delete(ctx, "b")
		require.NoError(t, err)
		assert.True(t, found)

		trades := s.Trades()
		require.Len(t, trades, 2)
		assert.Equal(t, "c", trades[0].ID)
		assert.Equal(t, "a", trades[1].ID)
	})

	t.Run("Unknown id leaves storage untouched", func(t *testing.T) {
		s, st := newTestStore(t)
		require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
		before := stored(t, st)

		found, err := s.Delete(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, before, stored(t, st))
		assert.Equal(t, int64(1), s.Version())
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, st := newTestStore(t)
	require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))

	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Trades())
	assert.Equal(t, `[]`, stored(t, st))
}

func TestStore_Recent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for i := 1; i <= 7; i++ {
		require.NoError(t, s.Add(ctx, trade(fmt.Sprintf("t%d", i), "AAPL", 100, 101, 1)))
	}

	recent := s.Recent(5)
	require.Len(t, recent, 5)
	assert.Equal(t, "t7", recent[0].ID)
	assert.Equal(t, "t3", recent[4].ID)

	assert.Len(t, s.Recent(50), 7)
	assert.Empty(t, s.Recent(-1))
}

func TestStore_TradesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	tr := trade("a", "AAPL", 100, 105, 10)
	tr.Images = []string{"chart.png"}
	require.NoError(t, s.Add(ctx, tr))

	trades := s.Trades()
	trades[0].Symbol = "HACKED"
	trades[0].Images[0] = "other.png"

	got, _ := s.Get("a")
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, []string{"chart.png"}, got.Images)
}

func TestStore_WriteFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("Transient error is retried once", func(t *testing.T) {
		st := new(MockStorage)
		st.On("Get", mock.Anything, DefaultKey).Return(storage.Entry{}, storage.ErrNotFound)
		st.On("Put", mock.Anything, DefaultKey, mock.Anything, int64(0)).Return(int64(0), errors.New("timeout")).Once()
		st.On("Put", mock.Anything, DefaultKey, mock.Anything, int64(0)).Return(int64(1), nil).Once()

		s := New(st, "", &seqIDs{}, zap.NewNop())
		s.retryDelay = 0
		s.Load(ctx)

		require.NoError(t, s.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
		assert.Equal(t, int64(1), s.Version())
		st.AssertNumberOfCalls(t, "Put", 2)
	})

	t.Run("Persistent error keeps the in-memory change", func(t *testing.T) {
		st := new(MockStorage)
		st.On("Get", mock.Anything, DefaultKey).Return(storage.Entry{}, storage.ErrNotFound)
		st.On("Put", mock.Anything, DefaultKey, mock.Anything, int64(0)).Return(int64(0), errors.New("quota exceeded"))

		s := New(st, "", &seqIDs{}, zap.NewNop())
		s.retryDelay = 0
		s.Load(ctx)

		err := s.Add(ctx, trade("a", "AAPL", 100, 105, 10))

		var werr *StorageWriteError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, "add", werr.Op)
		assert.EqualError(t, werr.Err, "quota exceeded")
		assert.Equal(t, 1, s.Len())
		st.AssertNumberOfCalls(t, "Put", 2)
	})

	t.Run("Version conflict is not retried", func(t *testing.T) {
		shared := storage.NewMemoryStorage("shared")
		a := New(shared, "", &seqIDs{}, zap.NewNop())
		b := New(shared, "", &seqIDs{}, zap.NewNop())
		a.Load(ctx)
		b.Load(ctx)

		require.NoError(t, a.Add(ctx, trade("a", "AAPL", 100, 105, 10)))
		err := b.Add(ctx, trade("b", "MSFT", 100, 105, 10))

		assert.ErrorIs(t, err, storage.ErrVersionConflict)
		var werr *StorageWriteError
		assert.ErrorAs(t, err, &werr)

		// After a reload b sees a's trade and can write again
		b.Reload(ctx)
		require.Equal(t, 1, b.Len())
		require.NoError(t, b.Add(ctx, trade("b", "MSFT", 100, 105, 10)))
		assert.Equal(t, 2, b.Len())
	})
}
