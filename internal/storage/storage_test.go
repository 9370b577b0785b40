package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
)

// backends returns a fresh instance of every backend available in this environment.
func backends(t *testing.T) map[string]func(writer string) Storage {
	t.Helper()

	dir := t.TempDir()
	db, err := database.NewDatabase(filepath.Join(dir, "storage.db"))
	require.NoError(t, err)

	out := map[string]func(string) Storage{
		"memory": func(writer string) Storage { return NewMemoryStorage(writer) },
		"sqlite": func(writer string) Storage { return NewSQLStorage(db, writer) },
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		out["redis"] = func(writer string) Storage {
			s, err := NewRedisStorage(context.Background(), &redis.Options{Addr: addr}, writer)
			require.NoError(t, err)
			return s
		}
	}
	return out
}

func TestStorage_GetMissing(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage("w1")
			_, err := s.Get(context.Background(), t.Name()+"-missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorage_PutAndGet(t *testing.T) {
	ctx := context.Background()

	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage("w1")
			key := t.Name() + "-" + uuid.NewString()

			v1, err := s.Put(ctx, key, []byte(`[]`), 0)
			require.NoError(t, err)
			assert.Equal(t, int64(1), v1)

			v2, err := s.Put(ctx, key, []byte(`[{"id":"a"}]`), v1)
			require.NoError(t, err)
			assert.Equal(t, int64(2), v2)

			entry, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, string(entry.Value))
			assert.Equal(t, int64(2), entry.Version)
			assert.Equal(t, "w1", entry.Writer)
			assert.False(t, entry.UpdatedAt.IsZero())
		})
	}
}

func TestStorage_VersionConflict(t *testing.T) {
	ctx := context.Background()

	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage("w1")
			key := t.Name() + "-" + uuid.NewString()

			_, err := s.Put(ctx, key, []byte(`[]`), 0)
			require.NoError(t, err)

			// Creating again must not clobber the existing entry
			_, err = s.Put(ctx, key, []byte(`["other"]`), 0)
			assert.ErrorIs(t, err, ErrVersionConflict)

			// A stale version is refused
			_, err = s.Put(ctx, key, []byte(`["stale"]`), 5)
			assert.ErrorIs(t, err, ErrVersionConflict)

			entry, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(entry.Value))
			assert.Equal(t, int64(1), entry.Version)
		})
	}
}

func TestSQLStorage_SharedDatabaseSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "shared.db"))
	require.NoError(t, err)

	a := NewSQLStorage(db, "tab-a")
	b := NewSQLStorage(db, "tab-b")

	_, err = a.Put(ctx, "trades", []byte(`[]`), 0)
	require.NoError(t, err)

	entry, err := b.Get(ctx, "trades")
	require.NoError(t, err)
	_, err = b.Put(ctx, "trades", []byte(`[1]`), entry.Version)
	require.NoError(t, err)

	// a still believes version 1 is current
	_, err = a.Put(ctx, "trades", []byte(`[2]`), 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	entry, err = a.Get(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, "tab-b", entry.Writer)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		s, err := Open(ctx, config.Storage{Backend: "memory"}, "w")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("Sqlite", func(t *testing.T) {
		s, err := Open(ctx, config.Storage{Backend: "sqlite", DSN: filepath.Join(t.TempDir(), "j.db")}, "w")
		require.NoError(t, err)
		assert.IsType(t, &SQLStorage{}, s)
		assert.NoError(t, s.Close())
	})

	t.Run("Unknown backend", func(t *testing.T) {
		_, err := Open(ctx, config.Storage{Backend: "floppy"}, "w")
		assert.Error(t, err)
	})
}
