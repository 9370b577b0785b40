package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/storage"
)

type failingExporter struct{}

func (failingExporter) Export(time.Time) (journal.Export, error) {
	return journal.Export{}, errors.New("boom")
}

func newStore(t *testing.T) *journal.Store {
	t.Helper()
	s := journal.New(storage.NewMemoryStorage("test"), "", nil, zap.NewNop())
	s.Load(context.Background())
	return s
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewScheduler(config.Backup{Schedule: "every tuesday", Dir: t.TempDir()}, newStore(t), zap.NewNop())
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	dir := t.TempDir()
	s, err := NewScheduler(config.Backup{Schedule: "@daily", Dir: dir, Keep: 3}, newStore(t), zap.NewNop())
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	path, err := s.RunOnce()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "trading-journal-export-2024-03-15.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// No temp file left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestScheduler_PrunesOldBackups(t *testing.T) {
	dir := t.TempDir()
	s, err := NewScheduler(config.Backup{Schedule: "@daily", Dir: dir, Keep: 2}, newStore(t), zap.NewNop())
	require.NoError(t, err)

	// An unrelated file is never touched
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644))

	for day := 1; day <= 4; day++ {
		d := day
		s.now = func() time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
		_, err := s.RunOnce()
		require.NoError(t, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "trading-journal-export-2024-03-03.json"),
		filepath.Join(dir, "trading-journal-export-2024-03-04.json"),
	}, files)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestScheduler_ExportFailure(t *testing.T) {
	s, err := NewScheduler(config.Backup{Schedule: "@daily", Dir: t.TempDir()}, failingExporter{}, zap.NewNop())
	require.NoError(t, err)

	_, err = s.RunOnce()
	assert.ErrorContains(t, err, "boom")
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(config.Backup{Schedule: "@hourly", Dir: t.TempDir()}, newStore(t), zap.NewNop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
