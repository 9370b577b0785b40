// Package backup periodically writes journal exports to disk.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
)

const filePattern = "trading-journal-export-*.json"

// Exporter produces a snapshot of the journal.
type Exporter interface {
	Export(now time.Time) (journal.Export, error)
}

// Scheduler runs exports on a cron schedule and prunes old files.
type Scheduler struct {
	cron     *cron.Cron
	exporter Exporter
	dir      string
	keep     int
	log      *zap.Logger
	now      func() time.Time
}

// NewScheduler validates the schedule and prepares the backup directory.
// It does not start the cron loop; call Start for that.
func NewScheduler(cfg config.Backup, exporter Exporter, log *zap.Logger) (*Scheduler, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", cfg.Dir, err)
	}

	s := &Scheduler{
		cron:     cron.New(),
		exporter: exporter,
		dir:      cfg.Dir,
		keep:     cfg.Keep,
		log:      log.Named("backup"),
		now:      time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Start begins running backups in the background.
func (s *Scheduler) Start() {
	s.log.Info("Starting backup scheduler", zap.String("dir", s.dir), zap.Int("keep", s.keep))
	s.cron.Start()
}

// Stop halts the schedule and waits for a running backup to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Backup scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	path, err := s.RunOnce()
	if err != nil {
		s.log.Error("Backup failed", zap.Error(err))
		return
	}
	s.log.Info("Backup written", zap.String("path", path))
}

// RunOnce writes one export and prunes the directory. Exports taken on the
// same day replace each other.
func (s *Scheduler) RunOnce() (string, error) {
	exp, err := s.exporter.Export(s.now())
	if err != nil {
		return "", fmt.Errorf("failed to export journal: %w", err)
	}

	path := filepath.Join(s.dir, exp.Filename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, exp.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move backup into place: %w", err)
	}

	if err := s.prune(); err != nil {
		s.log.Warn("Failed to prune old backups", zap.Error(err))
	}
	return path, nil
}

// prune removes all but the newest keep exports. The date in the file name
// sorts lexically, so name order is age order.
func (s *Scheduler) prune() error {
	if s.keep <= 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(s.dir, filePattern))
	if err != nil {
		return err
	}
	if len(files) <= s.keep {
		return nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	for _, f := range files[s.keep:] {
		if err := os.Remove(f); err != nil {
			return err
		}
		s.log.Debug("Removed old backup", zap.String("path", f))
	}
	return nil
}
