package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps entries in process memory.
type MemoryStorage struct {
	mu      sync.Mutex
	writer  string
	entries map[string]Entry
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage(writer string) *MemoryStorage {
	return &MemoryStorage{writer: writer, entries: make(map[string]Entry)}
}

func (s *MemoryStorage) Get(_ context.Context, key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e.Value = append([]byte(nil), e.Value...)
	return e, nil
}

func (s *MemoryStorage) Put(_ context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.entries[key].Version
	if current != expectedVersion {
		return current, ErrVersionConflict
	}

	next := current + 1
	s.entries[key] = Entry{
		Key:       key,
		Value:     append([]byte(nil), value...),
		Version:   next,
		Writer:    s.writer,
		UpdatedAt: time.Now().UTC(),
	}
	return next, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
