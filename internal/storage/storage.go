// Package storage provides versioned key/value persistence for the journal.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates that no entry exists under the requested key.
	ErrNotFound = errors.New("storage entry not found")

	// ErrVersionConflict indicates that the entry was written by someone else
	// since it was last read, so a compare-and-set write was refused.
	ErrVersionConflict = errors.New("storage entry version conflict")
)

// Entry is a stored value together with its write version.
type Entry struct {
	Key       string
	Value     []byte
	Version   int64
	Writer    string
	UpdatedAt time.Time
}

// Storage defines the interface for versioned key/value persistence.
type Storage interface {
	// Get returns the entry stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (Entry, error)

	// Put writes value under key if the stored version equals expectedVersion
	// (0 means the key must not exist yet) and returns the new version.
	// Returns ErrVersionConflict otherwise.
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)

	// Close releases the underlying resources.
	Close() error
}
