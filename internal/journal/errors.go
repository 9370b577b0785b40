package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTrade is returned by Add when a trade with the same id exists.
	ErrDuplicateTrade = errors.New("trade already exists")

	// ErrImportFormat is returned by Import when the payload is not a JSON
	// array of trade objects.
	ErrImportFormat = errors.New("invalid file format: expected an array of trades")
)

// StorageWriteError reports that a mutation was applied in memory but could
// not be persisted. Err is the last storage error, possibly
// storage.ErrVersionConflict.
type StorageWriteError struct {
	Op  string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to persist trades after %s: %v", e.Op, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}
