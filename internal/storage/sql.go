package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// SQLStorage keeps entries in the storage_entries table through gorm.
type SQLStorage struct {
	db     *gorm.DB
	writer string
}

var _ Storage = (*SQLStorage)(nil)

// NewSQLStorage creates a SQLStorage on an already migrated database.
func NewSQLStorage(db *gorm.DB, writer string) *SQLStorage {
	return &SQLStorage{db: db, writer: writer}
}

func (s *SQLStorage) Get(ctx context.Context, key string) (Entry, error) {
	var row models.StorageEntry
	err := s.db.WithContext(ctx).Where(&models.StorageEntry{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read storage entry %q: %w", key, err)
	}
	return Entry{
		Key:       row.Key,
		Value:     []byte(row.Value),
		Version:   row.Version,
		Writer:    row.Writer,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *SQLStorage) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	next := expectedVersion + 1
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if expectedVersion == 0 {
			row := models.StorageEntry{Key: key, Value: string(value), Version: next, Writer: s.writer, UpdatedAt: now}
			err := tx.Create(&row).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrVersionConflict
			}
			return err
		}

		result := tx.Model(&models.StorageEntry{}).
			Where(&models.StorageEntry{Key: key}).
			Where("version = ?", expectedVersion).
			Updates(map[string]interface{}{
				"value":      string(value),
				"version":    next,
				"writer":     s.writer,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to write storage entry %q: %w", key, err)
	}
	return next, nil
}

// Close closes the underlying database connection.
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
