package models

import "time"

// StorageEntry is one named value in the key/value store backing the journal.
// Version increases by one on every write and guards against lost updates.
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	Version   int64     `gorm:"not null"`
	Writer    string    `gorm:"size:64"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for StorageEntry.
func (StorageEntry) TableName() string {
	return "storage_entries"
}
