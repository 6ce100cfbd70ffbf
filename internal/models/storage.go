package models

import (
	"time"
)

// StorageEntry is one key of the record store persisted as a JSON blob
type StorageEntry struct {
	StorageKey   string `gorm:"primaryKey;size:191"`
	StorageValue JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name for StorageEntry
func (StorageEntry) TableName() string {
	return "storage_entries"
}
