package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/canconnect/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

const queryComment = "canconnect:record-store"

// GormBackend stores blobs as rows of the storage_entries table
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend creates a backend over a migrated database
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) session(ctx context.Context) *gorm.DB {
	return b.db.Session(&gorm.Session{Logger: b.db.Logger.LogMode(logger.Silent)}).WithContext(ctx)
}

// Get reads one storage entry
func (b *GormBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.StorageEntry
	err := b.session(ctx).
		Clauses(hints.CommentBefore("select", queryComment)).
		Where("storage_key = ?", key).
		Take(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read storage entry %s: %w", key, err)
	}

	return entry.StorageValue.Bytes(), true, nil
}

// Set inserts or overwrites one storage entry
func (b *GormBackend) Set(ctx context.Context, key string, value []byte) error {
	entry := models.StorageEntry{
		StorageKey:   key,
		StorageValue: models.NewJSON(value),
	}

	err := b.session(ctx).
		Clauses(
			hints.CommentBefore("insert", queryComment),
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "storage_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"storage_value", "updated_at"}),
			},
		).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write storage entry %s: %w", key, err)
	}

	return nil
}

// Ping checks the database connection
func (b *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
