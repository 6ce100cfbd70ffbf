// store.go
//
// CanConnect e-government portal service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of canconnect.
// canconnect is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// canconnect is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with canconnect.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/metrics"
)

// Storage keys
const (
	ApplicationsKey = "canconnect_applications"
	PaymentsKey     = "payments"
)

// Backend is a key-value store of raw JSON blobs
type Backend interface {
	// Get returns the stored value; ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the stored value.
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

// RecordStore persists a whole collection of records under one key
type RecordStore[T any] interface {
	// Load never fails: a missing, unreadable or malformed collection loads as empty.
	Load(ctx context.Context) []T
	// LoadForUpdate is Load for read-modify-write cycles. A missing or malformed
	// collection still loads as empty, but a backend read error is returned so
	// the caller does not overwrite records it could not see.
	LoadForUpdate(ctx context.Context) ([]T, error)
	// Save overwrites the whole collection.
	Save(ctx context.Context, items []T) error
}

// JSONStore is a RecordStore that keeps the collection as a JSON array
type JSONStore[T any] struct {
	backend Backend
	key     string
	log     logger.Logger
}

// NewJSONStore creates a JSON array store for key on the given backend
func NewJSONStore[T any](backend Backend, key string, log logger.Logger) *JSONStore[T] {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &JSONStore[T]{
		backend: backend,
		key:     key,
		log:     log.WithFields(map[string]interface{}{"storeKey": key}),
	}
}

// Key returns the storage key of the collection
func (s *JSONStore[T]) Key() string {
	return s.key
}

// Load reads the collection
func (s *JSONStore[T]) Load(ctx context.Context) []T {
	items, err := s.read(ctx)
	if err != nil {
		s.log.WithError(err).Warn("record store read failed, using empty collection", nil)
		return []T{}
	}
	return items
}

// LoadForUpdate reads the collection, returning backend errors
func (s *JSONStore[T]) LoadForUpdate(ctx context.Context) ([]T, error) {
	items, err := s.read(ctx)
	if err != nil {
		s.log.WithError(err).Error("record store read failed, refusing to write", nil)
		return nil, err
	}
	return items, nil
}

func (s *JSONStore[T]) read(ctx context.Context) ([]T, error) {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		metrics.StoreLoadFailures.WithLabelValues(s.key, "backend").Inc()
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.WithError(err).Warn("record store holds malformed JSON, using empty collection", map[string]interface{}{
			"bytes": len(raw),
		})
		metrics.StoreLoadFailures.WithLabelValues(s.key, "decode").Inc()
		return []T{}, nil
	}
	if items == nil {
		return []T{}, nil
	}

	return items, nil
}

// Save writes the collection
func (s *JSONStore[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}

	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.key, err)
	}

	return nil
}
