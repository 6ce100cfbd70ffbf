// application_service.go
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

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/metrics"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/store"
)

// ApplicationService manages application records
type ApplicationService struct {
	store   store.RecordStore[models.ApplicationRecord]
	catalog *catalog.Catalog
	log     logger.Logger

	// serializes load-modify-save cycles
	mu sync.Mutex

	now      func() time.Time
	randIntN func(n int) int
}

// Option configures the clock and randomness of a service
type Option func(*options)

type options struct {
	now       func() time.Time
	randIntN  func(n int) int
	randFloat func() float64
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRandom replaces the random sources
func WithRandom(intN func(n int) int, float func() float64) Option {
	return func(o *options) {
		if intN != nil {
			o.randIntN = intN
		}
		if float != nil {
			o.randFloat = float
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		randIntN:  rand.IntN,
		randFloat: rand.Float64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewApplicationService creates the application lifecycle manager
func NewApplicationService(rs store.RecordStore[models.ApplicationRecord], cat *catalog.Catalog, log logger.Logger, opts ...Option) *ApplicationService {
	o := buildOptions(opts)
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &ApplicationService{
		store:    rs,
		catalog:  cat,
		log:      log,
		now:      o.now,
		randIntN: o.randIntN,
	}
}

// GenerateApplicationID returns an id of the form <TYPECODE>-<YEAR>-<5 digits of epoch ms><2 random digits>.
// Uniqueness is not checked.
func (s *ApplicationService) GenerateApplicationID(serviceType string) models.ApplicationID {
	now := s.now().UTC()
	return models.ApplicationID(fmt.Sprintf("%s-%04d-%05d%02d",
		s.catalog.TypeCode(serviceType),
		now.Year(),
		now.UnixMilli()%100000,
		s.randIntN(100),
	))
}

// InitialSteps returns the tracking milestones of a new application.
// Every service type currently shares the same four milestones.
func (s *ApplicationService) InitialSteps(_ string) []models.Step {
	return []models.Step{
		{Label: "Submitted", Completed: true},
		{Label: "Under Review", Completed: false},
		{Label: "Processing", Completed: false},
		{Label: "Ready for Pickup", Completed: false},
	}
}

// AddApplication creates, persists and returns a new pending application
func (s *ApplicationService) AddApplication(ctx context.Context, serviceType string, formData map[string]interface{}) (models.ApplicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applications, err := s.store.LoadForUpdate(ctx)
	if err != nil {
		return models.ApplicationRecord{}, err
	}
	fields, err := normalizeFormData(formData)
	if err != nil {
		return models.ApplicationRecord{}, err
	}

	now := s.now().UTC()
	record := models.ApplicationRecord{
		ID:          s.GenerateApplicationID(serviceType),
		Type:        serviceType,
		Status:      models.StatusPending,
		Date:        now.Format(time.DateOnly),
		Steps:       s.InitialSteps(serviceType),
		FormData:    fields,
		SubmittedAt: now,
	}

	applications = append(applications, record)
	if err := s.store.Save(ctx, applications); err != nil {
		return models.ApplicationRecord{}, err
	}

	metrics.ApplicationsSubmitted.WithLabelValues(serviceType).Inc()
	s.log.Info("application submitted", map[string]interface{}{
		"id":   record.ID,
		"type": record.Type,
	})

	return record, nil
}

// AllApplications returns every stored application
func (s *ApplicationService) AllApplications(ctx context.Context) []models.ApplicationRecord {
	return s.store.Load(ctx)
}

// GetApplicationByID finds an application by exact id
func (s *ApplicationService) GetApplicationByID(ctx context.Context, id models.ApplicationID) (models.ApplicationRecord, bool) {
	for _, app := range s.store.Load(ctx) {
		if app.ID == id {
			return app, true
		}
	}
	return models.ApplicationRecord{}, false
}

// GetApplication is GetApplicationByID
func (s *ApplicationService) GetApplication(ctx context.Context, id models.ApplicationID) (models.ApplicationRecord, bool) {
	return s.GetApplicationByID(ctx, id)
}

// SearchApplications returns applications whose id or type contains query, ignoring case.
// An empty query matches everything.
func (s *ApplicationService) SearchApplications(ctx context.Context, query string) []models.ApplicationRecord {
	q := strings.ToLower(query)
	matches := []models.ApplicationRecord{}
	for _, app := range s.store.Load(ctx) {
		if strings.Contains(strings.ToLower(string(app.ID)), q) ||
			strings.Contains(strings.ToLower(app.Type), q) {
			matches = append(matches, app)
		}
	}
	return matches
}

// UpdateApplicationStatus sets the status and, when steps is non-nil, replaces the steps.
// ok is false when no application has the id.
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, id models.ApplicationID, status models.Status, steps []models.Step) (models.ApplicationRecord, bool, error) {
	rec, ok, err := s.modify(ctx, id, models.ApplicationUpdate{Status: &status, Steps: steps})
	if ok && err == nil {
		metrics.ApplicationStatusChanges.WithLabelValues(string(status)).Inc()
	}
	return rec, ok, err
}

// UpdateApplication merges a partial update into the application.
// ok is false when no application has the id.
func (s *ApplicationService) UpdateApplication(ctx context.Context, id models.ApplicationID, update models.ApplicationUpdate) (models.ApplicationRecord, bool, error) {
	return s.modify(ctx, id, update)
}

func (s *ApplicationService) modify(ctx context.Context, id models.ApplicationID, update models.ApplicationUpdate) (models.ApplicationRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.FormData != nil {
		fields, err := normalizeFormData(update.FormData)
		if err != nil {
			return models.ApplicationRecord{}, false, err
		}
		update.FormData = fields
	}

	applications, err := s.store.LoadForUpdate(ctx)
	if err != nil {
		return models.ApplicationRecord{}, false, err
	}
	for i := range applications {
		if applications[i].ID != id {
			continue
		}

		update.Apply(&applications[i])
		if err := s.store.Save(ctx, applications); err != nil {
			return models.ApplicationRecord{}, true, err
		}

		s.log.Debug("application updated", map[string]interface{}{
			"id":     id,
			"status": applications[i].Status,
		})
		return applications[i], true, nil
	}

	return models.ApplicationRecord{}, false, nil
}

// DeleteApplication removes the application, reporting whether one was removed
func (s *ApplicationService) DeleteApplication(ctx context.Context, id models.ApplicationID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applications, err := s.store.LoadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]models.ApplicationRecord, 0, len(applications))
	for _, app := range applications {
		if app.ID != id {
			kept = append(kept, app)
		}
	}

	if len(kept) == len(applications) {
		return false, nil
	}
	if err := s.store.Save(ctx, kept); err != nil {
		return false, err
	}

	s.log.Info("application deleted", map[string]interface{}{"id": id})
	return true, nil
}

// ApplicationStats counts applications by status
func (s *ApplicationService) ApplicationStats(ctx context.Context) models.ApplicationStats {
	var stats models.ApplicationStats
	for _, app := range s.store.Load(ctx) {
		stats.Total++
		switch app.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// normalizeFormData copies formData into the shape it has after a store
// round trip, so numbers come back as float64 the way a later read sees them
func normalizeFormData(formData map[string]interface{}) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if len(formData) == 0 {
		return out, nil
	}

	raw, err := json.Marshal(formData)
	if err != nil {
		return nil, fmt.Errorf("form data is not JSON encodable: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("form data is not JSON encodable: %w", err)
	}
	return out, nil
}
