// application.go
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

package models

import (
	"maps"
	"time"
)

// ApplicationID is the human-readable reference of an application, e.g. "BC-2026-1234567"
type ApplicationID string

// Status is the lifecycle status of an application
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// Statuses lists every valid application status
var Statuses = []Status{StatusPending, StatusProcessing, StatusApproved, StatusRejected}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Step is one entry of an application's progress checklist
type Step struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// ApplicationRecord is a citizen's request for a government service
type ApplicationRecord struct {
	ID            ApplicationID          `json:"id"`
	Type          string                 `json:"type"`
	Status        Status                 `json:"status"`
	Date          string                 `json:"date"`
	Steps         []Step                 `json:"steps"`
	FormData      map[string]interface{} `json:"formData"`
	SubmittedAt   time.Time              `json:"submittedAt"`
	PaymentStatus PaymentStatus          `json:"paymentStatus,omitempty"`
	TransactionID TransactionID          `json:"transactionId,omitempty"`
	PaymentAmount *float64               `json:"paymentAmount,omitempty"`
}

// ApplicationUpdate is a partial update; nil fields are left unchanged.
// The id of a record can never be changed through an update.
type ApplicationUpdate struct {
	Status        *Status                `json:"status,omitempty"`
	Steps         []Step                 `json:"steps,omitempty"`
	FormData      map[string]interface{} `json:"formData,omitempty"`
	PaymentStatus *PaymentStatus         `json:"paymentStatus,omitempty"`
	TransactionID *TransactionID         `json:"transactionId,omitempty"`
	PaymentAmount *float64               `json:"paymentAmount,omitempty"`
}

// Apply merges the non-nil fields of u into rec
func (u ApplicationUpdate) Apply(rec *ApplicationRecord) {
	if u.Status != nil {
		rec.Status = *u.Status
	}
	if u.Steps != nil {
		rec.Steps = cloneSteps(u.Steps)
	}
	if u.FormData != nil {
		rec.FormData = maps.Clone(u.FormData)
	}
	if u.PaymentStatus != nil {
		rec.PaymentStatus = *u.PaymentStatus
	}
	if u.TransactionID != nil {
		rec.TransactionID = *u.TransactionID
	}
	if u.PaymentAmount != nil {
		amount := *u.PaymentAmount
		rec.PaymentAmount = &amount
	}
}

// ApplicationStats summarizes the application collection by status
type ApplicationStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
