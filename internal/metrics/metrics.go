package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every domain metric
const Namespace = "canconnect"

var (
	// ApplicationsSubmitted counts new applications by service type
	ApplicationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "applications_submitted_total",
		Help:      "Number of applications submitted, by service type.",
	}, []string{"service"})

	// ApplicationStatusChanges counts status transitions by target status
	ApplicationStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "application_status_changes_total",
		Help:      "Number of application status updates, by new status.",
	}, []string{"status"})

	// PaymentAttempts counts simulated payment attempts by outcome (completed, declined, cancelled)
	PaymentAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "payment_attempts_total",
		Help:      "Number of payment attempts, by outcome.",
	}, []string{"outcome"})

	// StoreLoadFailures counts record store reads that degraded to an empty list
	StoreLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "store_load_failures_total",
		Help:      "Number of record store loads that failed soft, by key and reason.",
	}, []string{"key", "reason"})
)
