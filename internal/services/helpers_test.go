package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/store"
)

var fixedNow = time.Date(2026, 5, 17, 8, 30, 0, 123_000_000, time.UTC)

var errReadTimeout = errors.New("i/o timeout")

// flakyBackend is a memory backend whose next reads can be made to fail
type flakyBackend struct {
	*store.MemoryBackend

	mu        sync.Mutex
	failReads int
}

func (b *flakyBackend) failNextReads(n int) {
	b.mu.Lock()
	b.failReads = n
	b.mu.Unlock()
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	fail := b.failReads > 0
	if fail {
		b.failReads--
	}
	b.mu.Unlock()

	if fail {
		return nil, false, errReadTimeout
	}
	return b.MemoryBackend.Get(ctx, key)
}

type fixture struct {
	backend      *flakyBackend
	applications *ApplicationService
	payments     *PaymentService
}

func newFixture(t *testing.T, settings PaymentSettings, opts ...Option) *fixture {
	t.Helper()
	log := logger.NewTestLogger(t)
	backend := &flakyBackend{MemoryBackend: store.NewMemoryBackend()}
	cat := catalog.Default()

	return &fixture{
		backend: backend,
		applications: NewApplicationService(
			store.NewJSONStore[models.ApplicationRecord](backend, store.ApplicationsKey, log), cat, log, opts...),
		payments: NewPaymentService(
			store.NewJSONStore[models.PaymentRecord](backend, store.PaymentsKey, log), cat, log, settings, opts...),
	}
}

// counter returns 0, 1, 2, ... modulo n
func counter() func(n int) int {
	i := 0
	return func(n int) int {
		v := i % n
		i++
		return v
	}
}

func always(v float64) func() float64 {
	return func() float64 { return v }
}

var instant = PaymentSettings{SuccessRate: 0.95, Currency: "PHP"}
