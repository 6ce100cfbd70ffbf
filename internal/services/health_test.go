package services

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/store"
	"github.com/stretchr/testify/assert"
)

type downBackend struct{ store.MemoryBackend }

func (*downBackend) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestHealthCheck(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendSQL, DBType: "sqlite", DBDatabase: "canconnect.db"}

	result := HealthCheck(context.Background(), cfg, store.NewMemoryBackend(), logger.NewTestLogger(t))
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Store)
	assert.Equal(t, "sqlite", result.Details["database_type"])

	result = HealthCheck(context.Background(), cfg, &downBackend{}, logger.NewTestLogger(t))
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Store)
	assert.Contains(t, result.ErrorMessage, "connection refused")
}
