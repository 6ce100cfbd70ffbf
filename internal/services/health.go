package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/store"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Store        string            `json:"store"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck pings the record store backend
func HealthCheck(ctx context.Context, cfg *config.Config, backend store.Backend, log logger.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
	defer cancel()

	if err := backend.Ping(pingCtx); err != nil {
		result.Status = "unhealthy"
		result.Store = "unreachable"
		result.Details["store_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Store ping failed: %v", err)
		log.WithError(err).Error("health check failed - store ping", nil)
		return result
	}

	result.Store = "ok"
	result.Details["store_backend"] = cfg.StoreBackend
	switch cfg.StoreBackend {
	case config.BackendSQL:
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	case config.BackendRedis:
		result.Details["redis_addr"] = cfg.RedisAddr
	}

	log.Debug("health check passed", nil)
	return result
}
