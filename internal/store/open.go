package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/database"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ErrUnknownBackend is returned for an unsupported STORE_BACKEND
var ErrUnknownBackend = errors.New("unknown store backend")

// Opened is a connected backend plus its release function
type Opened struct {
	Backend Backend
	Name    string
	Close   func() error
}

// Open connects the backend selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Opened, error) {
	switch cfg.StoreBackend {
	case config.BackendSQL:
		db, err := database.Connect(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &Opened{
			Backend: NewGormBackend(db),
			Name:    cfg.DBType,
			Close:   func() error { return database.Close(db) },
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Info("connected to redis", map[string]interface{}{"addr": cfg.RedisAddr, "db": cfg.RedisDB})
		return &Opened{
			Backend: NewRedisBackend(client),
			Name:    "redis",
			Close:   client.Close,
		}, nil

	case config.BackendMemory:
		log.Warn("using in-memory record store, data is lost on exit", nil)
		return &Opened{
			Backend: NewMemoryBackend(),
			Name:    "memory",
			Close:   func() error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.StoreBackend)
}
