package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "DB_TYPE", "DB_HOST", "DB_PORT", "DB_DATABASE",
		"DB_APP_USER", "DB_APP_PASSWORD", "DB_APP_CONNECTION_LIMIT", "REDIS_ADDR",
		"REDIS_PASSWORD", "REDIS_DB", "LOG_LEVEL", "LOG_FORMAT", "PAYMENT_DELAY",
		"PAYMENT_SUCCESS_RATE", "DEFAULT_SERVICE_FEE", "CURRENCY", "AUTH_DELAY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendSQL, cfg.StoreBackend)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "canconnect.db", cfg.DBDatabase)
	assert.Equal(t, 5, cfg.DBAppConnectionLimit)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.InDelta(t, 0.95, cfg.PaymentSuccessRate, 1e-9)
	assert.InDelta(t, 100.0, cfg.DefaultServiceFee, 1e-9)
	assert.Equal(t, "PHP", cfg.Currency)
	assert.Equal(t, 800*time.Millisecond, cfg.AuthDelay)
	assert.False(t, cfg.IsNetworkDB())
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_BACKEND", "REDIS")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("PAYMENT_DELAY", "150ms")
	t.Setenv("PAYMENT_SUCCESS_RATE", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 150*time.Millisecond, cfg.PaymentDelay)
	assert.InDelta(t, 1.0, cfg.PaymentSuccessRate, 1e-9)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORE_BACKEND=memory\nCURRENCY=USD\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	// godotenv never overrides variables that are already set, even to empty
	require.NoError(t, os.Unsetenv("STORE_BACKEND"))
	require.NoError(t, os.Unsetenv("CURRENCY"))
	t.Cleanup(func() {
		os.Unsetenv("STORE_BACKEND")
		os.Unsetenv("CURRENCY")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "USD", cfg.Currency)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "redis without address",
			env:     map[string]string{"STORE_BACKEND": "redis"},
			wantErr: "REDIS_ADDR",
		},
		{
			name:    "network database without user",
			env:     map[string]string{"DB_TYPE": "postgres"},
			wantErr: "DB_APP_USER",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"STORE_BACKEND": "localstorage"},
			wantErr: "STORE_BACKEND",
		},
		{
			name:    "success rate out of range",
			env:     map[string]string{"STORE_BACKEND": "memory", "PAYMENT_SUCCESS_RATE": "1.5"},
			wantErr: "PAYMENT_SUCCESS_RATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
