// config.go
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

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Record store configuration
	StoreBackend string // sql, redis, memory

	// Database configuration
	DBType               string // sqlite, sqlite3, mysql, postgres, sqlserver
	DBHost               string
	DBPort               string
	DBDatabase           string
	DBAppUser            string
	DBAppPassword        string
	DBAppConnectionLimit int

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Logging
	LogLevel  string
	LogFormat string

	// Payment simulation
	PaymentDelay       time.Duration
	PaymentSuccessRate float64
	DefaultServiceFee  float64
	Currency           string

	// Mock authentication
	AuthDelay time.Duration
}

// Load reads an optional env file, then configuration from environment variables
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("STORE_BACKEND", BackendSQL)
	v.SetDefault("DB_TYPE", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_DATABASE", "canconnect.db")
	v.SetDefault("DB_APP_USER", "")
	v.SetDefault("DB_APP_PASSWORD", "")
	v.SetDefault("DB_APP_CONNECTION_LIMIT", 5)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PAYMENT_DELAY", 2*time.Second)
	v.SetDefault("PAYMENT_SUCCESS_RATE", 0.95)
	v.SetDefault("DEFAULT_SERVICE_FEE", 100.0)
	v.SetDefault("CURRENCY", "PHP")
	v.SetDefault("AUTH_DELAY", 800*time.Millisecond)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		StoreBackend:         strings.ToLower(v.GetString("STORE_BACKEND")),
		DBType:               strings.ToLower(v.GetString("DB_TYPE")),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBDatabase:           v.GetString("DB_DATABASE"),
		DBAppUser:            v.GetString("DB_APP_USER"),
		DBAppPassword:        v.GetString("DB_APP_PASSWORD"),
		DBAppConnectionLimit: v.GetInt("DB_APP_CONNECTION_LIMIT"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
		PaymentDelay:         v.GetDuration("PAYMENT_DELAY"),
		PaymentSuccessRate:   v.GetFloat64("PAYMENT_SUCCESS_RATE"),
		DefaultServiceFee:    v.GetFloat64("DEFAULT_SERVICE_FEE"),
		Currency:             v.GetString("CURRENCY"),
		AuthDelay:            v.GetDuration("AUTH_DELAY"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQL:
		if c.DBDatabase == "" {
			return fmt.Errorf("DB_DATABASE is required")
		}
		if c.IsNetworkDB() && c.DBAppUser == "" {
			return fmt.Errorf("DB_APP_USER is required for DB_TYPE %s", c.DBType)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %s", c.StoreBackend)
	}

	if c.PaymentSuccessRate < 0 || c.PaymentSuccessRate > 1 {
		return fmt.Errorf("PAYMENT_SUCCESS_RATE must be between 0 and 1, got %v", c.PaymentSuccessRate)
	}
	if c.DefaultServiceFee < 0 {
		return fmt.Errorf("DEFAULT_SERVICE_FEE must not be negative")
	}
	if c.DBAppConnectionLimit < 1 {
		c.DBAppConnectionLimit = 1
	}

	return nil
}

// IsNetworkDB reports whether DBType names a server database rather than a file
func (c *Config) IsNetworkDB() bool {
	switch c.DBType {
	case "sqlite", "sqlite3":
		return false
	}
	return true
}
