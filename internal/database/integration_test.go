package database

import (
	"testing"

	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Set POSTGRES_IMAGE (e.g. postgres:17-alpine) to run against a real server
func TestConnect_PostgresContainer(t *testing.T) {
	dc := testutil.StartDatabase(t, "postgres", "POSTGRES_IMAGE")

	db, err := Connect(dc.Config, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))
	require.True(t, db.Migrator().HasTable(&models.StorageEntry{}))
}

// Set MARIADB_IMAGE (e.g. mariadb:11) to run against a real server
func TestConnect_MariaDBContainer(t *testing.T) {
	dc := testutil.StartDatabase(t, "mariadb", "MARIADB_IMAGE")

	db, err := Connect(dc.Config, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))
	require.True(t, db.Migrator().HasTable(&models.StorageEntry{}))
}
