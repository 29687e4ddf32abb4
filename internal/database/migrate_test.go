//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/chamada/internal/database"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "chamada_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/chamada_test?sslmode=disable", host, port.Port())
}

// TestMigratorIntegration tests the migration functionality
func TestMigratorIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dsn := startPostgres(t)

	db, err := database.OpenSQL(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("Up runs migrations successfully", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, "chamada_test")
		require.NoError(t, err)

		require.NoError(t, migrator.Up())

		assertTableExists(t, db, "enrolled_faces")
		assertTableExists(t, db, "attendance_log")
	})

	t.Run("Up is idempotent", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, "chamada_test")
		require.NoError(t, err)

		assert.NoError(t, migrator.Up())
	})

	t.Run("Version returns current version", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, "chamada_test")
		require.NoError(t, err)

		status, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, status.Dirty, "migration should not be dirty")
		assert.Equal(t, uint(2), status.Version)
		assert.Equal(t, "2", status.String())
	})

	t.Run("tables have expected columns", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]string{"signature_key", "name", "embedding", "created_at"},
			getTableColumns(t, db, "enrolled_faces"))
		assert.ElementsMatch(t,
			[]string{"id", "name", "signature_key", "marked_at"},
			getTableColumns(t, db, "attendance_log"))
	})

	t.Run("Down rolls back one step", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, "chamada_test")
		require.NoError(t, err)

		require.NoError(t, migrator.Down())

		status, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), status.Version)

		require.NoError(t, migrator.Up())
	})

	t.Run("MigrateUp reports latest version", func(t *testing.T) {
		status, err := database.MigrateUp(ctx, dsn, "chamada_test")
		require.NoError(t, err)
		assert.Equal(t, database.Status{Version: 2}, status)
	})

	t.Run("pool pings", func(t *testing.T) {
		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(dsn))
		require.NoError(t, err)
		defer pool.Close()

		assert.NoError(t, pool.Ping(ctx))
	})
}

func assertTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)

	require.NoError(t, err)
	assert.True(t, exists, "table %s should exist", tableName)
}

func getTableColumns(t *testing.T, db *sql.DB, tableName string) []string {
	t.Helper()

	rows, err := db.Query(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
		AND table_name = $1
		ORDER BY ordinal_position
	`, tableName)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var col string
		require.NoError(t, rows.Scan(&col))
		columns = append(columns, col)
	}

	return columns
}
