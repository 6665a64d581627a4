// Package dbtest opens the PostgreSQL database used by integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bankdemo/internal/infrastructure/database"
)

const EnvDatabaseURL = "TEST_DATABASE_URL"

// Open migrates the database named by TEST_DATABASE_URL, empties every table
// and returns a pool closed at test cleanup. The test is skipped when the
// variable is not set.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	require.NoError(t, database.RunMigrations("file://"+migrationsDir(), url, zap.NewNop()))

	db, err := database.NewPostgresDB(context.Background(), database.DBConfig{DSN: url})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`TRUNCATE inbox_messages, outbox_messages, transaction_logs, accounts RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}
