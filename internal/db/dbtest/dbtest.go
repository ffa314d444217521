// Package dbtest opens migrated SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/ezdocs-api/internal/db"
)

// New returns a pool over a fresh, fully migrated database in t.TempDir().
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.RunMigrations(path))

	conn, err := db.NewSQLiteDB(path, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
