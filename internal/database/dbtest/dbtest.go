// Package dbtest opens throwaway catalog databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database"
)

// New returns a migrated sqlite database that is closed and removed when the
// test finishes.
func New(t testing.TB) *database.Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	db, err := database.NewDatabase(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      dbPath,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
