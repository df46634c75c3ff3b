// Package session keeps per-visitor state between requests. The catalog
// only uses it for one-shot flash messages shown after a redirect.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

const flashKey = "flash"

// Options configures the session cookie and lifetime.
type Options struct {
	Lifetime      time.Duration
	SecureCookies bool
	// CleanupInterval controls expired-session sweeping; zero disables it.
	CleanupInterval time.Duration
}

type cleaner interface {
	StopCleanup()
}

// Manager wraps scs.SessionManager with flash helpers.
type Manager struct {
	*scs.SessionManager
	store cleaner
}

// NewSQLiteManager stores sessions in the catalog's sqlite database.
func NewSQLiteManager(sqlDB *sql.DB, opts Options) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	store := sqlite3store.NewWithCleanupInterval(sqlDB, opts.CleanupInterval)
	return newManager(store, store, opts), nil
}

// NewMemoryManager keeps sessions in process memory.
func NewMemoryManager(opts Options) *Manager {
	store := memstore.NewWithCleanupInterval(opts.CleanupInterval)
	return newManager(store, store, opts)
}

func newManager(store scs.Store, c cleaner, opts Options) *Manager {
	sm := scs.New()
	// scs.New starts a default memstore with its own sweeper.
	if d, ok := sm.Store.(cleaner); ok {
		d.StopCleanup()
	}
	sm.Store = store

	lifetime := opts.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime

	sm.Cookie.Name = "library_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = opts.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm, store: c}
}

// SetFlash stores a message for the next page view.
func (m *Manager) SetFlash(ctx context.Context, message string) {
	m.Put(ctx, flashKey, message)
}

// PopFlash returns and clears the pending message.
func (m *Manager) PopFlash(ctx context.Context) string {
	return m.PopString(ctx, flashKey)
}

// Close stops the background cleanup of the store.
func (m *Manager) Close() {
	m.store.StopCleanup()
}
