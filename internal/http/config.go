package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Catalog  Catalog
	Audit    AuditLog
	Logger   *zap.Logger

	// TaskQueue is probed by /health when background tasks are enabled.
	TaskQueue HealthChecker

	// Sessions carry flash messages between a redirect and the next page.
	// Nil disables flash messages.
	Sessions SessionStore

	// UI paths. Empty means the embedded templates and assets.
	TemplatesPath string
	StaticPath    string

	// Security
	CSRFSecret     []byte
	SecureCookies  bool
	ReadOnly       bool
	RequestTimeout time.Duration

	// Application info
	Version string
}

// Catalog groups the repositories behind the catalog pages.
type Catalog struct {
	Authors   AuthorStore
	Genres    GenreStore
	Books     BookStore
	Instances BookInstanceStore
}
