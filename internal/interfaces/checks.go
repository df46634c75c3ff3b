// Package interfaces holds compile-time checks that the concrete types
// satisfy the interfaces their consumers declare.
package interfaces

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/bookinstances"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/genres"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/seed"
	"github.com/mrlokans/library/internal/session"
	"github.com/mrlokans/library/internal/tasks"
)

// Catalog repositories
var (
	_ http.AuthorStore       = (*authors.Repository)(nil)
	_ http.GenreStore        = (*genres.Repository)(nil)
	_ http.BookStore         = (*books.Repository)(nil)
	_ http.BookInstanceStore = (*bookinstances.Repository)(nil)
	_ http.HealthChecker     = (*database.Database)(nil)
)

var (
	_ seed.AuthorCreator       = (*authors.Repository)(nil)
	_ seed.GenreCreator        = (*genres.Repository)(nil)
	_ seed.BookCreator         = (*books.Repository)(nil)
	_ seed.BookInstanceCreator = (*bookinstances.Repository)(nil)
)

// Audit trail
var (
	_ http.AuditLog                 = (*audit.Service)(nil)
	_ tasks.AuditTrailPurger        = (*audit.Service)(nil)
	_ tasks.MaintenanceRecorder     = (*audit.Service)(nil)
	_ tasks.ReportArchive           = (*audit.Archive)(nil)
	_ scheduler.MaintenanceRecorder = (*audit.Service)(nil)
)

// Background work
var (
	_ tasks.OverdueLoanFinder = (*bookinstances.Repository)(nil)
	_ scheduler.TaskEnqueuer  = (*tasks.Client)(nil)
	_ http.HealthChecker      = (*tasks.Client)(nil)
)

var _ http.SessionStore = (*session.Manager)(nil)
