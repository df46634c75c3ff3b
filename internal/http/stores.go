package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/library/internal/entities"
)

// This file consolidates the store interfaces used by the controllers.
// The database repositories satisfy them; see internal/interfaces.

type AuthorStore interface {
	List(ctx context.Context) ([]entities.Author, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Author, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, author *entities.Author) error
	Update(ctx context.Context, author *entities.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type GenreStore interface {
	List(ctx context.Context) ([]entities.Genre, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Genre, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Genre, error)
	CreateOrGet(ctx context.Context, genre *entities.Genre) (*entities.Genre, bool, error)
	Update(ctx context.Context, genre *entities.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type BookStore interface {
	List(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Book, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]entities.Book, error)
	ListByGenre(ctx context.Context, genreID uuid.UUID) ([]entities.Book, error)
	Create(ctx context.Context, book *entities.Book) error
	Update(ctx context.Context, book *entities.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type BookInstanceStore interface {
	List(ctx context.Context) ([]entities.BookInstance, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.BookInstance, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]entities.BookInstance, error)
	Create(ctx context.Context, instance *entities.BookInstance) error
	Update(ctx context.Context, instance *entities.BookInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status entities.BookInstanceStatus) (int64, error)
}

// AuditLog records catalog changes and lists them back.
type AuditLog interface {
	LogCreate(ctx context.Context, entityType string, id uuid.UUID, name string)
	LogUpdate(ctx context.Context, entityType string, id uuid.UUID, name string)
	LogDelete(ctx context.Context, entityType string, id uuid.UUID, name string)
	GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// SessionStore is the part of the session manager the pages need.
type SessionStore interface {
	LoadAndSave() gin.HandlerFunc
	SetFlash(ctx context.Context, message string)
	PopFlash(ctx context.Context) string
}

// HealthChecker reports database reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// nopAudit is used when the router is built without an audit log.
type nopAudit struct{}

func (nopAudit) LogCreate(context.Context, string, uuid.UUID, string) {}
func (nopAudit) LogUpdate(context.Context, string, uuid.UUID, string) {}
func (nopAudit) LogDelete(context.Context, string, uuid.UUID, string) {}

func (nopAudit) GetEvents(context.Context, int, int) ([]entities.AuditEvent, int64, error) {
	return nil, 0, nil
}

func (nopAudit) GetEventsByType(context.Context, entities.AuditEventType, int, int) ([]entities.AuditEvent, int64, error) {
	return nil, 0, nil
}
