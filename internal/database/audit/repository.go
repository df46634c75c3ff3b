// Package audit stores the catalog's audit trail.
package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvents retrieves a page of audit events, most recent first, together
// with the total number of events.
func (r *Repository) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&entities.AuditEvent{}), limit, offset)
}

// GetEventsByType retrieves a page of audit events of one type.
func (r *Repository) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{}).Where("event_type = ?", eventType)
	return r.page(query, limit, offset)
}

func (r *Repository) page(query *gorm.DB, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetEventByID retrieves a single audit event.
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &event, nil
}

// DeleteBefore removes audit events created before cutoff and reports how
// many were removed.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
