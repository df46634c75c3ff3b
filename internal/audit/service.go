package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

const maxMessageLen = 500

// Service provides high-level audit logging functionality.
// Recording never fails the caller; storage errors are logged and dropped.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) {
	// A cancelled request must still leave its trace.
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.LogEvent(ctx, event); err != nil {
		s.logger.Warn("failed to log audit event",
			zap.String("action", event.Action),
			zap.Error(err),
		)
	}
}

// LogCreate records that a catalog record was created.
func (s *Service) LogCreate(ctx context.Context, entityType string, id uuid.UUID, name string) {
	s.logChange(ctx, entities.AuditEventCreate, entityType, id, "Created "+entityType+": "+name)
}

// LogUpdate records that a catalog record was updated.
func (s *Service) LogUpdate(ctx context.Context, entityType string, id uuid.UUID, name string) {
	s.logChange(ctx, entities.AuditEventUpdate, entityType, id, "Updated "+entityType+": "+name)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(ctx context.Context, entityType string, id uuid.UUID, name string) {
	s.logChange(ctx, entities.AuditEventDelete, entityType, id, "Deleted "+entityType+": "+name)
}

func (s *Service) logChange(ctx context.Context, eventType entities.AuditEventType, entityType string, id uuid.UUID, description string) {
	entityID := id
	s.Log(ctx, &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: truncate(description, maxMessageLen),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogMaintenance records the outcome of a background maintenance job.
func (s *Service) LogMaintenance(ctx context.Context, action, description string, metadata map[string]any, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: truncate(description, maxMessageLen),
		Status:      entities.AuditStatusSuccess,
	}

	if len(metadata) > 0 {
		if mdBytes, e := json.Marshal(metadata); e == nil {
			event.Metadata = string(mdBytes)
		}
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxMessageLen)
	}

	s.Log(ctx, event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(ctx, eventType, limit, offset)
}

// PurgeBefore removes events recorded before cutoff.
func (s *Service) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteBefore(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
