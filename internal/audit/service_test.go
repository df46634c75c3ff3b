package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	auditRepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/dbtest"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db := dbtest.New(t)
	return NewService(auditRepo.NewRepository(db.DB), zap.NewNop()), db.DB
}

func TestService_LogChanges(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	id := uuid.New()

	svc.LogCreate(ctx, "author", id, "Asimov, Isaac")
	svc.LogUpdate(ctx, "author", id, "Asimov, Isaac")
	svc.LogDelete(ctx, "author", id, "Asimov, Isaac")

	var events []entities.AuditEvent
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	require.Len(t, events, 3)

	assert.Equal(t, "author_create", events[0].Action)
	assert.Equal(t, "Created author: Asimov, Isaac", events[0].Description)
	assert.Equal(t, entities.AuditEventUpdate, events[1].EventType)
	assert.Equal(t, "author_delete", events[2].Action)
	require.NotNil(t, events[2].EntityID)
	assert.Equal(t, id, *events[2].EntityID)
}

func TestService_LogMaintenance(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("success with metadata", func(t *testing.T) {
		svc.LogMaintenance(ctx, "overdue_report", "3 overdue copies", map[string]any{"overdue": 3}, nil)

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "overdue_report").First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Contains(t, event.Metadata, "overdue")
	})

	t.Run("failure keeps error message", func(t *testing.T) {
		svc.LogMaintenance(ctx, "audit_cleanup", "cleanup failed", nil, errors.New("disk full"))

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "audit_cleanup").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Equal(t, "disk full", event.ErrorMsg)
		assert.Empty(t, event.Metadata)
	})
}

func TestService_Log_StorageErrorIsLogged(t *testing.T) {
	db := dbtest.New(t)
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(auditRepo.NewRepository(db.DB), zap.New(core))

	require.NoError(t, db.Close())
	svc.LogCreate(context.Background(), "genre", uuid.New(), "Poetry")

	assert.Equal(t, 1, logs.FilterMessage("failed to log audit event").Len())
}

func TestService_PurgeBefore(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, db.Create(&entities.AuditEvent{EventType: entities.AuditEventCreate, Action: "old", Status: entities.AuditStatusSuccess, CreatedAt: time.Now().Add(-48 * time.Hour)}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{EventType: entities.AuditEventDelete, Action: "new", Status: entities.AuditStatusSuccess, CreatedAt: time.Now()}).Error)

	deleted, err := svc.PurgeBefore(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.GetEvents(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
