package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// DefaultAuditRetentionDays applies when a purge task carries no retention.
const DefaultAuditRetentionDays = 30

// AuditTrailPurger drops audit events recorded before a cutoff.
type AuditTrailPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeAuditTrailTask trims the audit trail to the last RetentionDays days.
type PurgeAuditTrailTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t PurgeAuditTrailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_audit_trail",
		MaxAttempts: 3,
		Backoff:     10 * time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration: 7 * 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t PurgeAuditTrailTask) cutoff(now time.Time) (time.Time, int) {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return now.AddDate(0, 0, -days), days
}

// PurgeAuditTrailProcessor removes expired audit events and leaves a
// maintenance entry saying how many went, so the purge itself stays on
// record.
func PurgeAuditTrailProcessor(purger AuditTrailPurger, recorder MaintenanceRecorder, logger *zap.Logger) backlite.QueueProcessor[PurgeAuditTrailTask] {
	return func(ctx context.Context, task PurgeAuditTrailTask) error {
		if purger == nil {
			return fmt.Errorf("audit trail purger not configured")
		}

		cutoff, days := task.cutoff(time.Now().UTC())
		metadata := map[string]any{
			"retention_days": days,
			"cutoff":         cutoff.Format(time.RFC3339),
		}

		purged, err := purger.PurgeBefore(ctx, cutoff)
		if err != nil {
			if recorder != nil {
				recorder.LogMaintenance(ctx, "audit_purge", "Audit trail purge failed", metadata, err)
			}
			return fmt.Errorf("purge audit trail: %w", err)
		}

		metadata["purged"] = purged
		if recorder != nil {
			recorder.LogMaintenance(ctx, "audit_purge", fmt.Sprintf("%d audit event(s) purged", purged), metadata, nil)
		}
		logger.Info("audit trail purged",
			zap.Int64("purged", purged),
			zap.Time("cutoff", cutoff),
		)
		return nil
	}
}

func NewPurgeAuditTrailQueue(purger AuditTrailPurger, recorder MaintenanceRecorder, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(PurgeAuditTrailProcessor(purger, recorder, orNop(logger)))
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
