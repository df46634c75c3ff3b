package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/tasks"
)

// TaskEnqueuer accepts background tasks.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

// MaintenanceRecorder writes the outcome of a job to the audit trail.
type MaintenanceRecorder interface {
	LogMaintenance(ctx context.Context, action, description string, metadata map[string]any, err error)
}

// MaintenanceConfig configures the periodic maintenance run.
type MaintenanceConfig struct {
	Schedule           string
	AuditRetentionDays int
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// MaintenanceScheduler enqueues the audit cleanup and overdue report tasks
// on a cron schedule.
type MaintenanceScheduler struct {
	enqueuer TaskEnqueuer
	recorder MaintenanceRecorder
	config   MaintenanceConfig
	logger   *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func NewMaintenanceScheduler(enqueuer TaskEnqueuer, recorder MaintenanceRecorder, cfg MaintenanceConfig, logger *zap.Logger) *MaintenanceScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		recorder: recorder,
		config:   cfg,
		logger:   logger.Named("maintenance"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the maintenance job. It returns immediately.
func (s *MaintenanceScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.config.Schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("scheduler started",
		zap.String("schedule", s.config.Schedule),
		zap.Timep("next_run", s.nextRunLocked()),
	)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.logger.Info("scheduler stopped")
}

// RunNow enqueues the maintenance tasks immediately.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) {
	ids, err := s.enqueuer.Enqueue(ctx,
		tasks.PurgeAuditTrailTask{RetentionDays: s.config.AuditRetentionDays},
		tasks.ReportOverdueLoansTask{},
	)
	if err != nil {
		s.logger.Error("failed to enqueue maintenance tasks", zap.Error(err))
		if s.recorder != nil {
			s.recorder.LogMaintenance(ctx, "maintenance_enqueue", "Failed to enqueue maintenance tasks", nil, err)
		}
		return
	}
	s.logger.Info("maintenance tasks enqueued", zap.Strings("task_ids", ids))
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next run will occur, or nil when stopped.
func (s *MaintenanceScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRunLocked()
}

func (s *MaintenanceScheduler) nextRunLocked() *time.Time {
	if !s.isRunning {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if entry.ID == 0 {
		return nil
	}
	t := entry.Next
	return &t
}
