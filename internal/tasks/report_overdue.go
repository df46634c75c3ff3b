package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/entities"
)

// OverdueLoanFinder lists loaned copies past their due date.
type OverdueLoanFinder interface {
	ListOverdue(ctx context.Context, now time.Time) ([]entities.BookInstance, error)
}

// MaintenanceRecorder writes the outcome of a job to the audit trail.
type MaintenanceRecorder interface {
	LogMaintenance(ctx context.Context, action, description string, metadata map[string]any, err error)
}

// ReportArchive keeps a copy of each report.
type ReportArchive interface {
	SaveJSON(kind string, data any) (string, error)
}

// OverdueLoan is one line of the overdue report.
type OverdueLoan struct {
	InstanceID uuid.UUID `json:"instance_id"`
	BookTitle  string    `json:"book_title"`
	Imprint    string    `json:"imprint"`
	DueBack    time.Time `json:"due_back"`
	DaysLate   int       `json:"days_late"`
}

// OverdueReport is the archived result of one run.
type OverdueReport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Loans       []OverdueLoan `json:"loans"`
}

// ReportOverdueLoansTask finds copies whose loan has run past due_back.
type ReportOverdueLoansTask struct{}

func (t ReportOverdueLoansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "report_overdue_loans",
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BuildOverdueReport turns overdue copies into a report at now.
func BuildOverdueReport(instances []entities.BookInstance, now time.Time) OverdueReport {
	report := OverdueReport{GeneratedAt: now, Loans: make([]OverdueLoan, 0, len(instances))}
	for _, bi := range instances {
		if !bi.IsOverdue(now) {
			continue
		}
		report.Loans = append(report.Loans, OverdueLoan{
			InstanceID: bi.ID,
			BookTitle:  bi.Book.Title,
			Imprint:    bi.Imprint,
			DueBack:    *bi.DueBack,
			DaysLate:   int(now.Sub(*bi.DueBack).Hours() / 24),
		})
	}
	return report
}

// ReportOverdueLoansProcessor creates the processor for ReportOverdueLoansTask.
// The archive is optional.
func ReportOverdueLoansProcessor(finder OverdueLoanFinder, recorder MaintenanceRecorder, archive ReportArchive, logger *zap.Logger) backlite.QueueProcessor[ReportOverdueLoansTask] {
	return func(ctx context.Context, task ReportOverdueLoansTask) error {
		if finder == nil {
			return fmt.Errorf("overdue loan finder not configured")
		}

		now := time.Now().UTC()
		instances, err := finder.ListOverdue(ctx, now)
		if err != nil {
			if recorder != nil {
				recorder.LogMaintenance(ctx, "overdue_report", "Overdue loan report failed", nil, err)
			}
			return fmt.Errorf("list overdue loans: %w", err)
		}

		report := BuildOverdueReport(instances, now)
		for _, loan := range report.Loans {
			logger.Warn("loan overdue",
				zap.String("instance_id", loan.InstanceID.String()),
				zap.String("book", loan.BookTitle),
				zap.Int("days_late", loan.DaysLate),
			)
		}

		metadata := map[string]any{"overdue": len(report.Loans)}
		if archive != nil && len(report.Loans) > 0 {
			filename, err := archive.SaveJSON("overdue", report)
			if err != nil {
				logger.Warn("failed to archive overdue report", zap.Error(err))
			} else {
				metadata["report"] = filename
			}
		}

		if recorder != nil {
			description := fmt.Sprintf("%d overdue loan(s)", len(report.Loans))
			recorder.LogMaintenance(ctx, "overdue_report", description, metadata, nil)
		}
		return nil
	}
}

// NewReportOverdueLoansQueue creates a backlite queue for overdue reports.
func NewReportOverdueLoansQueue(finder OverdueLoanFinder, recorder MaintenanceRecorder, archive ReportArchive, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(ReportOverdueLoansProcessor(finder, recorder, archive, orNop(logger)))
}
