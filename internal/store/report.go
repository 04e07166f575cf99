package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/model"
)

// ReportRepository persists weekly reports together with their tips. The
// report and its tips form one aggregate and are written in a single
// transaction.
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewReportRepository(db *sql.DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{db: db, logger: logger}
}

// ExistsForPeriod reports whether the family already has a report for the
// exact (periodStart, periodEnd) pair.
func (r *ReportRepository) ExistsForPeriod(ctx context.Context, familyID string, periodStart, periodEnd time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM weekly_reports
			WHERE family_id = $1
			  AND period_start = $2
			  AND period_end = $3
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, familyID, periodStart, periodEnd).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check report period: %w", err)
	}
	return exists, nil
}

// Create writes the report and all its tips atomically.
func (r *ReportRepository) Create(ctx context.Context, report *model.WeeklyReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	reportQuery := `
		INSERT INTO weekly_reports (
			report_id, family_id, period_start, period_end,
			summary, health_summary, emotion_summary, needs_summary,
			generated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, reportQuery,
		report.ID, report.FamilyID, report.PeriodStart, report.PeriodEnd,
		report.Summary, report.HealthSummary, report.EmotionSummary, report.NeedsSummary,
		report.GeneratedAt, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	tipQuery := `
		INSERT INTO conversation_tips (tip_id, report_id, content, priority, category)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, tip := range report.Tips {
		if _, err := tx.ExecContext(ctx, tipQuery, tip.ID, tip.ReportID, tip.Content, tip.Priority, tip.Category); err != nil {
			return fmt.Errorf("failed to create conversation tip: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// Latest returns the family's most recently generated report with tips.
func (r *ReportRepository) Latest(ctx context.Context, familyID string) (*model.WeeklyReport, error) {
	query := selectReport + `
		WHERE family_id = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var report model.WeeklyReport
	err := r.db.QueryRowContext(ctx, query, familyID).Scan(
		&report.ID, &report.FamilyID, &report.PeriodStart, &report.PeriodEnd,
		&report.Summary, &report.HealthSummary, &report.EmotionSummary, &report.NeedsSummary,
		&report.GeneratedAt, &report.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no report for family %s: %w", familyID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query latest report: %w", err)
	}

	if err := r.loadTips(ctx, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByFamily returns every report of a family, newest first, with tips.
func (r *ReportRepository) ListByFamily(ctx context.Context, familyID string) ([]model.WeeklyReport, error) {
	query := selectReport + `
		WHERE family_id = $1
		ORDER BY generated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []model.WeeklyReport
	for rows.Next() {
		var report model.WeeklyReport
		if err := rows.Scan(
			&report.ID, &report.FamilyID, &report.PeriodStart, &report.PeriodEnd,
			&report.Summary, &report.HealthSummary, &report.EmotionSummary, &report.NeedsSummary,
			&report.GeneratedAt, &report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	for i := range reports {
		if err := r.loadTips(ctx, &reports[i]); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

const selectReport = `
	SELECT report_id, family_id, period_start, period_end,
	       summary, health_summary, emotion_summary, needs_summary,
	       generated_at, created_at
	FROM weekly_reports
`

func (r *ReportRepository) loadTips(ctx context.Context, report *model.WeeklyReport) error {
	query := `
		SELECT tip_id, report_id, content, priority, category
		FROM conversation_tips
		WHERE report_id = $1
		ORDER BY priority DESC
	`

	rows, err := r.db.QueryContext(ctx, query, report.ID)
	if err != nil {
		return fmt.Errorf("failed to query conversation tips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tip model.ConversationTip
		if err := rows.Scan(&tip.ID, &tip.ReportID, &tip.Content, &tip.Priority, &tip.Category); err != nil {
			return fmt.Errorf("failed to scan conversation tip: %w", err)
		}
		report.Tips = append(report.Tips, tip)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate conversation tips: %w", err)
	}
	return nil
}
