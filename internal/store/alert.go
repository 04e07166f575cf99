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

// AlertRepository persists emergency alerts. Alerts are never deleted by
// the pipeline; acknowledgement is the only update.
type AlertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewAlertRepository(db *sql.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{db: db, logger: logger}
}

func (r *AlertRepository) Create(ctx context.Context, alert *model.EmergencyAlert) error {
	query := `
		INSERT INTO emergency_alerts (
			alert_id, family_id, alert_type, title, content,
			severity, detected_keywords, ai_analysis, acknowledged, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.FamilyID,
		alert.Type,
		alert.Title,
		alert.Content,
		alert.Severity,
		alert.DetectedKeywords,
		alert.AIAnalysis,
		alert.Acknowledged,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ExistsSince reports whether an alert of the given type was created for
// the family after the cutoff. Used as the suppression guard.
func (r *AlertRepository) ExistsSince(ctx context.Context, familyID string, alertType model.AlertType, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM emergency_alerts
			WHERE family_id = $1
			  AND alert_type = $2
			  AND created_at > $3
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, familyID, alertType, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent alert: %w", err)
	}
	return exists, nil
}

func (r *AlertRepository) Get(ctx context.Context, alertID string) (*model.EmergencyAlert, error) {
	query := `
		SELECT alert_id, family_id, alert_type, title, content,
		       severity, detected_keywords, ai_analysis, acknowledged, acknowledged_at, created_at
		FROM emergency_alerts
		WHERE alert_id = $1
	`

	var a model.EmergencyAlert
	var ackedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, alertID).Scan(
		&a.ID, &a.FamilyID, &a.Type, &a.Title, &a.Content,
		&a.Severity, &a.DetectedKeywords, &a.AIAnalysis, &a.Acknowledged, &ackedAt, &a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("alert %s: %w", alertID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	if ackedAt.Valid {
		a.AcknowledgedAt = &ackedAt.Time
	}
	return &a, nil
}

// ListUnacknowledged returns the family's open alerts, newest first.
func (r *AlertRepository) ListUnacknowledged(ctx context.Context, familyID string) ([]model.EmergencyAlert, error) {
	query := `
		SELECT alert_id, family_id, alert_type, title, content,
		       severity, detected_keywords, ai_analysis, acknowledged, acknowledged_at, created_at
		FROM emergency_alerts
		WHERE family_id = $1
		  AND acknowledged = FALSE
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.EmergencyAlert
	for rows.Next() {
		var a model.EmergencyAlert
		var ackedAt sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.FamilyID, &a.Type, &a.Title, &a.Content,
			&a.Severity, &a.DetectedKeywords, &a.AIAnalysis, &a.Acknowledged, &ackedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if ackedAt.Valid {
			a.AcknowledgedAt = &ackedAt.Time
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}

// Acknowledge marks an alert as acknowledged and stamps the time.
// Re-acknowledging keeps the original stamp and is not an error.
func (r *AlertRepository) Acknowledge(ctx context.Context, alertID string, at time.Time) error {
	query := `
		UPDATE emergency_alerts
		SET acknowledged = TRUE,
		    acknowledged_at = COALESCE(acknowledged_at, $2)
		WHERE alert_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, alertID, at)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s: %w", alertID, core.ErrNotFound)
	}
	return nil
}
