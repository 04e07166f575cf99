package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core/model"
)

// InsightRepository persists the three insight kinds. Insights are
// append-only facts; there is no update path.
type InsightRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewInsightRepository(db *sql.DB, logger *zap.Logger) *InsightRepository {
	return &InsightRepository{db: db, logger: logger}
}

func (r *InsightRepository) CreateHealth(ctx context.Context, in *model.HealthInsight) error {
	query := `
		INSERT INTO health_insights (
			insight_id, family_id, keywords, severity, summary, recommendation, analyzed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		in.ID, in.FamilyID, in.Keywords, in.Severity, in.Summary, in.Recommendation, in.AnalyzedAt, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create health insight: %w", err)
	}
	return nil
}

func (r *InsightRepository) CreateEmotion(ctx context.Context, in *model.EmotionInsight) error {
	query := `
		INSERT INTO emotion_insights (
			insight_id, family_id, emotion_type, emotion_score, description, conversation_tips, analyzed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		in.ID, in.FamilyID, in.EmotionType, in.EmotionScore, in.Description, in.ConversationTips, in.AnalyzedAt, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create emotion insight: %w", err)
	}
	return nil
}

func (r *InsightRepository) CreateNeeds(ctx context.Context, in *model.NeedsInsight) error {
	query := `
		INSERT INTO needs_insights (
			insight_id, family_id, category, items, priority, context, recommendations, analyzed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		in.ID, in.FamilyID, in.Category, in.Items, in.Priority, in.Context, in.Recommendations, in.AnalyzedAt, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create needs insight: %w", err)
	}
	return nil
}

// HealthInRange returns health insights analyzed inside [from, to].
func (r *InsightRepository) HealthInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.HealthInsight, error) {
	query := `
		SELECT insight_id, family_id, keywords, severity, summary, recommendation, analyzed_at, created_at
		FROM health_insights
		WHERE family_id = $1
		  AND analyzed_at BETWEEN $2 AND $3
		ORDER BY analyzed_at
	`

	rows, err := r.db.QueryContext(ctx, query, familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query health insights: %w", err)
	}
	defer rows.Close()

	var insights []model.HealthInsight
	for rows.Next() {
		var in model.HealthInsight
		if err := rows.Scan(&in.ID, &in.FamilyID, &in.Keywords, &in.Severity, &in.Summary, &in.Recommendation, &in.AnalyzedAt, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan health insight: %w", err)
		}
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate health insights: %w", err)
	}
	return insights, nil
}

func (r *InsightRepository) EmotionInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.EmotionInsight, error) {
	query := `
		SELECT insight_id, family_id, emotion_type, emotion_score, description, conversation_tips, analyzed_at, created_at
		FROM emotion_insights
		WHERE family_id = $1
		  AND analyzed_at BETWEEN $2 AND $3
		ORDER BY analyzed_at
	`

	rows, err := r.db.QueryContext(ctx, query, familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion insights: %w", err)
	}
	defer rows.Close()

	var insights []model.EmotionInsight
	for rows.Next() {
		var in model.EmotionInsight
		if err := rows.Scan(&in.ID, &in.FamilyID, &in.EmotionType, &in.EmotionScore, &in.Description, &in.ConversationTips, &in.AnalyzedAt, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan emotion insight: %w", err)
		}
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emotion insights: %w", err)
	}
	return insights, nil
}

func (r *InsightRepository) NeedsInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.NeedsInsight, error) {
	query := `
		SELECT insight_id, family_id, category, items, priority, context, recommendations, analyzed_at, created_at
		FROM needs_insights
		WHERE family_id = $1
		  AND analyzed_at BETWEEN $2 AND $3
		ORDER BY analyzed_at
	`

	rows, err := r.db.QueryContext(ctx, query, familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query needs insights: %w", err)
	}
	defer rows.Close()

	var insights []model.NeedsInsight
	for rows.Next() {
		var in model.NeedsInsight
		if err := rows.Scan(&in.ID, &in.FamilyID, &in.Category, &in.Items, &in.Priority, &in.Context, &in.Recommendations, &in.AnalyzedAt, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan needs insight: %w", err)
		}
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate needs insights: %w", err)
	}
	return insights, nil
}

// LatestHealth returns the most recent health insight, or nil when the
// family has none yet.
func (r *InsightRepository) LatestHealth(ctx context.Context, familyID string) (*model.HealthInsight, error) {
	query := `
		SELECT insight_id, family_id, keywords, severity, summary, recommendation, analyzed_at, created_at
		FROM health_insights
		WHERE family_id = $1
		ORDER BY analyzed_at DESC
		LIMIT 1
	`

	var in model.HealthInsight
	err := r.db.QueryRowContext(ctx, query, familyID).Scan(
		&in.ID, &in.FamilyID, &in.Keywords, &in.Severity, &in.Summary, &in.Recommendation, &in.AnalyzedAt, &in.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest health insight: %w", err)
	}
	return &in, nil
}

func (r *InsightRepository) LatestEmotion(ctx context.Context, familyID string) (*model.EmotionInsight, error) {
	query := `
		SELECT insight_id, family_id, emotion_type, emotion_score, description, conversation_tips, analyzed_at, created_at
		FROM emotion_insights
		WHERE family_id = $1
		ORDER BY analyzed_at DESC
		LIMIT 1
	`

	var in model.EmotionInsight
	err := r.db.QueryRowContext(ctx, query, familyID).Scan(
		&in.ID, &in.FamilyID, &in.EmotionType, &in.EmotionScore, &in.Description, &in.ConversationTips, &in.AnalyzedAt, &in.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest emotion insight: %w", err)
	}
	return &in, nil
}

func (r *InsightRepository) LatestNeeds(ctx context.Context, familyID string) (*model.NeedsInsight, error) {
	query := `
		SELECT insight_id, family_id, category, items, priority, context, recommendations, analyzed_at, created_at
		FROM needs_insights
		WHERE family_id = $1
		ORDER BY analyzed_at DESC
		LIMIT 1
	`

	var in model.NeedsInsight
	err := r.db.QueryRowContext(ctx, query, familyID).Scan(
		&in.ID, &in.FamilyID, &in.Category, &in.Items, &in.Priority, &in.Context, &in.Recommendations, &in.AnalyzedAt, &in.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest needs insight: %w", err)
	}
	return &in, nil
}
