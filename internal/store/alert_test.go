package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/model"
)

func setupMockAlertDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *AlertRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewAlertRepository(db, zap.NewNop())
	return db, mock, repo
}

func TestAlertCreate(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	alert := &model.EmergencyAlert{
		ID:               uuid.New().String(),
		FamilyID:         uuid.New().String(),
		Type:             model.AlertHealthEmergency,
		Title:            "건강 긴급 상황 감지",
		Content:          "내용",
		Severity:         9,
		DetectedKeywords: "넘어졌",
		AIAnalysis:       "분석",
		CreatedAt:        time.Now(),
	}

	mock.ExpectExec(`INSERT INTO emergency_alerts`).
		WithArgs(alert.ID, alert.FamilyID, string(alert.Type), alert.Title, alert.Content,
			alert.Severity, alert.DetectedKeywords, alert.AIAnalysis, false, alert.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), alert))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertExistsSince(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	familyID := uuid.New().String()
	since := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(familyID, string(model.AlertSafetyRisk), since).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsSince(context.Background(), familyID, model.AlertSafetyRisk, since)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertAcknowledge(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	alertID := uuid.New().String()
	at := time.Now()

	mock.ExpectExec(`UPDATE emergency_alerts`).
		WithArgs(alertID, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Acknowledge(context.Background(), alertID, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertAcknowledge_NotFound(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	alertID := uuid.New().String()
	at := time.Now()

	mock.ExpectExec(`UPDATE emergency_alerts`).
		WithArgs(alertID, at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Acknowledge(context.Background(), alertID, at)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertListUnacknowledged(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	familyID := uuid.New().String()
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{
		"alert_id", "family_id", "alert_type", "title", "content",
		"severity", "detected_keywords", "ai_analysis", "acknowledged", "acknowledged_at", "created_at",
	}).AddRow(
		uuid.New().String(), familyID, "MENTAL_CRISIS", "심리적 위기 감지", "내용",
		7, "외롭", "분석", false, nil, createdAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM emergency_alerts`).
		WithArgs(familyID).
		WillReturnRows(rows)

	alerts, err := repo.ListUnacknowledged(context.Background(), familyID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertMentalCrisis, alerts[0].Type)
	assert.False(t, alerts[0].Acknowledged)
	assert.Nil(t, alerts[0].AcknowledgedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
