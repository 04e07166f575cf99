// Package report aggregates a family's weekly insights into one
// WeeklyReport per calendar week.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/common"
	"github.com/maumlabs/anbu/internal/core/model"
	"github.com/maumlabs/anbu/internal/llm"
)

type FamilyStore interface {
	GetFamily(ctx context.Context, familyID string) (*model.Family, error)
}

type InsightStore interface {
	HealthInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.HealthInsight, error)
	EmotionInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.EmotionInsight, error)
	NeedsInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.NeedsInsight, error)
}

type ReportStore interface {
	ExistsForPeriod(ctx context.Context, familyID string, periodStart, periodEnd time.Time) (bool, error)
	Create(ctx context.Context, report *model.WeeklyReport) error
	Latest(ctx context.Context, familyID string) (*model.WeeklyReport, error)
	ListByFamily(ctx context.Context, familyID string) ([]model.WeeklyReport, error)
}

// Prompts carries the two synthesis templates. Both take the three
// section summaries as format arguments.
type Prompts struct {
	Overview string
	Tips     string
}

// Aggregator builds weekly reports. The narrative overview call fails
// fast; the tip generation call degrades to a fixed fallback tip.
type Aggregator struct {
	families FamilyStore
	insights InsightStore
	reports  ReportStore
	ai       llm.Client
	prompts  Prompts
	logger   *zap.Logger
	now      func() time.Time
}

const fallbackTipContent = "요즘 건강은 어떠세요? 불편한 곳은 없으신가요?"

func New(families FamilyStore, insights InsightStore, reports ReportStore,
	ai llm.Client, prompts Prompts, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		families: families,
		insights: insights,
		reports:  reports,
		ai:       ai,
		prompts:  prompts,
		logger:   logger,
		now:      time.Now,
	}
}

// Period returns the canonical reporting window relative to now: last
// Monday 00:00:00 through last Sunday 23:59:59.
func Period(now time.Time) (time.Time, time.Time) {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	lastSunday := now.AddDate(0, 0, -weekday)
	periodEnd := time.Date(lastSunday.Year(), lastSunday.Month(), lastSunday.Day(),
		23, 59, 59, 0, now.Location())
	start := periodEnd.AddDate(0, 0, -6)
	periodStart := time.Date(start.Year(), start.Month(), start.Day(),
		0, 0, 0, 0, now.Location())
	return periodStart, periodEnd
}

// Generate builds the family's report for the last completed week.
// Returns core.ErrAlreadyReported when the period is covered and
// core.ErrNothingToReport when no insights exist in the window.
func (a *Aggregator) Generate(ctx context.Context, familyID string) (*model.WeeklyReport, error) {
	a.logger.Info("generating weekly report", zap.String("family_id", familyID))

	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}

	periodStart, periodEnd := Period(a.now())

	exists, err := a.reports.ExistsForPeriod(ctx, familyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		a.logger.Warn("report already exists for period",
			zap.String("family_id", familyID), zap.Time("period_start", periodStart))
		return nil, fmt.Errorf("family %s week of %s: %w",
			familyID, periodStart.Format("2006-01-02"), core.ErrAlreadyReported)
	}

	health, err := a.insights.HealthInRange(ctx, familyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	emotion, err := a.insights.EmotionInRange(ctx, familyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	needs, err := a.insights.NeedsInRange(ctx, familyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	if len(health) == 0 && len(emotion) == 0 && len(needs) == 0 {
		a.logger.Warn("no insights for weekly report", zap.String("family_id", familyID))
		return nil, fmt.Errorf("family %s week of %s: %w",
			familyID, periodStart.Format("2006-01-02"), core.ErrNothingToReport)
	}

	healthSummary := buildHealthSummary(health)
	emotionSummary := buildEmotionSummary(emotion)
	needsSummary := buildNeedsSummary(needs)

	overview, err := a.generateOverview(ctx, healthSummary, emotionSummary, needsSummary)
	if err != nil {
		return nil, err
	}

	now := a.now()
	report := &model.WeeklyReport{
		ID:             uuid.New().String(),
		FamilyID:       familyID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		Summary:        overview,
		HealthSummary:  healthSummary,
		EmotionSummary: emotionSummary,
		NeedsSummary:   needsSummary,
		GeneratedAt:    now,
		CreatedAt:      now,
	}
	report.Tips = a.generateTips(ctx, report.ID, healthSummary, emotionSummary, needsSummary)

	if err := a.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	a.logger.Info("weekly report generated",
		zap.String("report_id", report.ID), zap.String("family_id", familyID))
	return report, nil
}

func buildHealthSummary(insights []model.HealthInsight) string {
	if len(insights) == 0 {
		return "이번 주 건강 관련 특이사항이 없었습니다."
	}

	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		lines = append(lines, fmt.Sprintf("• %s (심각도: %d/10)", in.Summary, in.Severity))
	}
	return strings.Join(lines, "\n")
}

func buildEmotionSummary(insights []model.EmotionInsight) string {
	if len(insights) == 0 {
		return "이번 주 감정 상태 분석 결과가 없습니다."
	}

	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		lines = append(lines, fmt.Sprintf("• %s (감정: %s, 점수: %d/10)",
			in.Description, in.EmotionType, in.EmotionScore))
	}
	return strings.Join(lines, "\n")
}

func buildNeedsSummary(insights []model.NeedsInsight) string {
	if len(insights) == 0 {
		return "이번 주 특별한 니즈가 파악되지 않았습니다."
	}

	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		lines = append(lines, fmt.Sprintf("• [%s] %s (우선순위: %d/10)",
			in.Category, in.Context, in.Priority))
	}
	return strings.Join(lines, "\n")
}

// generateOverview synthesizes the narrative summary. A provider failure
// here aborts report generation.
func (a *Aggregator) generateOverview(ctx context.Context, healthSummary, emotionSummary, needsSummary string) (string, error) {
	prompt := fmt.Sprintf(a.prompts.Overview, healthSummary, emotionSummary, needsSummary)

	overview, err := a.ai.Generate(ctx, prompt)
	if err != nil {
		return "", &core.ProviderError{Err: err}
	}
	return strings.TrimSpace(overview), nil
}

type tipResponse struct {
	Content  string `json:"content"`
	Priority int    `json:"priority"`
	Category string `json:"category"`
}

// maxTips caps how many tips a report keeps even when the model returns
// more than the prompt asked for.
const maxTips = 3

// generateTips asks for 1-3 conversation tips. Any failure, provider or
// parse or an empty array, degrades to the fixed fallback tip so the
// report still ships.
func (a *Aggregator) generateTips(ctx context.Context, reportID, healthSummary, emotionSummary, needsSummary string) []model.ConversationTip {
	prompt := fmt.Sprintf(a.prompts.Tips, healthSummary, emotionSummary, needsSummary)

	raw, err := a.ai.Generate(ctx, prompt)
	if err == nil {
		parsed, parseErr := common.ParseJSONArray[tipResponse](raw)
		if parseErr == nil && len(parsed) > 0 {
			if len(parsed) > maxTips {
				parsed = parsed[:maxTips]
			}
			tips := make([]model.ConversationTip, 0, len(parsed))
			for _, tip := range parsed {
				tips = append(tips, model.ConversationTip{
					ID:       uuid.New().String(),
					ReportID: reportID,
					Content:  tip.Content,
					Priority: clampPriority(tip.Priority),
					Category: tip.Category,
				})
			}
			return tips
		}
		if parseErr != nil {
			err = parseErr
		} else {
			err = errors.New("model returned an empty tip list")
		}
	}

	a.logger.Error("failed to generate conversation tips", zap.Error(err))
	return []model.ConversationTip{{
		ID:       uuid.New().String(),
		ReportID: reportID,
		Content:  fallbackTipContent,
		Priority: 5,
		Category: "건강 관심",
	}}
}

func clampPriority(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// GetLatest returns the family's newest report.
func (a *Aggregator) GetLatest(ctx context.Context, familyID string) (*model.WeeklyReport, error) {
	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	return a.reports.Latest(ctx, familyID)
}

// GetAll returns every report of a family, newest first.
func (a *Aggregator) GetAll(ctx context.Context, familyID string) ([]model.WeeklyReport, error) {
	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	return a.reports.ListByFamily(ctx, familyID)
}
