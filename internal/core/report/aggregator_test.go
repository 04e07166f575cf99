package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/config"
	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/model"
)

type mockLLM struct {
	ResponseQueue []string
	Err           error
	ErrOnCall     int
	calls         int
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.Err != nil && (m.ErrOnCall == 0 || m.ErrOnCall == m.calls) {
		return "", m.Err
	}
	if len(m.ResponseQueue) == 0 {
		return "", errors.New("mock: response queue exhausted")
	}
	resp := m.ResponseQueue[0]
	m.ResponseQueue = m.ResponseQueue[1:]
	return resp, nil
}

type fakeFamilyStore struct {
	families map[string]*model.Family
}

func (f *fakeFamilyStore) GetFamily(ctx context.Context, familyID string) (*model.Family, error) {
	family, ok := f.families[familyID]
	if !ok {
		return nil, fmt.Errorf("family %s: %w", familyID, core.ErrNotFound)
	}
	return family, nil
}

type fakeInsightStore struct {
	health  []model.HealthInsight
	emotion []model.EmotionInsight
	needs   []model.NeedsInsight
}

func inRange(at, from, to time.Time) bool {
	return !at.Before(from) && !at.After(to)
}

func (f *fakeInsightStore) HealthInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.HealthInsight, error) {
	var out []model.HealthInsight
	for _, in := range f.health {
		if inRange(in.AnalyzedAt, from, to) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInsightStore) EmotionInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.EmotionInsight, error) {
	var out []model.EmotionInsight
	for _, in := range f.emotion {
		if inRange(in.AnalyzedAt, from, to) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInsightStore) NeedsInRange(ctx context.Context, familyID string, from, to time.Time) ([]model.NeedsInsight, error) {
	var out []model.NeedsInsight
	for _, in := range f.needs {
		if inRange(in.AnalyzedAt, from, to) {
			out = append(out, in)
		}
	}
	return out, nil
}

type fakeReportStore struct {
	reports []model.WeeklyReport
}

func (f *fakeReportStore) ExistsForPeriod(ctx context.Context, familyID string, periodStart, periodEnd time.Time) (bool, error) {
	for _, r := range f.reports {
		if r.FamilyID == familyID && r.PeriodStart.Equal(periodStart) && r.PeriodEnd.Equal(periodEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReportStore) Create(ctx context.Context, report *model.WeeklyReport) error {
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportStore) Latest(ctx context.Context, familyID string) (*model.WeeklyReport, error) {
	if len(f.reports) == 0 {
		return nil, fmt.Errorf("no report for family %s: %w", familyID, core.ErrNotFound)
	}
	return &f.reports[len(f.reports)-1], nil
}

func (f *fakeReportStore) ListByFamily(ctx context.Context, familyID string) ([]model.WeeklyReport, error) {
	return f.reports, nil
}

const familyID = "fam-1"

// fixedNow is a Wednesday; the report window is Mon Nov 3 through Sun Nov 9.
var fixedNow = time.Date(2025, 11, 12, 10, 30, 0, 0, time.Local)

func newTestAggregator(insights *fakeInsightStore, reports *fakeReportStore, ai *mockLLM) *Aggregator {
	cfg := config.Default()
	families := &fakeFamilyStore{families: map[string]*model.Family{
		familyID: {ID: familyID, Name: "김씨네"},
	}}
	a := New(families, insights, reports, ai,
		Prompts{Overview: cfg.Prompts.Overview, Tips: cfg.Prompts.Tips}, zap.NewNop())
	a.now = func() time.Time { return fixedNow }
	return a
}

func insightsInWindow() *fakeInsightStore {
	analyzedAt := time.Date(2025, 11, 5, 9, 0, 0, 0, time.Local)
	return &fakeInsightStore{
		health: []model.HealthInsight{{
			ID: "h1", FamilyID: familyID, Severity: 6,
			Summary: "무릎 통증 언급이 잦습니다", AnalyzedAt: analyzedAt,
		}},
		emotion: []model.EmotionInsight{{
			ID: "e1", FamilyID: familyID, EmotionType: "외로움", EmotionScore: -4,
			Description: "외로움이 느껴집니다", AnalyzedAt: analyzedAt,
		}},
		needs: []model.NeedsInsight{{
			ID: "n1", FamilyID: familyID, Category: "건강/의료", Priority: 8,
			Context: "무릎 보호대가 필요해 보입니다", AnalyzedAt: analyzedAt,
		}},
	}
}

const tipsJSON = `[
  {"content": "무릎은 좀 어떠신지 여쭤보세요", "priority": 9, "category": "건강 관심"},
  {"content": "주말에 함께 산책 제안해보세요", "priority": 6, "category": "감정 케어"}
]`

func TestPeriod_LastFullWeek(t *testing.T) {
	start, end := Period(fixedNow)

	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 11, 9, 23, 59, 59, 0, time.Local), end)
}

func TestPeriod_SundayCountsAsWeekEnd(t *testing.T) {
	// On a Sunday the last completed week ends the previous Sunday.
	sunday := time.Date(2025, 11, 9, 12, 0, 0, 0, time.Local)
	start, end := Period(sunday)

	assert.Equal(t, time.Date(2025, 10, 27, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 11, 2, 23, 59, 59, 0, time.Local), end)
}

func TestGenerate_BuildsReportWithTips(t *testing.T) {
	insights := insightsInWindow()
	reports := &fakeReportStore{}
	ai := &mockLLM{ResponseQueue: []string{"이번 주 부모님은 대체로 안정적이셨습니다.", tipsJSON}}

	a := newTestAggregator(insights, reports, ai)
	report, err := a.Generate(context.Background(), familyID)
	require.NoError(t, err)

	assert.Equal(t, "이번 주 부모님은 대체로 안정적이셨습니다.", report.Summary)
	assert.Contains(t, report.HealthSummary, "• 무릎 통증 언급이 잦습니다 (심각도: 6/10)")
	assert.Contains(t, report.EmotionSummary, "감정: 외로움, 점수: -4/10")
	assert.Contains(t, report.NeedsSummary, "[건강/의료]")

	require.Len(t, report.Tips, 2)
	assert.Equal(t, "무릎은 좀 어떠신지 여쭤보세요", report.Tips[0].Content)
	assert.Equal(t, report.ID, report.Tips[0].ReportID)

	require.Len(t, reports.reports, 1)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.Local), reports.reports[0].PeriodStart)
}

func TestGenerate_AlreadyReported(t *testing.T) {
	start, end := Period(fixedNow)
	reports := &fakeReportStore{reports: []model.WeeklyReport{{
		ID: "r1", FamilyID: familyID, PeriodStart: start, PeriodEnd: end,
	}}}

	a := newTestAggregator(insightsInWindow(), reports, &mockLLM{})
	_, err := a.Generate(context.Background(), familyID)

	assert.True(t, errors.Is(err, core.ErrAlreadyReported))
	assert.True(t, core.IsSkippable(err))
	assert.Len(t, reports.reports, 1)
}

func TestGenerate_NothingToReport(t *testing.T) {
	a := newTestAggregator(&fakeInsightStore{}, &fakeReportStore{}, &mockLLM{})

	_, err := a.Generate(context.Background(), familyID)
	assert.True(t, errors.Is(err, core.ErrNothingToReport))
	assert.True(t, core.IsSkippable(err))
}

func TestGenerate_PartialInsightsUseFallbackSummaries(t *testing.T) {
	// Only an emotion insight exists; the other sections fall back to
	// their fixed no-data lines.
	insights := insightsInWindow()
	insights.health = nil
	insights.needs = nil

	reports := &fakeReportStore{}
	ai := &mockLLM{ResponseQueue: []string{"요약", tipsJSON}}

	a := newTestAggregator(insights, reports, ai)
	report, err := a.Generate(context.Background(), familyID)
	require.NoError(t, err)

	assert.Equal(t, "이번 주 건강 관련 특이사항이 없었습니다.", report.HealthSummary)
	assert.Equal(t, "이번 주 특별한 니즈가 파악되지 않았습니다.", report.NeedsSummary)
	assert.Contains(t, report.EmotionSummary, "외로움")
}

func TestGenerate_OverviewFailureAborts(t *testing.T) {
	reports := &fakeReportStore{}
	ai := &mockLLM{Err: errors.New("provider down"), ErrOnCall: 1}

	a := newTestAggregator(insightsInWindow(), reports, ai)
	_, err := a.Generate(context.Background(), familyID)

	var providerErr *core.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Empty(t, reports.reports)
}

func TestGenerate_TipFailureDegradesToFallbackTip(t *testing.T) {
	reports := &fakeReportStore{}
	ai := &mockLLM{
		ResponseQueue: []string{"요약"},
		Err:           errors.New("provider down"),
		ErrOnCall:     2,
	}

	a := newTestAggregator(insightsInWindow(), reports, ai)
	report, err := a.Generate(context.Background(), familyID)
	require.NoError(t, err)

	require.Len(t, report.Tips, 1)
	assert.Equal(t, "요즘 건강은 어떠세요? 불편한 곳은 없으신가요?", report.Tips[0].Content)
	assert.Equal(t, 5, report.Tips[0].Priority)
	assert.Equal(t, "건강 관심", report.Tips[0].Category)
}

func TestGenerate_UnparsableTipsDegrade(t *testing.T) {
	reports := &fakeReportStore{}
	ai := &mockLLM{ResponseQueue: []string{"요약", "대화 소재를 추천드리기 어렵습니다"}}

	a := newTestAggregator(insightsInWindow(), reports, ai)
	report, err := a.Generate(context.Background(), familyID)
	require.NoError(t, err)

	require.Len(t, report.Tips, 1)
	assert.Equal(t, "요즘 건강은 어떠세요? 불편한 곳은 없으신가요?", report.Tips[0].Content)
}

func TestGenerate_TipsCappedAndPrioritiesClamped(t *testing.T) {
	// Five tips with out-of-range priorities; the report keeps the first
	// three with priorities pulled into 1..10.
	overflowing := `[
	  {"content": "팁1", "priority": 14, "category": "건강 관심"},
	  {"content": "팁2", "priority": 0, "category": "감정 케어"},
	  {"content": "팁3", "priority": -3, "category": "일상 대화"},
	  {"content": "팁4", "priority": 7, "category": "건강 관심"},
	  {"content": "팁5", "priority": 5, "category": "건강 관심"}
	]`
	reports := &fakeReportStore{}
	ai := &mockLLM{ResponseQueue: []string{"요약", overflowing}}

	a := newTestAggregator(insightsInWindow(), reports, ai)
	report, err := a.Generate(context.Background(), familyID)
	require.NoError(t, err)

	require.Len(t, report.Tips, 3)
	assert.Equal(t, "팁1", report.Tips[0].Content)
	assert.Equal(t, 10, report.Tips[0].Priority)
	assert.Equal(t, 1, report.Tips[1].Priority)
	assert.Equal(t, 1, report.Tips[2].Priority)
}

func TestGenerate_EmptyTipArrayDegrades(t *testing.T) {
	reports := &fakeReportStore{}
	ai := &mockLLM{ResponseQueue: []string{"요약", "[]"}}

	a := newTestAggregator(insightsInWindow(), reports, ai)
	report, err := a.Generate(context.Background(), familyID)
	require.NoError(t, err)

	require.Len(t, report.Tips, 1)
	assert.Equal(t, "요즘 건강은 어떠세요? 불편한 곳은 없으신가요?", report.Tips[0].Content)
	assert.Equal(t, 5, report.Tips[0].Priority)
}

func TestGetLatest_NotFound(t *testing.T) {
	a := newTestAggregator(&fakeInsightStore{}, &fakeReportStore{}, &mockLLM{})

	_, err := a.GetLatest(context.Background(), familyID)
	assert.True(t, errors.Is(err, core.ErrNotFound))

	_, err = a.GetLatest(context.Background(), "missing")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
