// Package insight implements the AI analysis pass: N days of family
// conversation in, three structured insight records out.
package insight

import (
	"context"
	"encoding/json"
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

type MessageStore interface {
	RecentByFamily(ctx context.Context, familyID string, since time.Time) ([]model.Message, error)
}

type InsightStore interface {
	CreateHealth(ctx context.Context, in *model.HealthInsight) error
	CreateEmotion(ctx context.Context, in *model.EmotionInsight) error
	CreateNeeds(ctx context.Context, in *model.NeedsInsight) error
	LatestHealth(ctx context.Context, familyID string) (*model.HealthInsight, error)
	LatestEmotion(ctx context.Context, familyID string) (*model.EmotionInsight, error)
	LatestNeeds(ctx context.Context, familyID string) (*model.NeedsInsight, error)
}

// Prompts carries the three analysis prompt templates. Each takes the
// rendered transcript as its single format argument.
type Prompts struct {
	Health  string
	Emotion string
	Needs   string
}

// Analyzer extracts health, emotion and needs insights from recent
// conversation. Each dimension is an independent completion call; a
// provider or schema failure on any dimension is a hard error.
type Analyzer struct {
	families FamilyStore
	messages MessageStore
	insights InsightStore
	ai       llm.Client
	prompts  Prompts
	logger   *zap.Logger
	now      func() time.Time
}

func New(families FamilyStore, messages MessageStore, insights InsightStore,
	ai llm.Client, prompts Prompts, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		families: families,
		messages: messages,
		insights: insights,
		ai:       ai,
		prompts:  prompts,
		logger:   logger,
		now:      time.Now,
	}
}

type healthResponse struct {
	Keywords       []string `json:"keywords"`
	Severity       int      `json:"severity"`
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
}

type emotionResponse struct {
	EmotionType      string   `json:"emotionType"`
	EmotionScore     int      `json:"emotionScore"`
	Description      string   `json:"description"`
	ConversationTips []string `json:"conversationTips"`
}

type needsResponse struct {
	Category        string   `json:"category"`
	Items           []string `json:"items"`
	Priority        int      `json:"priority"`
	Context         string   `json:"context"`
	Recommendations []string `json:"recommendations"`
}

// Analyze runs all three analysis dimensions over the family's last
// `days` days of text messages. Returns core.ErrNoMessages when the
// window holds nothing to analyze.
func (a *Analyzer) Analyze(ctx context.Context, familyID string, days int) error {
	a.logger.Info("starting analysis",
		zap.String("family_id", familyID), zap.Int("days", days))

	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return err
	}

	since := a.now().AddDate(0, 0, -days)
	messages, err := a.messages.RecentByFamily(ctx, familyID, since)
	if err != nil {
		return err
	}

	transcript := buildTranscript(messages)
	if transcript == "" {
		a.logger.Warn("no messages to analyze", zap.String("family_id", familyID))
		return fmt.Errorf("family %s since %s: %w", familyID, since.Format("2006-01-02"), core.ErrNoMessages)
	}

	if err := a.analyzeHealth(ctx, familyID, transcript); err != nil {
		return err
	}
	if err := a.analyzeEmotion(ctx, familyID, transcript); err != nil {
		return err
	}
	if err := a.analyzeNeeds(ctx, familyID, transcript); err != nil {
		return err
	}

	a.logger.Info("analysis completed", zap.String("family_id", familyID))
	return nil
}

// buildTranscript renders text messages as "[date] sender: content" lines.
// Image messages carry no analyzable text and are dropped.
func buildTranscript(messages []model.Message) string {
	var lines []string
	for _, m := range messages {
		if m.Type != model.MessageText {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			m.SentAt.Format("2006-01-02"), m.SenderName, m.Content))
	}
	return strings.Join(lines, "\n")
}

// completeJSON issues one completion call and parses the response against
// the expected schema, classifying failures as provider vs schema errors.
func completeJSON[T any](ctx context.Context, client llm.Client, tmpl, transcript string) (T, error) {
	var zero T

	raw, err := client.Generate(ctx, fmt.Sprintf(tmpl, transcript))
	if err != nil {
		return zero, &core.ProviderError{Err: err}
	}

	parsed, err := common.ParseJSON[T](raw)
	if err != nil {
		return zero, &core.SchemaError{Err: err, Raw: raw}
	}
	return parsed, nil
}

func (a *Analyzer) analyzeHealth(ctx context.Context, familyID, transcript string) error {
	parsed, err := completeJSON[healthResponse](ctx, a.ai, a.prompts.Health, transcript)
	if err != nil {
		return err
	}

	in := &model.HealthInsight{
		ID:             uuid.New().String(),
		FamilyID:       familyID,
		Keywords:       marshalStrings(parsed.Keywords),
		Severity:       clamp(parsed.Severity, 1, 10),
		Summary:        parsed.Summary,
		Recommendation: parsed.Recommendation,
		AnalyzedAt:     a.now(),
		CreatedAt:      a.now(),
	}
	if err := a.insights.CreateHealth(ctx, in); err != nil {
		return err
	}

	a.logger.Info("health analysis saved",
		zap.String("family_id", familyID), zap.Int("severity", in.Severity))
	return nil
}

func (a *Analyzer) analyzeEmotion(ctx context.Context, familyID, transcript string) error {
	parsed, err := completeJSON[emotionResponse](ctx, a.ai, a.prompts.Emotion, transcript)
	if err != nil {
		return err
	}

	in := &model.EmotionInsight{
		ID:               uuid.New().String(),
		FamilyID:         familyID,
		EmotionType:      parsed.EmotionType,
		EmotionScore:     clamp(parsed.EmotionScore, -10, 10),
		Description:      parsed.Description,
		ConversationTips: marshalStrings(parsed.ConversationTips),
		AnalyzedAt:       a.now(),
		CreatedAt:        a.now(),
	}
	if err := a.insights.CreateEmotion(ctx, in); err != nil {
		return err
	}

	a.logger.Info("emotion analysis saved",
		zap.String("family_id", familyID),
		zap.String("emotion_type", in.EmotionType),
		zap.Int("score", in.EmotionScore))
	return nil
}

func (a *Analyzer) analyzeNeeds(ctx context.Context, familyID, transcript string) error {
	parsed, err := completeJSON[needsResponse](ctx, a.ai, a.prompts.Needs, transcript)
	if err != nil {
		return err
	}

	in := &model.NeedsInsight{
		ID:              uuid.New().String(),
		FamilyID:        familyID,
		Category:        parsed.Category,
		Items:           marshalStrings(parsed.Items),
		Priority:        clamp(parsed.Priority, 1, 10),
		Context:         parsed.Context,
		Recommendations: marshalStrings(parsed.Recommendations),
		AnalyzedAt:      a.now(),
		CreatedAt:       a.now(),
	}
	if err := a.insights.CreateNeeds(ctx, in); err != nil {
		return err
	}

	a.logger.Info("needs analysis saved",
		zap.String("family_id", familyID),
		zap.String("category", in.Category),
		zap.Int("priority", in.Priority))
	return nil
}

// LatestHealth returns the family's most recent health insight.
func (a *Analyzer) LatestHealth(ctx context.Context, familyID string) (*model.HealthInsight, error) {
	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	return a.insights.LatestHealth(ctx, familyID)
}

func (a *Analyzer) LatestEmotion(ctx context.Context, familyID string) (*model.EmotionInsight, error) {
	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	return a.insights.LatestEmotion(ctx, familyID)
}

func (a *Analyzer) LatestNeeds(ctx context.Context, familyID string) (*model.NeedsInsight, error) {
	if _, err := a.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	return a.insights.LatestNeeds(ctx, familyID)
}

func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
