// Package detector implements keyword and no-response emergency detection
// over recent family conversations.
package detector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core/model"
	"github.com/maumlabs/anbu/internal/llm"
)

const (
	keywordWindow         = 24 * time.Hour
	keywordSuppression    = time.Hour
	noResponseThreshold   = 48 * time.Hour
	noResponseSuppression = 24 * time.Hour
)

type FamilyStore interface {
	GetFamily(ctx context.Context, familyID string) (*model.Family, error)
}

type MessageStore interface {
	RecentByFamily(ctx context.Context, familyID string, since time.Time) ([]model.Message, error)
	ListConversations(ctx context.Context, familyID string) ([]model.Conversation, error)
	LastMessage(ctx context.Context, conversationID string) (*model.Message, error)
}

type AlertStore interface {
	Create(ctx context.Context, alert *model.EmergencyAlert) error
	ExistsSince(ctx context.Context, familyID string, alertType model.AlertType, since time.Time) (bool, error)
	ListUnacknowledged(ctx context.Context, familyID string) ([]model.EmergencyAlert, error)
	Acknowledge(ctx context.Context, alertID string, at time.Time) error
}

// Detector scans recent messages for high-risk keywords and stalled
// conversations, creating emergency alerts with suppression windows.
type Detector struct {
	families FamilyStore
	messages MessageStore
	alerts   AlertStore
	ai       llm.Client
	keywords map[model.AlertType][]string
	corrTmpl string
	aiPolicy llm.CallPolicy
	logger   *zap.Logger
	now      func() time.Time
}

// keywordCategories fixes the scan order over the lexicon map.
var keywordCategories = []model.AlertType{
	model.AlertHealthEmergency,
	model.AlertSafetyRisk,
	model.AlertMentalCrisis,
}

func New(families FamilyStore, messages MessageStore, alerts AlertStore,
	ai llm.Client, keywords map[model.AlertType][]string, corroborationPrompt string,
	logger *zap.Logger) *Detector {
	return &Detector{
		families: families,
		messages: messages,
		alerts:   alerts,
		ai:       ai,
		keywords: keywords,
		corrTmpl: corroborationPrompt,
		aiPolicy: llm.CallPolicy{Mode: llm.Degrade, Fallback: "AI 분석 실패. 수동 확인 필요."},
		logger:   logger,
		now:      time.Now,
	}
}

// Detect runs one detection pass for a family: keyword detection over the
// last 24 hours plus the 48-hour no-response check.
func (d *Detector) Detect(ctx context.Context, familyID string) error {
	d.logger.Info("detecting emergencies", zap.String("family_id", familyID))

	if _, err := d.families.GetFamily(ctx, familyID); err != nil {
		return err
	}

	since := d.now().Add(-keywordWindow)
	recent, err := d.messages.RecentByFamily(ctx, familyID, since)
	if err != nil {
		return err
	}

	if err := d.detectKeywords(ctx, familyID, recent); err != nil {
		return err
	}
	if err := d.detectNoResponse(ctx, familyID); err != nil {
		return err
	}

	d.logger.Info("emergency detection completed", zap.String("family_id", familyID))
	return nil
}

func (d *Detector) detectKeywords(ctx context.Context, familyID string, messages []model.Message) error {
	for _, alertType := range keywordCategories {
		var detected []string
		var excerpts []string

		for _, message := range messages {
			if message.Content == "" {
				continue
			}
			content := strings.ToLower(message.Content)

			// One keyword per message, first hit wins.
			for _, keyword := range d.keywords[alertType] {
				if strings.Contains(content, strings.ToLower(keyword)) {
					detected = append(detected, keyword)
					excerpts = append(excerpts, fmt.Sprintf("[%s] %s",
						message.SentAt.Format("2006-01-02"), message.Content))
					break
				}
			}
		}

		if len(detected) == 0 {
			continue
		}

		suppressed, err := d.alerts.ExistsSince(ctx, familyID, alertType, d.now().Add(-keywordSuppression))
		if err != nil {
			return err
		}
		if suppressed {
			d.logger.Debug("alert suppressed by recent duplicate",
				zap.String("family_id", familyID), zap.String("alert_type", string(alertType)))
			continue
		}

		if err := d.createKeywordAlert(ctx, familyID, alertType, detected, excerpts); err != nil {
			return err
		}
	}
	return nil
}

func (d *Detector) createKeywordAlert(ctx context.Context, familyID string,
	alertType model.AlertType, detected, excerpts []string) error {
	d.logger.Warn("emergency detected",
		zap.String("family_id", familyID),
		zap.String("alert_type", string(alertType)),
		zap.Strings("keywords", detected))

	analysis := d.corroborate(ctx, alertType, excerpts)

	alert := &model.EmergencyAlert{
		ID:               uuid.New().String(),
		FamilyID:         familyID,
		Type:             alertType,
		Title:            alertTitle(alertType),
		Content:          alertContent(alertType, detected, len(excerpts)),
		Severity:         severity(alertType, len(detected)),
		DetectedKeywords: strings.Join(detected, ", "),
		AIAnalysis:       analysis,
		CreatedAt:        d.now(),
	}

	if err := d.alerts.Create(ctx, alert); err != nil {
		return err
	}
	d.logger.Info("emergency alert created",
		zap.String("alert_id", alert.ID), zap.String("family_id", familyID))
	return nil
}

func (d *Detector) detectNoResponse(ctx context.Context, familyID string) error {
	conversations, err := d.messages.ListConversations(ctx, familyID)
	if err != nil {
		return err
	}

	threshold := d.now().Add(-noResponseThreshold)
	for _, conversation := range conversations {
		last, err := d.messages.LastMessage(ctx, conversation.ID)
		if err != nil {
			return err
		}
		if last == nil || !last.SentAt.Before(threshold) {
			continue
		}

		suppressed, err := d.alerts.ExistsSince(ctx, familyID, model.AlertNoResponse, d.now().Add(-noResponseSuppression))
		if err != nil {
			return err
		}
		if suppressed {
			continue
		}

		if err := d.createNoResponseAlert(ctx, familyID, last.SentAt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Detector) createNoResponseAlert(ctx context.Context, familyID string, lastMessageAt time.Time) error {
	hours := int(d.now().Sub(lastMessageAt).Hours())
	d.logger.Warn("no response detected",
		zap.String("family_id", familyID), zap.Time("last_message_at", lastMessageAt))

	alert := &model.EmergencyAlert{
		ID:               uuid.New().String(),
		FamilyID:         familyID,
		Type:             model.AlertNoResponse,
		Title:            "🚨 부모님 무응답 알림",
		Content:          fmt.Sprintf("부모님과 %d시간 동안 대화가 없었습니다. 안부를 확인해보세요.", hours),
		Severity:         7,
		DetectedKeywords: model.NoResponseKeyword,
		AIAnalysis:       "48시간 이상 대화 기록이 없음",
		CreatedAt:        d.now(),
	}

	if err := d.alerts.Create(ctx, alert); err != nil {
		return err
	}
	d.logger.Info("no response alert created",
		zap.String("alert_id", alert.ID), zap.String("family_id", familyID))
	return nil
}

// corroborate asks the AI whether the matched messages indicate a real
// emergency. A provider failure degrades to a manual-review marker and
// never blocks alert creation.
func (d *Detector) corroborate(ctx context.Context, alertType model.AlertType, excerpts []string) string {
	prompt := fmt.Sprintf(d.corrTmpl, string(alertType), strings.Join(excerpts, "\n"))

	analysis, err := d.aiPolicy.Resolve(d.ai.Generate(ctx, prompt))
	if err != nil {
		d.logger.Error("corroboration failed", zap.Error(err))
		return d.aiPolicy.Fallback
	}
	return analysis
}

// ListUnacknowledged returns the family's open alerts, newest first.
func (d *Detector) ListUnacknowledged(ctx context.Context, familyID string) ([]model.EmergencyAlert, error) {
	if _, err := d.families.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	return d.alerts.ListUnacknowledged(ctx, familyID)
}

// Acknowledge marks an alert as seen and stamps the time.
func (d *Detector) Acknowledge(ctx context.Context, alertID string) error {
	if err := d.alerts.Acknowledge(ctx, alertID, d.now()); err != nil {
		return err
	}
	d.logger.Info("alert acknowledged", zap.String("alert_id", alertID))
	return nil
}

func alertTitle(alertType model.AlertType) string {
	switch alertType {
	case model.AlertHealthEmergency:
		return "🚨 건강 긴급 상황 감지"
	case model.AlertSafetyRisk:
		return "⚠️ 안전 위험 감지"
	case model.AlertMentalCrisis:
		return "💔 심리적 위기 감지"
	default:
		return "🚨 부모님 무응답 알림"
	}
}

func alertContent(alertType model.AlertType, keywords []string, messageCount int) string {
	shown := keywords
	if len(shown) > 3 {
		shown = shown[:3]
	}
	keywordList := strings.Join(shown, ", ")

	switch alertType {
	case model.AlertHealthEmergency:
		return fmt.Sprintf(
			"최근 대화에서 건강 관련 긴급 키워드가 감지되었습니다.\n감지된 키워드: %s\n관련 메시지: %d건\n\n즉시 부모님께 연락하여 상황을 확인해주세요.",
			keywordList, messageCount)
	case model.AlertSafetyRisk:
		return fmt.Sprintf(
			"최근 대화에서 안전 위험 키워드가 감지되었습니다.\n감지된 키워드: %s\n관련 메시지: %d건\n\n즉시 부모님께 연락하여 안전을 확인해주세요.",
			keywordList, messageCount)
	case model.AlertMentalCrisis:
		return fmt.Sprintf(
			"최근 대화에서 심리적 어려움을 나타내는 표현이 감지되었습니다.\n감지된 키워드: %s\n관련 메시지: %d건\n\n부모님의 마음 상태를 확인하고 위로해주세요.",
			keywordList, messageCount)
	default:
		return "긴급 상황이 감지되었습니다. 부모님께 연락해주세요."
	}
}

func severity(alertType model.AlertType, keywordCount int) int {
	base := map[model.AlertType]int{
		model.AlertHealthEmergency: 9,
		model.AlertSafetyRisk:      8,
		model.AlertMentalCrisis:    7,
		model.AlertNoResponse:      7,
	}[alertType]

	s := base + keywordCount/2
	if s > 10 {
		return 10
	}
	return s
}
