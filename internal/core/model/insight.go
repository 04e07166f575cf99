package model

import (
	"strings"
	"time"
)

// HealthInsight is one AI-derived judgment about a family's health talk
// over an analysis window. Insights are immutable after creation.
type HealthInsight struct {
	ID             string    `json:"id"`
	FamilyID       string    `json:"familyId"`
	Keywords       string    `json:"keywords"` // JSON array of strings
	Severity       int       `json:"severity"` // 1..10
	Summary        string    `json:"summary"`
	Recommendation string    `json:"recommendation"`
	AnalyzedAt     time.Time `json:"analyzedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h HealthInsight) IsHighRisk() bool {
	return h.Severity >= 7
}

type EmotionInsight struct {
	ID               string    `json:"id"`
	FamilyID         string    `json:"familyId"`
	EmotionType      string    `json:"emotionType"`
	EmotionScore     int       `json:"emotionScore"` // -10..10
	Description      string    `json:"description"`
	ConversationTips string    `json:"conversationTips"` // JSON array of strings
	AnalyzedAt       time.Time `json:"analyzedAt"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (e EmotionInsight) IsNegative() bool {
	return e.EmotionScore < -3
}

func (e EmotionInsight) IsHighRisk() bool {
	return e.EmotionScore <= -7 ||
		strings.Contains(e.EmotionType, "우울") ||
		strings.Contains(e.EmotionType, "외로움")
}

type NeedsInsight struct {
	ID              string    `json:"id"`
	FamilyID        string    `json:"familyId"`
	Category        string    `json:"category"`
	Items           string    `json:"items"`    // JSON array of strings
	Priority        int       `json:"priority"` // 1..10
	Context         string    `json:"context"`
	Recommendations string    `json:"recommendations"` // JSON array of strings
	AnalyzedAt      time.Time `json:"analyzedAt"`
	CreatedAt       time.Time `json:"createdAt"`
}
