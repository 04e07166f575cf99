package model

import "time"

// WeeklyReport aggregates one Monday..Sunday period of insights for a
// family. At most one report exists per (family, periodStart, periodEnd);
// the report owns its conversation tips.
type WeeklyReport struct {
	ID             string            `json:"id"`
	FamilyID       string            `json:"familyId"`
	PeriodStart    time.Time         `json:"periodStart"`
	PeriodEnd      time.Time         `json:"periodEnd"`
	Summary        string            `json:"summary"`
	HealthSummary  string            `json:"healthSummary"`
	EmotionSummary string            `json:"emotionSummary"`
	NeedsSummary   string            `json:"needsSummary"`
	GeneratedAt    time.Time         `json:"generatedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	Tips           []ConversationTip `json:"tips"`
}

// ConversationTip is an AI-suggested conversation starter attached to a
// weekly report.
type ConversationTip struct {
	ID       string `json:"id"`
	ReportID string `json:"reportId"`
	Content  string `json:"content"`
	Priority int    `json:"priority"` // 1..10
	Category string `json:"category"`
}
