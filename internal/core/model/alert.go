package model

import "time"

type AlertType string

const (
	AlertHealthEmergency AlertType = "HEALTH_EMERGENCY"
	AlertSafetyRisk      AlertType = "SAFETY_RISK"
	AlertMentalCrisis    AlertType = "MENTAL_CRISIS"
	AlertNoResponse      AlertType = "NO_RESPONSE"
)

// NoResponseKeyword is the synthetic keyword marker carried by every
// NO_RESPONSE alert in place of matched message keywords.
const NoResponseKeyword = "무응답"

// EmergencyAlert is an urgent, keyword-triggered notification. Alerts are
// append-only: the only post-creation mutation is acknowledgement.
type EmergencyAlert struct {
	ID               string     `json:"id"`
	FamilyID         string     `json:"familyId"`
	Type             AlertType  `json:"alertType"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Severity         int        `json:"severity"` // 1..10
	DetectedKeywords string     `json:"detectedKeywords"`
	AIAnalysis       string     `json:"aiAnalysis"`
	Acknowledged     bool       `json:"acknowledged"`
	AcknowledgedAt   *time.Time `json:"acknowledgedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
