package metrics

import (
	"fmt"
	"math"
	"time"
)

// MessageRecord is a caller-supplied message for the statistics
// calculators; no persistence is involved.
type MessageRecord struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SenderID  string    `json:"senderId"`
}

type ConversationStats struct {
	TotalMessages         int            `json:"totalMessages"`
	AveragePerDay         float64        `json:"averagePerDay"`
	Trend                 string         `json:"trend"`
	TrendDescription      string         `json:"trendDescription"`
	ChangePercent         float64        `json:"changePercent"`
	DailyDistribution     map[string]int `json:"dailyDistribution"`
	HourlyPattern         map[string]int `json:"hourlyPattern"`
	PeakHour              string         `json:"peakHour"`
	PeriodDays            int            `json:"periodDays"`
	PreviousTotalMessages int            `json:"previousTotalMessages"`
	PreviousAveragePerDay float64        `json:"previousAveragePerDay"`
}

// CalculateConversationStats aggregates a message window against the
// preceding one: volumes, daily/hourly distribution and the volume trend.
func CalculateConversationStats(start, end time.Time, current, previous []MessageRecord) ConversationStats {
	days := int(end.Sub(start).Hours()/24) + 1

	total := len(current)
	previousTotal := len(previous)

	var averagePerDay, previousAveragePerDay float64
	if days > 0 {
		averagePerDay = float64(total) / float64(days)
		previousAveragePerDay = float64(previousTotal) / float64(days)
	}

	var change float64
	if previousTotal > 0 {
		change = float64(total-previousTotal) / float64(previousTotal) * 100
	}

	hourly := hourlyPattern(current)

	return ConversationStats{
		TotalMessages:         total,
		AveragePerDay:         round1(averagePerDay),
		Trend:                 ClassifyTrend(previousTotal, total).Direction,
		TrendDescription:      volumeTrendDescription(change),
		ChangePercent:         round1(change),
		DailyDistribution:     dailyDistribution(current),
		HourlyPattern:         hourly,
		PeakHour:              peakHour(hourly),
		PeriodDays:            days,
		PreviousTotalMessages: previousTotal,
		PreviousAveragePerDay: round1(previousAveragePerDay),
	}
}

func volumeTrendDescription(change float64) string {
	switch {
	case change > 20:
		return fmt.Sprintf("대화량이 %.1f%% 크게 증가했습니다", change)
	case change > 10:
		return fmt.Sprintf("대화량이 %.1f%% 증가했습니다", change)
	case change < -20:
		return fmt.Sprintf("대화량이 %.1f%% 크게 감소했습니다", -change)
	case change < -10:
		return fmt.Sprintf("대화량이 %.1f%% 감소했습니다", -change)
	default:
		return "대화량이 평소와 비슷합니다"
	}
}

func dailyDistribution(messages []MessageRecord) map[string]int {
	distribution := make(map[string]int)
	for _, m := range messages {
		distribution[m.Timestamp.Format("2006-01-02")]++
	}
	return distribution
}

func hourlyPattern(messages []MessageRecord) map[string]int {
	pattern := make(map[string]int, 24)
	for hour := 0; hour < 24; hour++ {
		pattern[fmt.Sprintf("%02d:00", hour)] = 0
	}
	for _, m := range messages {
		pattern[fmt.Sprintf("%02d:00", m.Timestamp.Hour())]++
	}
	return pattern
}

func peakHour(pattern map[string]int) string {
	best := ""
	bestCount := -1
	for hour := 0; hour < 24; hour++ {
		key := fmt.Sprintf("%02d:00", hour)
		if pattern[key] > bestCount {
			best, bestCount = key, pattern[key]
		}
	}
	return best
}

type MessageStats struct {
	AverageLength    float64 `json:"averageLength"`
	MinLength        int     `json:"minLength"`
	MaxLength        int     `json:"maxLength"`
	TotalCharacters  int     `json:"totalCharacters"`
	ShortAnswerCount int     `json:"shortAnswerCount"`
	ShortAnswerRatio float64 `json:"shortAnswerRatio"`
}

// CalculateMessageStats computes length statistics over a message set.
// Answers of ten characters or fewer count as short.
func CalculateMessageStats(messages []MessageRecord) MessageStats {
	if len(messages) == 0 {
		return MessageStats{}
	}

	var total, short int
	minLen := math.MaxInt
	maxLen := 0
	for _, m := range messages {
		length := len([]rune(m.Content))
		total += length
		if length < minLen {
			minLen = length
		}
		if length > maxLen {
			maxLen = length
		}
		if length <= 10 {
			short++
		}
	}

	return MessageStats{
		AverageLength:    round1(float64(total) / float64(len(messages))),
		MinLength:        minLen,
		MaxLength:        maxLen,
		TotalCharacters:  total,
		ShortAnswerCount: short,
		ShortAnswerRatio: round1(float64(short) / float64(len(messages)) * 100),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
