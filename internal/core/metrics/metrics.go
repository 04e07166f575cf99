// Package metrics implements the pure, side-effect-free calculators behind
// the stateless analysis API and the detector's risk classification. All
// functions are total over well-typed inputs.
package metrics

import (
	"fmt"
	"sort"
	"strings"
)

type RiskAnalysis struct {
	RiskLevel      string   `json:"riskLevel"`
	MentionCount   int      `json:"mentionCount"`
	Keywords       []string `json:"keywords"`
	Recommendation string   `json:"recommendation"`
	Color          string   `json:"color"`
}

// highRiskLexicon escalates a health classification regardless of mention
// volume when any keyword contains one of these fragments.
var highRiskLexicon = []string{
	"응급", "119", "통증", "쓰러", "어지러",
	"숨쉬기", "가슴", "심장", "구토", "피",
}

// ClassifyHealthRisk grades health-related conversation volume: HIGH at
// ten or more mentions or any high-risk keyword, MEDIUM at five or more,
// LOW otherwise.
func ClassifyHealthRisk(keywords []string, mentionCount int) RiskAnalysis {
	var level, recommendation, color string

	switch {
	case mentionCount >= 10 || hasHighRiskKeyword(keywords):
		level = "HIGH"
		recommendation = "즉시 병원 방문을 권장합니다"
		color = "#DC2626"
	case mentionCount >= 5:
		level = "MEDIUM"
		recommendation = "정기 검진을 권유해보세요"
		color = "#F59E0B"
	default:
		level = "LOW"
		recommendation = "건강 상태가 양호합니다"
		color = "#10B981"
	}

	return RiskAnalysis{
		RiskLevel:      level,
		MentionCount:   mentionCount,
		Keywords:       keywords,
		Recommendation: recommendation,
		Color:          color,
	}
}

func hasHighRiskKeyword(keywords []string) bool {
	for _, keyword := range keywords {
		for _, risk := range highRiskLexicon {
			if strings.Contains(keyword, risk) {
				return true
			}
		}
	}
	return false
}

type SentimentAnalysis struct {
	EmotionStatus      string  `json:"emotionStatus"`
	Emoji              string  `json:"emoji"`
	Summary            string  `json:"summary"`
	PositiveRatio      float64 `json:"positiveRatio"`
	NegativeRatio      float64 `json:"negativeRatio"`
	NeutralRatio       float64 `json:"neutralRatio"`
	ConversationChange float64 `json:"conversationChange"`
	TotalMessages      int     `json:"totalMessages"`
}

// ClassifySentiment derives an emotion status from sentiment counts and
// the period-over-period conversation volume. A volume drop sharper than
// -20% forces CONCERNED regardless of the sentiment ratios.
func ClassifySentiment(positive, negative, neutral, previousTotal, currentTotal int) SentimentAnalysis {
	total := positive + negative + neutral

	var positiveRatio, negativeRatio, neutralRatio float64
	if total > 0 {
		positiveRatio = float64(positive) / float64(total) * 100
		negativeRatio = float64(negative) / float64(total) * 100
		neutralRatio = float64(neutral) / float64(total) * 100
	}

	var change float64
	if previousTotal > 0 {
		change = float64(currentTotal-previousTotal) / float64(previousTotal) * 100
	}

	var status, emoji, summary string
	switch {
	case positiveRatio > 60:
		status, emoji, summary = "POSITIVE", "😊", "긍정적인 대화가 많습니다"
	case negativeRatio > 40:
		status, emoji, summary = "CONCERNED", "😟", "부정적인 감정이 감지됩니다"
	default:
		status, emoji, summary = "NEUTRAL", "😐", "평범한 감정 상태입니다"
	}

	// Sharp volume drop always escalates concern.
	if change < -20 {
		summary += ". 대화량이 크게 감소했습니다"
		status = "CONCERNED"
	}

	return SentimentAnalysis{
		EmotionStatus:      status,
		Emoji:              emoji,
		Summary:            summary,
		PositiveRatio:      positiveRatio,
		NegativeRatio:      negativeRatio,
		NeutralRatio:       neutralRatio,
		ConversationChange: change,
		TotalMessages:      total,
	}
}

type TrendAnalysis struct {
	Direction     string  `json:"direction"`
	Icon          string  `json:"icon"`
	Description   string  `json:"description"`
	ChangePercent float64 `json:"changePercent"`
	PreviousValue int     `json:"previousValue"`
	CurrentValue  int     `json:"currentValue"`
}

// ClassifyTrend grades a period-over-period change: UP above +10%, DOWN
// below -10%, STABLE in between. The boundaries themselves are STABLE.
func ClassifyTrend(previous, current int) TrendAnalysis {
	var change float64
	if previous > 0 {
		change = float64(current-previous) / float64(previous) * 100
	}

	var direction, icon, description string
	switch {
	case change > 10:
		direction, icon = "UP", "↑"
		description = fmt.Sprintf("%.1f%% 증가", change)
	case change < -10:
		direction, icon = "DOWN", "↓"
		description = fmt.Sprintf("%.1f%% 감소", -change)
	default:
		direction, icon, description = "STABLE", "→", "변화 없음"
	}

	return TrendAnalysis{
		Direction:     direction,
		Icon:          icon,
		Description:   description,
		ChangePercent: change,
		PreviousValue: previous,
		CurrentValue:  current,
	}
}

type KeywordFrequency struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
	// MagnitudeBand grades the keyword's absolute count in this window
	// (UP above 15, DOWN below 5, STABLE otherwise). It is not a
	// period-over-period trend; see ClassifyTrend for that.
	MagnitudeBand string `json:"magnitudeBand"`
}

// KeywordFrequencies tokenizes messages on whitespace, counts tokens of
// length >= 2 and returns the top 20 by count. Ties preserve first-seen
// order.
func KeywordFrequencies(messages []string) []KeywordFrequency {
	counts := make(map[string]int)
	order := make(map[string]int)

	for _, message := range messages {
		for _, word := range strings.Fields(message) {
			if len([]rune(word)) < 2 {
				continue
			}
			if _, seen := counts[word]; !seen {
				order[word] = len(order)
			}
			counts[word]++
		}
	}

	frequencies := make([]KeywordFrequency, 0, len(counts))
	for word, count := range counts {
		frequencies = append(frequencies, KeywordFrequency{
			Keyword:       word,
			Count:         count,
			MagnitudeBand: magnitudeBand(count),
		})
	}

	sort.SliceStable(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return order[frequencies[i].Keyword] < order[frequencies[j].Keyword]
	})

	if len(frequencies) > 20 {
		frequencies = frequencies[:20]
	}
	return frequencies
}

func magnitudeBand(count int) string {
	switch {
	case count > 15:
		return "UP"
	case count < 5:
		return "DOWN"
	default:
		return "STABLE"
	}
}
