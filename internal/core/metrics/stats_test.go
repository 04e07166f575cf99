package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageAt(content string, at time.Time) MessageRecord {
	return MessageRecord{Content: content, Timestamp: at, SenderID: "elder"}
}

func TestCalculateConversationStats(t *testing.T) {
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, 11, 9, 23, 59, 59, 0, time.Local)

	current := []MessageRecord{
		messageAt("좋은 아침", start.Add(9*time.Hour)),
		messageAt("점심 먹었어?", start.Add(12*time.Hour)),
		messageAt("산책 다녀왔어", start.AddDate(0, 0, 1).Add(9*time.Hour)),
	}
	previous := []MessageRecord{
		messageAt("잘 잤니", start.AddDate(0, 0, -3)),
	}

	stats := CalculateConversationStats(start, end, current, previous)

	assert.Equal(t, 3, stats.TotalMessages)
	assert.Equal(t, 7, stats.PeriodDays)
	assert.InDelta(t, 0.4, stats.AveragePerDay, 0.001)
	assert.Equal(t, 1, stats.PreviousTotalMessages)
	assert.Equal(t, "UP", stats.Trend)
	assert.InDelta(t, 200.0, stats.ChangePercent, 0.001)
	assert.Contains(t, stats.TrendDescription, "크게 증가")

	assert.Equal(t, 2, stats.DailyDistribution["2025-11-03"])
	assert.Equal(t, 1, stats.DailyDistribution["2025-11-04"])

	// Every hour is present even with no traffic.
	assert.Len(t, stats.HourlyPattern, 24)
	assert.Equal(t, 2, stats.HourlyPattern["09:00"])
	assert.Equal(t, 0, stats.HourlyPattern["03:00"])
	assert.Equal(t, "09:00", stats.PeakHour)
}

func TestCalculateConversationStats_NoPrevious(t *testing.T) {
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 6)

	stats := CalculateConversationStats(start, end, []MessageRecord{
		messageAt("안녕", start),
	}, nil)

	assert.Equal(t, "STABLE", stats.Trend)
	assert.Zero(t, stats.ChangePercent)
	assert.Equal(t, "대화량이 평소와 비슷합니다", stats.TrendDescription)
}

func TestCalculateMessageStats(t *testing.T) {
	messages := []MessageRecord{
		{Content: "응"},
		{Content: "오늘 병원 다녀왔는데 별일 없대"},
		{Content: "고마워"},
	}

	stats := CalculateMessageStats(messages)

	assert.Equal(t, 1, stats.MinLength)
	assert.Equal(t, 17, stats.MaxLength)
	assert.Equal(t, 21, stats.TotalCharacters)
	assert.Equal(t, 2, stats.ShortAnswerCount)
	assert.InDelta(t, 66.7, stats.ShortAnswerRatio, 0.001)
	assert.InDelta(t, 7.0, stats.AverageLength, 0.001)
}

func TestCalculateMessageStats_Empty(t *testing.T) {
	stats := CalculateMessageStats(nil)

	assert.Zero(t, stats.AverageLength)
	assert.Zero(t, stats.MinLength)
	assert.Zero(t, stats.MaxLength)
	assert.Zero(t, stats.ShortAnswerRatio)
}

func TestSuggestConversationTips_Concerned(t *testing.T) {
	tips := SuggestConversationTips([]string{"무릎", "바둑"}, []string{"텃밭"}, "CONCERNED")

	assert.Equal(t, 10, tips.Priority)
	assert.Equal(t, "정서적 지원", tips.Category)
	require.NotEmpty(t, tips.Questions)
	assert.Equal(t, "요즘 어떠세요? 걱정되는 일이 있으신가요?", tips.Questions[0])
	assert.Contains(t, tips.Questions, "무릎은 좀 어떠세요? 많이 불편하신가요?")
	assert.Contains(t, tips.Questions, "텃밭 이야기 더 들려주세요")
	assert.Equal(t, []string{"무릎"}, tips.Topics)
}

func TestSuggestConversationTips_LimitsToFiveDistinct(t *testing.T) {
	tips := SuggestConversationTips(
		[]string{"무릎", "병원", "손주", "친구", "날씨"},
		[]string{"텃밭", "텃밭"},
		"POSITIVE",
	)

	assert.Len(t, tips.Questions, 5)
	assert.Equal(t, 3, tips.Priority)
	assert.Equal(t, "긍정 강화", tips.Category)
}

func TestMatchProducts(t *testing.T) {
	products := MatchProducts([]string{"무릎이 아프다", "잠을 잘 못 잔다"}, []string{"등산", "등산"})

	require.Len(t, products, 3)
	assert.Equal(t, "관절 건강 제품", products[0].Name)
	assert.Equal(t, 10, products[0].Priority)
	assert.Equal(t, "숙면 유도 아이템", products[1].Name)
	assert.Equal(t, "등산용품", products[2].Name)
}

func TestMatchProducts_NoMatches(t *testing.T) {
	products := MatchProducts([]string{"여행 가고 싶다"}, []string{"드라마"})
	assert.Empty(t, products)
}
