package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maumlabs/anbu/internal/core/metrics"
)

// The analysis endpoints are pure transforms over caller-supplied data.
// Nothing here touches the database or the AI port.

type healthRiskRequest struct {
	Keywords     []string `json:"keywords" binding:"required"`
	MentionCount int      `json:"mentionCount"`
}

func (s *Server) AnalyzeHealthRisk(c *gin.Context) {
	var req healthRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.ClassifyHealthRisk(req.Keywords, req.MentionCount))
}

type sentimentRequest struct {
	PositiveCount      int `json:"positiveCount"`
	NegativeCount      int `json:"negativeCount"`
	NeutralCount       int `json:"neutralCount"`
	PreviousTotalCount int `json:"previousTotalCount"`
	CurrentTotalCount  int `json:"currentTotalCount"`
}

func (s *Server) AnalyzeSentiment(c *gin.Context) {
	var req sentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.ClassifySentiment(
		req.PositiveCount, req.NegativeCount, req.NeutralCount,
		req.PreviousTotalCount, req.CurrentTotalCount))
}

type trendRequest struct {
	PreviousValue int `json:"previousValue"`
	CurrentValue  int `json:"currentValue"`
}

func (s *Server) AnalyzeTrend(c *gin.Context) {
	var req trendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.ClassifyTrend(req.PreviousValue, req.CurrentValue))
}

type keywordAnalysisRequest struct {
	Messages []string `json:"messages" binding:"required"`
}

func (s *Server) AnalyzeKeywords(c *gin.Context) {
	var req keywordAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.KeywordFrequencies(req.Messages))
}

type conversationTipRequest struct {
	RecentKeywords []string `json:"recentKeywords" binding:"required"`
	RecentTopics   []string `json:"recentTopics"`
	EmotionStatus  string   `json:"emotionStatus" binding:"required"`
}

func (s *Server) SuggestTips(c *gin.Context) {
	var req conversationTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.SuggestConversationTips(req.RecentKeywords, req.RecentTopics, req.EmotionStatus))
}

type productRecommendationRequest struct {
	Needs    []string `json:"needs" binding:"required"`
	Keywords []string `json:"keywords"`
}

func (s *Server) RecommendProducts(c *gin.Context) {
	var req productRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.MatchProducts(req.Needs, req.Keywords))
}

type conversationStatsRequest struct {
	StartDate        time.Time               `json:"startDate" binding:"required"`
	EndDate          time.Time               `json:"endDate" binding:"required"`
	CurrentMessages  []metrics.MessageRecord `json:"currentMessages" binding:"required"`
	PreviousMessages []metrics.MessageRecord `json:"previousMessages"`
}

func (s *Server) ConversationStats(c *gin.Context) {
	var req conversationStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.CalculateConversationStats(
		req.StartDate, req.EndDate, req.CurrentMessages, req.PreviousMessages))
}

type messageStatsRequest struct {
	Messages []metrics.MessageRecord `json:"messages" binding:"required"`
}

func (s *Server) MessageStats(c *gin.Context) {
	var req messageStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	respondSuccess(c, metrics.CalculateMessageStats(req.Messages))
}

type comprehensiveRequest struct {
	Messages             []string `json:"messages" binding:"required"`
	Keywords             []string `json:"keywords" binding:"required"`
	RecentTopics         []string `json:"recentTopics"`
	DetectedNeeds        []string `json:"detectedNeeds"`
	HealthMentionCount   int      `json:"healthMentionCount"`
	PositiveCount        int      `json:"positiveCount"`
	NegativeCount        int      `json:"negativeCount"`
	NeutralCount         int      `json:"neutralCount"`
	PreviousMessageCount int      `json:"previousMessageCount"`
	CurrentMessageCount  int      `json:"currentMessageCount"`
}

type comprehensiveResponse struct {
	RiskAnalysis      metrics.RiskAnalysis        `json:"riskAnalysis"`
	SentimentAnalysis metrics.SentimentAnalysis   `json:"sentimentAnalysis"`
	Keywords          []metrics.KeywordFrequency  `json:"keywords"`
	ConversationTips  metrics.TipSuggestion       `json:"conversationTips"`
	Products          []metrics.ProductSuggestion `json:"products"`
}

// ComprehensiveAnalysis runs the full stateless battery in one call. The
// tip suggestion feeds off the computed sentiment status.
func (s *Server) ComprehensiveAnalysis(c *gin.Context) {
	var req comprehensiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	risk := metrics.ClassifyHealthRisk(req.Keywords, req.HealthMentionCount)
	sentiment := metrics.ClassifySentiment(
		req.PositiveCount, req.NegativeCount, req.NeutralCount,
		req.PreviousMessageCount, req.CurrentMessageCount)

	respondSuccess(c, comprehensiveResponse{
		RiskAnalysis:      risk,
		SentimentAnalysis: sentiment,
		Keywords:          metrics.KeywordFrequencies(req.Messages),
		ConversationTips:  metrics.SuggestConversationTips(req.Keywords, req.RecentTopics, sentiment.EmotionStatus),
		Products:          metrics.MatchProducts(req.DetectedNeeds, req.Keywords),
	})
}
