// Package server exposes the pipeline and the stateless analysis API
// over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/detector"
	"github.com/maumlabs/anbu/internal/core/insight"
	"github.com/maumlabs/anbu/internal/core/report"
	"github.com/maumlabs/anbu/internal/scheduler"
)

type Server struct {
	detector  *detector.Detector
	analyzer  *insight.Analyzer
	reporter  *report.Aggregator
	scheduler *scheduler.Scheduler
	jobs      *scheduler.Registry
	logger    *zap.Logger
}

func New(det *detector.Detector, analyzer *insight.Analyzer, reporter *report.Aggregator,
	sched *scheduler.Scheduler, jobs *scheduler.Registry, logger *zap.Logger) *Server {
	return &Server{
		detector:  det,
		analyzer:  analyzer,
		reporter:  reporter,
		scheduler: sched,
		jobs:      jobs,
		logger:    logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	analysis := r.Group("/api/analysis")
	{
		analysis.POST("/health-risk", s.AnalyzeHealthRisk)
		analysis.POST("/sentiment", s.AnalyzeSentiment)
		analysis.POST("/trend", s.AnalyzeTrend)
		analysis.POST("/keywords", s.AnalyzeKeywords)
		analysis.POST("/conversation-tips", s.SuggestTips)
		analysis.POST("/product-recommendations", s.RecommendProducts)
		analysis.POST("/conversation-stats", s.ConversationStats)
		analysis.POST("/message-stats", s.MessageStats)
		analysis.POST("/comprehensive", s.ComprehensiveAnalysis)
	}

	families := r.Group("/api/families")
	{
		families.POST("/:id/detect", s.RunDetection)
		families.POST("/:id/analyze", s.RunAnalysis)
		families.POST("/:id/reports", s.GenerateReport)
		families.GET("/:id/reports/latest", s.LatestReport)
		families.GET("/:id/reports", s.AllReports)
		families.GET("/:id/alerts", s.UnacknowledgedAlerts)
		families.GET("/:id/insights", s.LatestInsights)
	}

	r.POST("/api/alerts/:id/acknowledge", s.AcknowledgeAlert)

	r.POST("/api/pipeline/daily", s.StartDailyRun)
	r.POST("/api/pipeline/weekly", s.StartWeeklyRun)
	r.GET("/api/jobs/:id", s.JobStatus)

	return r
}

// respondSuccess wraps data in the envelope shared with the mobile app.
func respondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// respondError maps the pipeline error taxonomy to HTTP status codes.
func respondError(c *gin.Context, err error) {
	var providerErr *core.ProviderError
	var schemaErr *core.SchemaError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyReported) || errors.Is(err, core.ErrAlreadyAnalyzed):
		status = http.StatusConflict
	case errors.As(err, &providerErr) || errors.As(err, &schemaErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request: " + err.Error()})
}
