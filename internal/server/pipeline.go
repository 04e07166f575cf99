package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/model"
	"github.com/maumlabs/anbu/internal/scheduler"
)

// RunDetection triggers one synchronous detection pass for a family.
func (s *Server) RunDetection(c *gin.Context) {
	familyID := c.Param("id")

	if err := s.detector.Detect(c.Request.Context(), familyID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "긴급 상황 감지가 완료되었습니다")
}

// RunAnalysis triggers a synchronous N-day analysis. An empty message
// window is an expected outcome, reported as success with a message.
func (s *Server) RunAnalysis(c *gin.Context) {
	familyID := c.Param("id")

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 30 {
			respondBadRequest(c, errors.New("days must be between 1 and 30"))
			return
		}
		days = parsed
	}

	if err := s.analyzer.Analyze(c.Request.Context(), familyID, days); err != nil {
		if errors.Is(err, core.ErrNoMessages) {
			respondMessage(c, "분석할 메시지가 없습니다")
			return
		}
		respondError(c, err)
		return
	}
	respondMessage(c, "AI 분석이 완료되었습니다")
}

// GenerateReport builds this family's weekly report on demand.
func (s *Server) GenerateReport(c *gin.Context) {
	familyID := c.Param("id")

	report, err := s.reporter.Generate(c.Request.Context(), familyID)
	if err != nil {
		if errors.Is(err, core.ErrNothingToReport) {
			respondMessage(c, "리포트 생성에 필요한 인사이트가 없습니다")
			return
		}
		respondError(c, err)
		return
	}
	respondSuccess(c, report)
}

func (s *Server) LatestReport(c *gin.Context) {
	report, err := s.reporter.GetLatest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, report)
}

func (s *Server) AllReports(c *gin.Context) {
	reports, err := s.reporter.GetAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if reports == nil {
		reports = []model.WeeklyReport{}
	}
	respondSuccess(c, reports)
}

func (s *Server) UnacknowledgedAlerts(c *gin.Context) {
	alerts, err := s.detector.ListUnacknowledged(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if alerts == nil {
		alerts = []model.EmergencyAlert{}
	}
	respondSuccess(c, alerts)
}

func (s *Server) AcknowledgeAlert(c *gin.Context) {
	if err := s.detector.Acknowledge(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "알림이 확인 처리되었습니다")
}

type insightsResponse struct {
	Health  *model.HealthInsight  `json:"health"`
	Emotion *model.EmotionInsight `json:"emotion"`
	Needs   *model.NeedsInsight   `json:"needs"`
}

// LatestInsights returns the newest insight per dimension; dimensions
// never analyzed come back null.
func (s *Server) LatestInsights(c *gin.Context) {
	familyID := c.Param("id")
	ctx := c.Request.Context()

	health, err := s.analyzer.LatestHealth(ctx, familyID)
	if err != nil {
		respondError(c, err)
		return
	}
	emotion, err := s.analyzer.LatestEmotion(ctx, familyID)
	if err != nil {
		respondError(c, err)
		return
	}
	needs, err := s.analyzer.LatestNeeds(ctx, familyID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, insightsResponse{Health: health, Emotion: emotion, Needs: needs})
}

// StartDailyRun launches the daily batch for all families and returns a
// pollable job handle instead of a bare acknowledgment.
func (s *Server) StartDailyRun(c *gin.Context) {
	job := s.jobs.Start("daily", func(ctx context.Context) (scheduler.RunResult, error) {
		return s.scheduler.RunDaily(ctx)
	})

	s.logger.Info("daily run triggered", zap.String("job_id", job.ID))
	c.JSON(http.StatusAccepted, gin.H{"success": true, "data": job})
}

func (s *Server) StartWeeklyRun(c *gin.Context) {
	job := s.jobs.Start("weekly", func(ctx context.Context) (scheduler.RunResult, error) {
		return s.scheduler.RunWeekly(ctx)
	})

	s.logger.Info("weekly run triggered", zap.String("job_id", job.ID))
	c.JSON(http.StatusAccepted, gin.H{"success": true, "data": job})
}

func (s *Server) JobStatus(c *gin.Context) {
	job, ok := s.jobs.Get(c.Param("id"))
	if !ok {
		respondError(c, fmt.Errorf("job %s: %w", c.Param("id"), core.ErrNotFound))
		return
	}
	respondSuccess(c, job)
}
