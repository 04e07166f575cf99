// Package scheduler drives the daily detection/analysis batch and the
// weekly report batch, with per-family fault isolation.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
)

type Detector interface {
	Detect(ctx context.Context, familyID string) error
}

type Analyzer interface {
	Analyze(ctx context.Context, familyID string, days int) error
}

type Reporter interface {
	Generate(ctx context.Context, familyID string) error
}

type FamilyLister interface {
	ListFamilyIDs(ctx context.Context) ([]string, error)
}

// Guard enforces at-most-one batch unit per key. Acquire returns false
// when the key was already taken inside the TTL window.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// analysisWindowDays is the trailing window the daily analysis covers.
const analysisWindowDays = 7

// UnitFailure records one family that failed inside a batch run.
type UnitFailure struct {
	FamilyID string `json:"familyId"`
	Reason   string `json:"reason"`
}

// RunResult is the structured outcome of one batch run. Skippable
// conditions (already reported, nothing to analyze, guarded duplicates)
// never count as failures.
type RunResult struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    []UnitFailure `json:"failed"`
}

// Scheduler runs the two batch jobs. Families are processed sequentially;
// one family's failure is logged and the loop continues.
type Scheduler struct {
	families FamilyLister
	detector Detector
	analyzer Analyzer
	reporter Reporter
	guard    Guard
	logger   *zap.Logger
	now      func() time.Time
}

func New(families FamilyLister, detector Detector, analyzer Analyzer,
	reporter Reporter, guard Guard, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		families: families,
		detector: detector,
		analyzer: analyzer,
		reporter: reporter,
		guard:    guard,
		logger:   logger,
		now:      time.Now,
	}
}

// RunDaily analyzes the trailing week and runs emergency detection for
// every family. An idempotency guard limits analysis to one run per
// family per calendar day; guarded families still get detection.
func (s *Scheduler) RunDaily(ctx context.Context) (RunResult, error) {
	s.logger.Info("starting daily batch")

	ids, err := s.families.ListFamilyIDs(ctx)
	if err != nil {
		return RunResult{}, err
	}

	result := s.forEachFamily(ids, func(familyID string) error {
		return s.runDailyUnit(ctx, familyID)
	})

	s.logger.Info("daily batch completed",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *Scheduler) runDailyUnit(ctx context.Context, familyID string) error {
	key := fmt.Sprintf("daily:%s:%s", familyID, s.now().Format("2006-01-02"))
	acquired, err := s.guard.Acquire(ctx, key, 24*time.Hour)
	if err != nil {
		return err
	}
	if !acquired {
		// The guard covers analysis only. Detection has its own
		// suppression window and must run on every pass.
		s.logger.Info("daily analysis already ran today", zap.String("family_id", familyID))
		if err := s.detector.Detect(ctx, familyID); err != nil {
			return err
		}
		return fmt.Errorf("family %s: %w", familyID, core.ErrAlreadyAnalyzed)
	}

	if err := s.analyzer.Analyze(ctx, familyID, analysisWindowDays); err != nil {
		return err
	}
	return s.detector.Detect(ctx, familyID)
}

// RunWeekly generates the weekly report for every family.
func (s *Scheduler) RunWeekly(ctx context.Context) (RunResult, error) {
	s.logger.Info("starting weekly batch")

	ids, err := s.families.ListFamilyIDs(ctx)
	if err != nil {
		return RunResult{}, err
	}

	result := s.forEachFamily(ids, func(familyID string) error {
		return s.reporter.Generate(ctx, familyID)
	})

	s.logger.Info("weekly batch completed",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// forEachFamily folds the unit over the family list with continue-on-
// failure semantics.
func (s *Scheduler) forEachFamily(ids []string, unit func(familyID string) error) RunResult {
	var result RunResult
	result.Failed = []UnitFailure{}

	for _, familyID := range ids {
		err := unit(familyID)
		switch {
		case err == nil:
			result.Processed++
		case core.IsSkippable(err):
			s.logger.Warn("batch unit skipped",
				zap.String("family_id", familyID), zap.String("reason", err.Error()))
			result.Skipped++
		default:
			s.logger.Error("batch unit failed",
				zap.String("family_id", familyID), zap.Error(err))
			result.Failed = append(result.Failed, UnitFailure{
				FamilyID: familyID,
				Reason:   err.Error(),
			})
		}
	}
	return result
}

// Start launches the two timer loops: daily at 00:00 and weekly on
// Friday 15:00, local time. Both stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, "daily", nextDaily, func(runCtx context.Context) {
		if _, err := s.RunDaily(runCtx); err != nil {
			s.logger.Error("daily batch aborted", zap.Error(err))
		}
	})
	go s.loop(ctx, "weekly", nextWeekly, func(runCtx context.Context) {
		if _, err := s.RunWeekly(runCtx); err != nil {
			s.logger.Error("weekly batch aborted", zap.Error(err))
		}
	})
}

func (s *Scheduler) loop(ctx context.Context, name string, next func(time.Time) time.Time, run func(context.Context)) {
	for {
		wait := next(s.now()).Sub(s.now())
		s.logger.Info("batch scheduled",
			zap.String("job", name), zap.Duration("in", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			run(ctx)
		}
	}
}

// nextDaily returns the next local midnight after now.
func nextDaily(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekly returns the next Friday 15:00 local after now.
func nextWeekly(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 15, 0, 0, 0, now.Location())
	daysAhead := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
