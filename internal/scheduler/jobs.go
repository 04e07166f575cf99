package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobStatus string

const (
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// Job is the status handle of one on-demand batch run. Callers poll it
// by id instead of firing and forgetting.
type Job struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Status     JobStatus  `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Result     *RunResult `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Registry tracks on-demand batch runs in memory. Entries live for the
// process lifetime; the registry is not a durable job queue.
type Registry struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	logger *zap.Logger
	now    func() time.Time
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		jobs:   make(map[string]*Job),
		logger: logger,
		now:    time.Now,
	}
}

// Start launches fn on its own goroutine and returns a snapshot of the
// job handle immediately. The run gets a fresh background context so it
// is not tied to the triggering request's lifetime.
func (r *Registry) Start(kind string, fn func(ctx context.Context) (RunResult, error)) Job {
	job := &Job{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    JobRunning,
		StartedAt: r.now(),
	}
	snapshot := *job

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	r.logger.Info("job started", zap.String("job_id", job.ID), zap.String("kind", kind))

	go func() {
		result, err := fn(context.Background())
		finished := r.now()

		r.mu.Lock()
		defer r.mu.Unlock()
		job.FinishedAt = &finished
		if err != nil {
			job.Status = JobFailed
			job.Error = err.Error()
			r.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			return
		}
		job.Status = JobCompleted
		job.Result = &result
		r.logger.Info("job completed",
			zap.String("job_id", job.ID),
			zap.Int("processed", result.Processed),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", len(result.Failed)))
	}()

	return snapshot
}

// Get returns a snapshot of the job, or false if the id is unknown.
func (r *Registry) Get(jobID string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}
