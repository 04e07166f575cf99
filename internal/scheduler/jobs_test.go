package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitForJob(t *testing.T, r *Registry, jobID string) Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := r.Get(jobID)
		require.True(t, ok)
		if job.Status != JobRunning {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return Job{}
}

func TestRegistry_CompletedJobCarriesResult(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	handle := r.Start("daily", func(ctx context.Context) (RunResult, error) {
		return RunResult{Processed: 3, Skipped: 1}, nil
	})
	assert.Equal(t, JobRunning, handle.Status)
	assert.Equal(t, "daily", handle.Kind)

	job := waitForJob(t, r, handle.ID)
	assert.Equal(t, JobCompleted, job.Status)
	require.NotNil(t, job.Result)
	assert.Equal(t, 3, job.Result.Processed)
	assert.Equal(t, 1, job.Result.Skipped)
	assert.NotNil(t, job.FinishedAt)
	assert.Empty(t, job.Error)
}

func TestRegistry_FailedJobCarriesError(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	handle := r.Start("weekly", func(ctx context.Context) (RunResult, error) {
		return RunResult{}, errors.New("db gone")
	})

	job := waitForJob(t, r, handle.ID)
	assert.Equal(t, JobFailed, job.Status)
	assert.Equal(t, "db gone", job.Error)
	assert.Nil(t, job.Result)
}

func TestRegistry_UnknownJob(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	_, ok := r.Get("nope")
	assert.False(t, ok)
}
