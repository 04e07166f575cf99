package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) (*miniredis.Miniredis, *RedisGuard) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisGuard(client)
}

func TestRedisGuard_FirstAcquireWins(t *testing.T) {
	_, guard := setupGuard(t)
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "daily:fam-1:2025-11-12", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = guard.Acquire(ctx, "daily:fam-1:2025-11-12", 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRedisGuard_KeysAreIndependent(t *testing.T) {
	_, guard := setupGuard(t)
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "daily:fam-1:2025-11-12", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = guard.Acquire(ctx, "daily:fam-2:2025-11-12", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisGuard_ExpiresWithTTL(t *testing.T) {
	mr, guard := setupGuard(t)
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "daily:fam-1:2025-11-12", time.Hour)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Hour)

	acquired, err = guard.Acquire(ctx, "daily:fam-1:2025-11-12", time.Hour)
	require.NoError(t, err)
	assert.True(t, acquired)
}
