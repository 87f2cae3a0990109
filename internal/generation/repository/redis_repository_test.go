package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisRepo_CreateGetUpdate(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	repo := NewGenerationRedisRepo(client, "veda:job:", time.Hour)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, generation.ErrJobNotFound)

	created := newJob("abc12345", time.Now())
	_, err = repo.Create(ctx, created)
	require.NoError(t, err)

	assert.True(t, mr.Exists("veda:job:abc12345"))
	assert.Equal(t, "queued", mr.HGet("veda:job:abc12345", "status"))
	assert.Greater(t, mr.TTL("veda:job:abc12345"), time.Duration(0))

	completed := models.JobStatusCompleted
	path := "outputs/api/abc12345.mp4"
	duration := 12.3
	require.NoError(t, repo.Update(ctx, "abc12345", models.JobUpdate{
		Status:          &completed,
		ResultPath:      &path,
		DurationSeconds: &duration,
	}))

	job, err := repo.GetByID(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, path, job.ResultPath)
	assert.Equal(t, 12.3, job.DurationSeconds)
	assert.Equal(t, created.Prompt, job.Prompt)
	assert.Equal(t, "completed", mr.HGet("veda:job:abc12345", "status"))
}

func TestRedisRepo_UpdateMissingIsNoop(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewGenerationRedisRepo(client, "veda:job:", 0)

	failed := models.JobStatusFailed
	require.NoError(t, repo.Update(context.Background(), "ghost", models.JobUpdate{Status: &failed}))
	assert.False(t, mr.Exists("veda:job:ghost"))
}

func TestRedisRepo_ListSkipsExpired(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	repo := NewGenerationRedisRepo(client, "veda:job:", 0)

	base := time.Now()
	for i := 0; i < 4; i++ {
		_, err := repo.Create(ctx, newJob(fmt.Sprintf("job%05d", i), base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}
	mr.Del("veda:job:job00003")

	list, err := repo.List(ctx, &utils.Pagination{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list.Jobs, 3)
	assert.Equal(t, "job00002", list.Jobs[0].JobID)
	assert.Equal(t, "job00000", list.Jobs[2].JobID)

	members, err := mr.ZMembers("veda:job:index")
	require.NoError(t, err)
	assert.NotContains(t, members, "job00003")
}

func TestRedisQueue_FIFO(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	q := NewRedisQueue(client, "veda:generation_jobs")

	require.NoError(t, q.Enqueue(ctx, "first"))
	require.NoError(t, q.Enqueue(ctx, "second"))

	id, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", id)
	id, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", id)
}

func TestRedisQueue_DequeueStopsOnCancel(t *testing.T) {
	_, client := setupTestRedis(t)
	q := NewRedisQueue(client, "veda:generation_jobs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
