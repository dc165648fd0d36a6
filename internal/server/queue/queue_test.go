package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newQueue(opts Options) (*Queue, *jobs.MemoryRepository, *testClock) {
	c := &testClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := jobs.NewMemoryRepositoryWithClock(c.now)
	return New(repo, opts), repo, c
}

func TestEnqueueDequeueAck(t *testing.T) {
	ctx := context.Background()
	q, repo, _ := newQueue(Options{})

	_, err := q.Enqueue(ctx, common.QueueThumbnails, models.ThumbnailTask{UserID: 1, FileID: 2})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, common.QueueThumbnails)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":1,"fileId":2}`, string(job.Payload))

	var task models.ThumbnailTask
	require.NoError(t, Decode(job, &task))
	assert.Equal(t, int64(2), task.FileID)

	require.NoError(t, q.Ack(ctx, job))
	assert.Empty(t, repo.Snapshot())

	_, err = q.Dequeue(ctx, common.QueueThumbnails)
	assert.True(t, IsEmpty(err))
}

func TestUnackedJobIsRedelivered(t *testing.T) {
	ctx := context.Background()
	q, _, clk := newQueue(Options{Visibility: 10 * time.Second})

	_, err := q.Enqueue(ctx, "q", map[string]int{"a": 1})
	require.NoError(t, err)

	first, err := q.Dequeue(ctx, "q")
	require.NoError(t, err)

	clk.t = clk.t.Add(9 * time.Second)
	_, err = q.Dequeue(ctx, "q")
	assert.True(t, IsEmpty(err))

	clk.t = clk.t.Add(time.Second)
	second, err := q.Dequeue(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Attempts)
}

func TestFail_RetryThenDeadLetter(t *testing.T) {
	ctx := context.Background()
	q, repo, clk := newQueue(Options{MaxAttempts: 3, BaseBackoff: time.Second, Visibility: time.Hour})

	_, err := q.Enqueue(ctx, "q", struct{}{})
	require.NoError(t, err)

	for attempt := 1; attempt <= 3; attempt++ {
		job, err := q.Dequeue(ctx, "q")
		require.NoError(t, err, "attempt %d", attempt)
		require.Equal(t, attempt, job.Attempts)

		dead, err := q.Fail(ctx, job, common.RetryableJobError(errors.New("flaky")))
		require.NoError(t, err)
		assert.Equal(t, attempt == 3, dead)

		clk.t = clk.t.Add(q.Backoff(attempt))
	}

	_, err = q.Dequeue(ctx, "q")
	assert.True(t, IsEmpty(err))

	snap := repo.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, models.JobStatusDead, snap[0].Status)
	assert.Contains(t, snap[0].LastError, "flaky")
}

func TestDequeue_LostDeliveriesAreBounded(t *testing.T) {
	ctx := context.Background()
	q, repo, clk := newQueue(Options{MaxAttempts: 3, Visibility: time.Second})

	lost, err := q.Enqueue(ctx, "q", struct{}{})
	require.NoError(t, err)

	// The worker never acks or fails, so only the visibility window brings
	// the job back.
	for attempt := 1; attempt <= 3; attempt++ {
		job, err := q.Dequeue(ctx, "q")
		require.NoError(t, err, "attempt %d", attempt)
		require.Equal(t, attempt, job.Attempts)
		clk.t = clk.t.Add(2 * time.Second)
	}

	next, err := q.Enqueue(ctx, "q", struct{}{})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, next, job.ID)

	clk.t = clk.t.Add(2 * time.Second)
	require.NoError(t, q.Ack(ctx, job))
	_, err = q.Dequeue(ctx, "q")
	assert.True(t, IsEmpty(err))

	snap := repo.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, lost, snap[0].ID)
	assert.Equal(t, models.JobStatusDead, snap[0].Status)
	assert.Equal(t, 4, snap[0].Attempts)
	assert.Contains(t, snap[0].LastError, "attempts exhausted")
}

func TestFail_FatalIsDeadLetteredImmediately(t *testing.T) {
	ctx := context.Background()
	q, repo, _ := newQueue(Options{MaxAttempts: 5})

	_, err := q.Enqueue(ctx, "q", struct{}{})
	require.NoError(t, err)
	job, err := q.Dequeue(ctx, "q")
	require.NoError(t, err)

	dead, err := q.Fail(ctx, job, common.FatalJobError(errors.New("Missing fileId")))
	require.NoError(t, err)
	assert.True(t, dead)
	assert.Equal(t, models.JobStatusDead, repo.Snapshot()[0].Status)
}

func TestBackoff(t *testing.T) {
	q := New(jobs.NewMemoryRepository(), Options{BaseBackoff: time.Second, MaxBackoff: 5 * time.Second})

	assert.Equal(t, time.Second, q.Backoff(0))
	assert.Equal(t, time.Second, q.Backoff(1))
	assert.Equal(t, 2*time.Second, q.Backoff(2))
	assert.Equal(t, 4*time.Second, q.Backoff(3))
	assert.Equal(t, 5*time.Second, q.Backoff(4))
	assert.Equal(t, 5*time.Second, q.Backoff(10))
}

func TestDecode_Malformed(t *testing.T) {
	var task models.ThumbnailTask
	err := Decode(&models.Job{Payload: []byte("{")}, &task)
	assert.True(t, common.IsFatalJobError(err))
}

func TestEnqueue_Unencodable(t *testing.T) {
	q, _, _ := newQueue(Options{})
	_, err := q.Enqueue(context.Background(), "q", make(chan int))
	assert.ErrorContains(t, err, "encode task")
}
