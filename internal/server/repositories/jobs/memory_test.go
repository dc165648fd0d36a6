package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ClaimVisibility(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRepositoryWithClock(func() time.Time { return now })

	id, err := r.Enqueue(ctx, "thumbnails", []byte(`{}`))
	require.NoError(t, err)
	_, err = r.Enqueue(ctx, "welcome", []byte(`{}`))
	require.NoError(t, err)

	j, err := r.Claim(ctx, "thumbnails", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, id, j.ID)
	assert.Equal(t, 1, j.Attempts)

	_, err = r.Claim(ctx, "thumbnails", time.Minute)
	assert.ErrorIs(t, err, common.ErrorQueueEmpty)

	now = now.Add(time.Minute)
	j, err = r.Claim(ctx, "thumbnails", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, j.Attempts)

	require.NoError(t, r.Delete(ctx, j.ID))
	_, err = r.Claim(ctx, "thumbnails", time.Minute)
	assert.ErrorIs(t, err, common.ErrorQueueEmpty)
}

func TestMemory_RetryAndBury(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRepositoryWithClock(func() time.Time { return now })

	id, _ := r.Enqueue(ctx, "q", []byte(`{}`))
	_, err := r.Claim(ctx, "q", time.Hour)
	require.NoError(t, err)

	require.NoError(t, r.Retry(ctx, id, 2*time.Second, "oops"))
	now = now.Add(2 * time.Second)
	_, err = r.Claim(ctx, "q", time.Hour)
	require.NoError(t, err)

	require.NoError(t, r.Bury(ctx, id, "dead"))
	now = now.Add(2 * time.Hour)
	_, err = r.Claim(ctx, "q", time.Hour)
	assert.ErrorIs(t, err, common.ErrorQueueEmpty)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, models.JobStatusDead, snap[0].Status)
	assert.Equal(t, "dead", snap[0].LastError)

	assert.ErrorIs(t, r.Retry(ctx, 99, time.Second, ""), common.ErrorNotFound)
}
