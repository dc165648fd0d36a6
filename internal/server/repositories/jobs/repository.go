package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository persists queue messages. A claimed job stays invisible to other
// consumers until its visibility timeout passes, after which it is delivered
// again unless it was deleted, retried or buried in the meantime.
type Repository interface {
	Enqueue(ctx context.Context, queue string, payload []byte) (int64, error)
	// Claim returns common.ErrorQueueEmpty when no job is ready.
	Claim(ctx context.Context, queue string, visibility time.Duration) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64, delay time.Duration, lastError string) error
	Bury(ctx context.Context, id int64, lastError string) error
}
