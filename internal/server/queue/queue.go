// Package queue implements at-least-once job delivery on top of the jobs
// table: a claimed job is hidden for a visibility timeout and comes back
// unless it is acknowledged. Failed jobs are retried with exponential
// backoff until the attempt budget is spent, then dead-lettered.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/jobs"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultVisibility  = 30 * time.Second
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = time.Second
	DefaultMaxBackoff  = 5 * time.Minute
)

type Options struct {
	Visibility  time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (o *Options) setDefaults() {
	if o.Visibility <= 0 {
		o.Visibility = DefaultVisibility
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = DefaultBaseBackoff
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = DefaultMaxBackoff
	}
}

type Queue struct {
	repo jobs.Repository
	opts Options
}

func New(repo jobs.Repository, opts Options) *Queue {
	opts.setDefaults()
	return &Queue{repo: repo, opts: opts}
}

// Enqueue stores task as JSON on the named queue using repo, which may be
// bound to a transaction.
func Enqueue(ctx context.Context, repo jobs.Repository, name string, task any) (int64, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return 0, fmt.Errorf("encode task: %w", err)
	}
	return repo.Enqueue(ctx, name, payload)
}

func (q *Queue) Enqueue(ctx context.Context, name string, task any) (int64, error) {
	return Enqueue(ctx, q.repo, name, task)
}

// Dequeue claims the next ready job of the named queue. It returns
// common.ErrorQueueEmpty when there is nothing to do.
//
// A claim past MaxAttempts means earlier deliveries were lost without a
// recorded failure, for example a crashed worker. Such jobs are
// dead-lettered here and the next job is claimed instead.
func (q *Queue) Dequeue(ctx context.Context, name string) (*models.Job, error) {
	for {
		job, err := q.repo.Claim(ctx, name, q.opts.Visibility)
		if err != nil {
			return nil, err
		}
		if job.Attempts <= q.opts.MaxAttempts {
			return job, nil
		}
		msg := fmt.Sprintf("attempts exhausted after %d deliveries", q.opts.MaxAttempts)
		if job.LastError != "" {
			msg += ": " + job.LastError
		}
		if err := q.repo.Bury(ctx, job.ID, msg); err != nil {
			return nil, err
		}
	}
}

// Ack removes a processed job.
func (q *Queue) Ack(ctx context.Context, job *models.Job) error {
	return q.repo.Delete(ctx, job.ID)
}

// Fail records a processing failure. Fatal job errors and jobs that used up
// their attempts are dead-lettered; other jobs become visible again after a
// backoff delay. It reports whether the job was dead-lettered.
func (q *Queue) Fail(ctx context.Context, job *models.Job, cause error) (bool, error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if common.IsFatalJobError(cause) || job.Attempts >= q.opts.MaxAttempts {
		return true, q.repo.Bury(ctx, job.ID, msg)
	}
	return false, q.repo.Retry(ctx, job.ID, q.Backoff(job.Attempts), msg)
}

// Backoff returns the delay before delivery attempt+1, doubling from
// BaseBackoff and capped at MaxBackoff.
func (q *Queue) Backoff(attempt int) time.Duration {
	b := retry.WithCappedDuration(q.opts.MaxBackoff, retry.NewExponential(q.opts.BaseBackoff))
	var d time.Duration
	for i := 0; i < max(attempt, 1); i++ {
		next, stop := b.Next()
		if stop {
			break
		}
		d = next
	}
	return d
}

// Decode unmarshals a job payload into task. Malformed payloads are fatal
// since redelivery cannot fix them.
func Decode(job *models.Job, task any) error {
	if err := json.Unmarshal(job.Payload, task); err != nil {
		return common.FatalJobError(fmt.Errorf("malformed payload: %w", err))
	}
	return nil
}

// IsEmpty reports whether err means the queue had no ready job.
func IsEmpty(err error) bool {
	return errors.Is(err, common.ErrorQueueEmpty)
}
