// Package worker pulls jobs from the durable queue and runs the handler
// registered for each queue. Any number of worker processes may share a
// queue; the queue's claim semantics keep them from running a job twice at
// the same time.
package worker

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"golang.org/x/sync/errgroup"
)

// Handler processes one job. Returning nil acknowledges the job; errors are
// classified with common.FatalJobError and common.RetryableJobError.
type Handler interface {
	Handle(ctx context.Context, job *models.Job) error
}

type HandlerFunc func(ctx context.Context, job *models.Job) error

func (f HandlerFunc) Handle(ctx context.Context, job *models.Job) error {
	return f(ctx, job)
}

type Worker struct {
	queue       *queue.Queue
	handlers    map[string]Handler
	names       []string
	concurrency int
	poll        time.Duration
	log         logging.Logger
}

func New(q *queue.Queue, log logging.Logger, concurrency int, poll time.Duration) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Worker{
		queue:       q,
		handlers:    make(map[string]Handler),
		concurrency: concurrency,
		poll:        poll,
		log:         log.With("module", "worker"),
	}
}

// Register binds h to the named queue. It must be called before Run.
func (w *Worker) Register(name string, h Handler) {
	if _, ok := w.handlers[name]; !ok {
		w.names = append(w.names, name)
		sort.Strings(w.names)
	}
	w.handlers[name] = h
}

// Run processes jobs with the configured concurrency until ctx is cancelled.
// Jobs already running when ctx ends are finished before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info(ctx, "Starting worker", "queues", w.names, "concurrency", w.concurrency)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			w.loop(ctx)
			return nil
		})
	}
	err := g.Wait()

	w.log.Info(context.Background(), "Worker stopped")
	return err
}

func (w *Worker) loop(ctx context.Context) {
	for ctx.Err() == nil {
		if w.RunOnce(ctx) {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce offers every registered queue one dequeue attempt and processes
// what it gets. It reports whether any job was processed.
func (w *Worker) RunOnce(ctx context.Context) bool {
	worked := false
	for _, name := range w.names {
		if ctx.Err() != nil {
			return worked
		}
		job, err := w.queue.Dequeue(ctx, name)
		if err != nil {
			if !queue.IsEmpty(err) && ctx.Err() == nil {
				w.log.Error(ctx, "dequeue failed", "queue", name, "error", err)
			}
			continue
		}
		w.process(context.WithoutCancel(ctx), w.handlers[name], job)
		worked = true
	}
	return worked
}

func (w *Worker) process(ctx context.Context, h Handler, job *models.Job) {
	log := w.log.With("queue", job.Queue, "job_id", job.ID, "attempt", job.Attempts)

	err := h.Handle(ctx, job)
	if err == nil {
		if err := w.queue.Ack(ctx, job); err != nil {
			log.Error(ctx, "ack failed, job will be redelivered", "error", err)
			return
		}
		log.Debug(ctx, "job done")
		return
	}

	dead, ferr := w.queue.Fail(ctx, job, err)
	if ferr != nil {
		log.Error(ctx, "failed to record job failure", "error", ferr, "cause", err)
		return
	}
	if dead {
		log.Error(ctx, "job dead-lettered", "error", err)
	} else {
		log.Warn(ctx, "job failed, will retry", "error", err)
	}
}
