package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

type memoryJob struct {
	job       models.Job
	visibleAt time.Time
}

// MemoryRepository is an in-process Repository with the same delivery
// semantics as the table-backed one. It is used by tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*memoryJob
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithClock(time.Now)
}

func NewMemoryRepositoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{jobs: make(map[int64]*memoryJob), now: now}
}

func (r *MemoryRepository) Enqueue(_ context.Context, queue string, payload []byte) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.now()
	r.jobs[r.nextID] = &memoryJob{
		job: models.Job{
			ID:        r.nextID,
			Queue:     queue,
			Payload:   append([]byte(nil), payload...),
			Status:    models.JobStatusPending,
			CreatedAt: now,
		},
		visibleAt: now,
	}
	return r.nextID, nil
}

func (r *MemoryRepository) Claim(_ context.Context, queue string, visibility time.Duration) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()

	ids := make([]int64, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		j := r.jobs[id]
		if j.job.Queue != queue || j.job.Status != models.JobStatusPending || j.visibleAt.After(now) {
			continue
		}
		j.job.Attempts++
		j.visibleAt = now.Add(visibility)
		out := j.job
		return &out, nil
	}
	return nil, common.ErrorQueueEmpty
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

func (r *MemoryRepository) Retry(_ context.Context, id int64, delay time.Duration, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return common.ErrorNotFound
	}
	j.visibleAt = r.now().Add(delay)
	j.job.LastError = lastError
	return nil
}

func (r *MemoryRepository) Bury(_ context.Context, id int64, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return common.ErrorNotFound
	}
	j.job.Status = models.JobStatusDead
	j.job.LastError = lastError
	return nil
}

// Snapshot returns copies of all stored jobs ordered by id.
func (r *MemoryRepository) Snapshot() []models.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
