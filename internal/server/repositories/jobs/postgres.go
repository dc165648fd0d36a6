// Package jobs provides the PostgreSQL-backed job queue table.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Enqueue(ctx context.Context, queue string, payload []byte) (int64, error) {
	query := `INSERT INTO jobs (queue, payload, visible_at) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, queue, payload, r.now().UTC()).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Claim locks the oldest ready job of queue, counts the delivery and hides
// the job for visibility. Concurrent consumers skip locked rows.
func (r *PostgresRepository) Claim(ctx context.Context, queue string, visibility time.Duration) (*models.Job, error) {
	now := r.now().UTC()
	query := `
		UPDATE jobs SET attempts = attempts + 1, visible_at = $3
		WHERE id = (
			SELECT id FROM jobs
			WHERE queue = $1 AND status = 'pending' AND visible_at <= $2
			ORDER BY id
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, queue, payload, attempts, status, last_error, created_at
	`
	job := &models.Job{}
	err := r.db.QueryRowContext(ctx, query, queue, now, now.Add(visibility)).
		Scan(&job.ID, &job.Queue, &job.Payload, &job.Attempts, &job.Status, &job.LastError, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorQueueEmpty
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id=$1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Retry makes the job visible again after delay.
func (r *PostgresRepository) Retry(ctx context.Context, id int64, delay time.Duration, lastError string) error {
	query := `UPDATE jobs SET visible_at=$2, last_error=$3 WHERE id=$1`
	return r.execOne(ctx, query, id, r.now().Add(delay).UTC(), lastError)
}

// Bury moves the job to the dead status where it is never delivered again.
func (r *PostgresRepository) Bury(ctx context.Context, id int64, lastError string) error {
	query := `UPDATE jobs SET status='dead', last_error=$2 WHERE id=$1`
	return r.execOne(ctx, query, id, lastError)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
