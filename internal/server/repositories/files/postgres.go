// Package files provides the PostgreSQL-backed file metadata repository.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, user_id, name, type, parent_id, is_public, COALESCE(storage_key, ''), created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	f := &models.File{}
	err := s.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.ParentID, &f.IsPublic, &f.StorageKey, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts the file only when its parent is the root or a folder owned
// by the same user. The parent check and the insert happen in one statement.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (user_id, name, type, parent_id, is_public, storage_key)
		SELECT $1, $2, $3, $4, $5, NULLIF($6, '')
		WHERE $4::bigint = 0 OR EXISTS (
			SELECT 1 FROM files p
			WHERE p.id = $4 AND p.user_id = $1 AND p.type = 'folder'
		)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, string(file.Type), file.ParentID, file.IsPublic, file.StorageKey).
		Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorInvalidParent
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id=$1`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListChildren returns one page of userID's files under parentID, newest first.
// Pages are zero-based and hold common.PageSize items.
func (r *PostgresRepository) ListChildren(ctx context.Context, userID, parentID int64, page int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	query := `SELECT ` + selectColumns + ` FROM files
		WHERE user_id=$1 AND parent_id=$2
		ORDER BY id DESC
		LIMIT $3 OFFSET $4
		`
	rows, err := r.db.QueryContext(ctx, query, userID, parentID, common.PageSize, page*common.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetVisibility flips is_public on a file owned by userID and returns the
// updated row. Files of other users are reported as common.ErrorNotFound.
func (r *PostgresRepository) SetVisibility(ctx context.Context, userID, id int64, public bool) (*models.File, error) {
	query := `UPDATE files SET is_public=$3
		WHERE id=$1 AND user_id=$2
		RETURNING ` + selectColumns

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id, userID, public))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
