package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
)

// Status reports whether the backing stores answer.
type Status struct {
	DB bool `json:"db"`
	KV bool `json:"kv"`
}

// Stats holds global counters.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type StatusService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatusService(db *sql.DB, m repomanager.RepositoryManager) *StatusService {
	return &StatusService{db: db, repomanager: m}
}

func (s *StatusService) Status(ctx context.Context) Status {
	st := Status{DB: s.db.PingContext(ctx) == nil}
	_, err := s.repomanager.KV(s.db).Get(ctx, "status_probe")
	st.KV = err == nil || errors.Is(err, common.ErrorNotFound)
	return st
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Files: files}, nil
}
