package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/kvstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64
	err    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.byID)), nil
}

type fakeFilesRepo struct {
	mu        sync.Mutex
	byID      map[int64]*models.File
	nextID    int64
	createErr error
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{byID: map[int64]*models.File{}}
}

func (f *fakeFilesRepo) Create(_ context.Context, file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if file.ParentID != models.RootParentID {
		p, ok := f.byID[file.ParentID]
		if !ok || p.UserID != file.UserID || !p.IsFolder() {
			return nil, common.ErrorInvalidParent
		}
	}
	f.nextID++
	cp := *file
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeFilesRepo) GetByID(_ context.Context, id int64) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFilesRepo) ListChildren(_ context.Context, userID, parentID int64, page int) ([]*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.File
	for _, file := range f.byID {
		if file.UserID == userID && file.ParentID == parentID {
			cp := *file
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	start := page * common.PageSize
	if start >= len(all) {
		return []*models.File{}, nil
	}
	end := min(start+common.PageSize, len(all))
	return all[start:end], nil
}

func (f *fakeFilesRepo) SetVisibility(_ context.Context, userID, id int64, public bool) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.byID[id]
	if !ok || file.UserID != userID {
		return nil, common.ErrorNotFound
	}
	file.IsPublic = public
	cp := *file
	return &cp, nil
}

func (f *fakeFilesRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	files *fakeFilesRepo
	jobs  jobs.Repository
	kv    kvstore.Repository
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: newFakeUsersRepo(),
		files: newFakeFilesRepo(),
		jobs:  jobs.NewMemoryRepository(),
		kv:    kvstore.NewMemoryRepository(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return m.files }
func (m *fakeRepoManager) Jobs(dbx.DBTX) jobs.Repository               { return m.jobs }
func (m *fakeRepoManager) KV(dbx.DBTX) kvstore.Repository              { return m.kv }

type failingJobs struct{ jobs.Repository }

func (failingJobs) Enqueue(context.Context, string, []byte) (int64, error) {
	return 0, errors.New("queue down")
}

type failingBlobs struct{ blobstore.BlobStore }

func (failingBlobs) Put(context.Context, string, []byte) error {
	return fmt.Errorf("%w: disk full", common.ErrorTransientStorage)
}
