package worker

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

type fakeFiles struct {
	mu    sync.Mutex
	files map[int64]*models.File
}

func (f *fakeFiles) Create(context.Context, *models.File) (*models.File, error) {
	panic("not used")
}

func (f *fakeFiles) GetByID(_ context.Context, id int64) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFiles) ListChildren(context.Context, int64, int64, int) ([]*models.File, error) {
	return nil, nil
}

func (f *fakeFiles) SetVisibility(context.Context, int64, int64, bool) (*models.File, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeFiles) Count(context.Context) (int64, error) { return int64(len(f.files)), nil }

type fakeUsers struct {
	users map[int64]*models.User
}

func (f *fakeUsers) Create(context.Context, *models.User) (*models.User, error) { panic("not used") }
func (f *fakeUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}
func (f *fakeUsers) Count(context.Context) (int64, error) { return int64(len(f.users)), nil }
