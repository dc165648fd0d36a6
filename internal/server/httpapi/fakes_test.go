package httpapi

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

const (
	testToken  = "auth_token"
	testUserID = int64(7)
)

type fakeUsers struct {
	mu           sync.Mutex
	registerErr  error
	disconnected []string
}

func (f *fakeUsers) Register(_ context.Context, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if email == "" {
		return nil, common.NewValidationError("email", "Missing email")
	}
	return &models.User{ID: testUserID, Email: email}, nil
}

func (f *fakeUsers) Connect(_ context.Context, email, password string) (string, error) {
	if email == "a@b.c" && password == "secret" {
		return testToken, nil
	}
	return "", common.ErrorUnauthorized
}

func (f *fakeUsers) Disconnect(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, token)
	return nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (int64, error) {
	if token == testToken {
		return testUserID, nil
	}
	return 0, common.ErrorUnauthorized
}

func (f *fakeUsers) Me(_ context.Context, userID int64) (*models.User, error) {
	return &models.User{ID: userID, Email: "a@b.c"}, nil
}

type listCall struct {
	userID, parentID int64
	page             int
}

type contentCall struct {
	requester, id int64
	size          int
}

type fakeFiles struct {
	mu         sync.Mutex
	uploaded   []services.UploadRequest
	lists      []listCall
	contents   []contentCall
	visibility map[int64]bool
	err        error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{visibility: map[int64]bool{}}
}

func (f *fakeFiles) file(id, userID int64) *models.File {
	return &models.File{
		ID:         id,
		UserID:     userID,
		Name:       "photo.png",
		Type:       models.FileTypeImage,
		ParentID:   models.RootParentID,
		IsPublic:   f.visibility[id],
		StorageKey: "files/secret-key",
	}
}

func (f *fakeFiles) Upload(_ context.Context, userID int64, req services.UploadRequest) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = append(f.uploaded, req)
	return &models.File{
		ID:       1,
		UserID:   userID,
		Name:     req.Name,
		Type:     models.FileType(req.Type),
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}, nil
}

func (f *fakeFiles) Get(_ context.Context, requesterID, id int64) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if id != 1 {
		return nil, common.ErrorNotFound
	}
	return f.file(id, requesterID), nil
}

func (f *fakeFiles) List(_ context.Context, userID, parentID int64, page int) ([]*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lists = append(f.lists, listCall{userID: userID, parentID: parentID, page: page})
	if page > 0 {
		return []*models.File{}, nil
	}
	return []*models.File{f.file(2, userID), f.file(1, userID)}, nil
}

func (f *fakeFiles) SetVisibility(_ context.Context, userID, id int64, public bool) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != 1 {
		return nil, common.ErrorNotFound
	}
	f.visibility[id] = public
	return f.file(id, userID), nil
}

func (f *fakeFiles) Content(_ context.Context, requesterID, id int64, size int) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents = append(f.contents, contentCall{requester: requesterID, id: id, size: size})
	if id != 1 {
		return nil, "", common.ErrorNotFound
	}
	if size != 0 && size != 100 {
		return nil, "", common.NewValidationError("size", "Invalid size")
	}
	return []byte("png-bytes"), "image/png", nil
}

type fakeStatus struct {
	statsErr error
}

func (f *fakeStatus) Status(context.Context) services.Status {
	return services.Status{DB: true, KV: false}
}

func (f *fakeStatus) Stats(context.Context) (*services.Stats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &services.Stats{Users: 3, Files: 9}, nil
}
