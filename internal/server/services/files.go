package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/access"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
)

// UploadRequest carries a new file as received from a client. Data is the
// base64-encoded content and is ignored for folders.
type UploadRequest struct {
	Name     string
	Type     string
	ParentID int64
	IsPublic bool
	Data     string
}

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.BlobStore
	queue       *queue.Queue
	log         logging.Logger
	now         func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.BlobStore, q *queue.Queue, log logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		queue:       q,
		log:         log,
		now:         time.Now,
	}
}

func (s *FileService) validate(req *UploadRequest) (models.FileType, []byte, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", nil, common.NewValidationError("name", "Missing name")
	}
	t := models.FileType(req.Type)
	if !t.Valid() {
		return "", nil, common.NewValidationError("type", "Missing type")
	}
	if !t.HasContent() {
		return t, nil, nil
	}
	if req.Data == "" {
		return "", nil, common.NewValidationError("data", "Missing data")
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return "", nil, common.NewValidationError("data", "Invalid data")
	}
	return t, data, nil
}

func (s *FileService) checkParent(ctx context.Context, userID, parentID int64) error {
	if parentID == models.RootParentID {
		return nil
	}
	parent, err := s.repomanager.Files(s.db).GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewValidationError("parentId", "Parent not found")
		}
		return fmt.Errorf("error loading parent: %w", err)
	}
	if parent.UserID != userID {
		return common.NewValidationError("parentId", "Parent not found")
	}
	if !access.CanCreateUnder(parent, userID) {
		return common.NewValidationError("parentId", "Parent is not a folder")
	}
	return nil
}

// Upload validates req, writes the content blob, then the metadata, and
// finally queues a thumbnail job for images. The metadata is only written
// after the blob is stored, and a failed enqueue does not fail the upload.
func (s *FileService) Upload(ctx context.Context, userID int64, req UploadRequest) (*models.File, error) {
	t, data, err := s.validate(&req)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, userID, req.ParentID); err != nil {
		return nil, err
	}

	file := &models.File{
		UserID:   userID,
		Name:     req.Name,
		Type:     t,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}

	if t.HasContent() {
		file.StorageKey = blobstore.NewStorageKey(s.now())
		if err := s.blobs.Put(ctx, file.StorageKey, data); err != nil {
			return nil, fmt.Errorf("error storing content: %w", err)
		}
	}

	file, err = s.repomanager.Files(s.db).Create(ctx, file)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidParent) {
			return nil, common.NewValidationError("parentId", "Parent not found")
		}
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	if t == models.FileTypeImage {
		task := models.ThumbnailTask{UserID: userID, FileID: file.ID}
		if _, err := s.queue.Enqueue(ctx, common.QueueThumbnails, task); err != nil {
			s.log.Error(ctx, "thumbnail enqueue failed", "file_id", file.ID, "error", err)
		}
	}

	s.log.Info(ctx, "file created", "file_id", file.ID, "user_id", userID, "type", string(t))
	return file, nil
}

// Get returns file id if requesterID may read it. Unreadable files are
// reported as common.ErrorNotFound.
func (s *FileService) Get(ctx context.Context, requesterID, id int64) (*models.File, error) {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanRead(file, requesterID) {
		return nil, common.ErrorNotFound
	}
	return file, nil
}

// List returns one page of userID's files under parentID.
func (s *FileService) List(ctx context.Context, userID, parentID int64, page int) ([]*models.File, error) {
	return s.repomanager.Files(s.db).ListChildren(ctx, userID, parentID, page)
}

// SetVisibility publishes or unpublishes a file owned by userID.
func (s *FileService) SetVisibility(ctx context.Context, userID, id int64, public bool) (*models.File, error) {
	return s.repomanager.Files(s.db).SetVisibility(ctx, userID, id, public)
}

// Content returns the bytes and MIME type of a file or, when size is not
// zero, of its size-pixel rendition.
func (s *FileService) Content(ctx context.Context, requesterID, id int64, size int) ([]byte, string, error) {
	file, err := s.Get(ctx, requesterID, id)
	if err != nil {
		return nil, "", err
	}
	if file.IsFolder() {
		return nil, "", common.NewValidationError("id", "A folder doesn't have content")
	}

	key := file.StorageKey
	if size != 0 {
		if !slices.Contains(common.ThumbnailWidths, size) {
			return nil, "", common.NewValidationError("size", "Invalid size")
		}
		key = models.RenditionKey(file.StorageKey, size)
	}

	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType(file.Name), nil
}

func mimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
