package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/imaging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
)

// ThumbnailHandler renders the fixed-width renditions of an uploaded image.
// Renditions are pure functions of the original, so a redelivered job
// simply overwrites them with identical bytes.
type ThumbnailHandler struct {
	files  files.Repository
	blobs  blobstore.BlobStore
	log    logging.Logger
	resize func(data []byte, width int) ([]byte, error)
}

func NewThumbnailHandler(f files.Repository, b blobstore.BlobStore, log logging.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{files: f, blobs: b, log: log, resize: imaging.Resize}
}

func (h *ThumbnailHandler) Handle(ctx context.Context, job *models.Job) error {
	var task models.ThumbnailTask
	if err := queue.Decode(job, &task); err != nil {
		return err
	}
	if task.FileID == 0 {
		return common.FatalJobError(errors.New("Missing fileId"))
	}
	if task.UserID == 0 {
		return common.FatalJobError(errors.New("Missing userId"))
	}

	file, err := h.files.GetByID(ctx, task.FileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.RetryableJobError(errors.New("File not found"))
		}
		return common.RetryableJobError(err)
	}
	if file.UserID != task.UserID {
		return common.RetryableJobError(errors.New("File not found"))
	}
	if file.Type != models.FileTypeImage {
		return common.FatalJobError(fmt.Errorf("file %d is not an image", file.ID))
	}

	original, err := h.blobs.Get(ctx, file.StorageKey)
	if err != nil {
		return common.RetryableJobError(fmt.Errorf("read original: %w", err))
	}

	for _, width := range common.ThumbnailWidths {
		out, err := h.resize(original, width)
		if err != nil {
			return common.RetryableJobError(fmt.Errorf("render %dpx: %w", width, err))
		}
		if err := h.blobs.Put(ctx, models.RenditionKey(file.StorageKey, width), out); err != nil {
			return common.RetryableJobError(fmt.Errorf("store %dpx: %w", width, err))
		}
	}

	h.log.Info(ctx, "thumbnails generated", "file_id", file.ID, "widths", common.ThumbnailWidths)
	return nil
}
