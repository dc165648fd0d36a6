package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

type Repository interface {
	// Create inserts file and fills its ID and CreatedAt. A non-root parent
	// must be a folder owned by file.UserID, otherwise common.ErrorInvalidParent.
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)
	ListChildren(ctx context.Context, userID, parentID int64, page int) ([]*models.File, error)
	SetVisibility(ctx context.Context, userID, id int64, public bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
