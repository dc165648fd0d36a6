package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

// WelcomeHandler greets newly registered users.
type WelcomeHandler struct {
	users users.Repository
	log   logging.Logger
}

func NewWelcomeHandler(u users.Repository, log logging.Logger) *WelcomeHandler {
	return &WelcomeHandler{users: u, log: log}
}

func (h *WelcomeHandler) Handle(ctx context.Context, job *models.Job) error {
	var task models.WelcomeTask
	if err := queue.Decode(job, &task); err != nil {
		return err
	}
	if task.UserID == 0 {
		return common.FatalJobError(errors.New("Missing userId"))
	}

	user, err := h.users.GetByID(ctx, task.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.RetryableJobError(errors.New("User not found"))
		}
		return common.RetryableJobError(err)
	}

	h.log.Info(ctx, fmt.Sprintf("Welcome %s!", user.Email), "user_id", user.ID)
	return nil
}
