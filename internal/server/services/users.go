// Package services contains server-side business logic. UserService handles
// registration and session lifecycle, FileService the upload pipeline and
// file reads, StatusService health and counters.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *sessions.Store
	log         logging.Logger
	bcryptCost  int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, s *sessions.Store, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    s,
		log:         log,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// Register creates a user and queues the welcome job in one transaction.
// A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, common.NewValidationError("email", "Missing email")
	}
	if password == "" {
		return nil, common.NewValidationError("password", "Missing password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: string(hash)})
		if err != nil {
			return err
		}
		_, err = queue.Enqueue(ctx, s.repomanager.Jobs(tx), common.QueueWelcome, models.WelcomeTask{UserID: user.ID})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Connect checks the credentials and opens a session. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Connect(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		s.log.Error(ctx, "session issue failed", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

// Disconnect revokes the session behind token.
func (s *UserService) Disconnect(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves token to a user id.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	return s.sessions.Resolve(ctx, token)
}

// Me returns the user behind an authenticated id.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
