// Package sessions issues and resolves opaque session tokens backed by the
// TTL key-value store. A token maps to a user id under the key auth_<token>.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/kvstore"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

const tokenBytes = 32

type Store struct {
	kv  kvstore.Repository
	ttl time.Duration
}

func NewStore(kv kvstore.Repository, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{kv: kv, ttl: ttl}
}

func key(token string) string {
	return common.SessionKeyPrefix + token
}

// Issue creates a new session for userID and returns its token.
func (s *Store) Issue(ctx context.Context, userID int64) (string, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("token generation error: %w", err)
	}
	if err := s.kv.Set(ctx, key(token), strconv.FormatInt(userID, 10), s.ttl); err != nil {
		return "", fmt.Errorf("session store error: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind token. Unknown, expired and revoked
// tokens yield common.ErrorUnauthorized.
func (s *Store) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	v, err := s.kv.Get(ctx, key(token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorUnauthorized
		}
		return 0, fmt.Errorf("session store error: %w", err)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorUnauthorized
	}
	return id, nil
}

// Revoke ends the session behind token. Revoking an unknown token is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, key(token)); err != nil {
		return fmt.Errorf("session store error: %w", err)
	}
	return nil
}

// Sweep drops expired sessions from the backing store.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	return s.kv.DeleteExpired(ctx)
}
