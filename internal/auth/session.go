package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

// ErrUnknownUser is returned for a validly signed token whose user no longer exists.
var ErrUnknownUser = fmt.Errorf("%w: user no longer exists", ErrInvalidToken)

type UserLookup interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

// Sessions verifies a bearer token and resolves its subject against the user store,
// so deletions and role changes take effect before the token expires.
type Sessions struct {
	tokens *Tokens
	users  UserLookup
}

func NewSessions(tokens *Tokens, users UserLookup) *Sessions {
	return &Sessions{tokens: tokens, users: users}
}

func (s *Sessions) Verify(ctx context.Context, token string) (Principal, error) {
	claimed, err := s.tokens.Verify(token)
	if err != nil {
		return Principal{}, err
	}
	u, err := s.users.Get(ctx, claimed.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, ErrUnknownUser
		}
		return Principal{}, fmt.Errorf("failed to load user %s: %w", claimed.UserID, err)
	}
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}
