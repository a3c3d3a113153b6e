package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

// Service implements ports.Auth on top of the identity store. It is
// deliberately non-interactive: sign-in happens through the login command,
// so WaitForSignedIn rejects (rather than blocks) when no identity is
// stored, surfacing the prompt text for the caller's UI.
type Service struct {
	store *IdentityStore
	now   func() time.Time
}

var _ ports.Auth = (*Service)(nil)

func NewService(store *IdentityStore) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) WaitForSignedIn(_ context.Context, prompt string) (domain.Identity, error) {
	identity, err := s.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoStoredIdentity) {
			if prompt == "" {
				return domain.Identity{}, domain.ErrSignInDeclined
			}
			return domain.Identity{}, fmt.Errorf("%w: %s", domain.ErrSignInDeclined, prompt)
		}
		return domain.Identity{}, fmt.Errorf("load identity: %w", err)
	}
	if identity.expired(s.now()) {
		return domain.Identity{}, fmt.Errorf("%w: session expired, sign in again", domain.ErrSignInDeclined)
	}
	return identity.toDomain(), nil
}

func (s *Service) SignedIn() bool {
	identity, err := s.store.Load()
	return err == nil && !identity.expired(s.now())
}

func (s *Service) SignOut() error {
	return s.store.Delete()
}

// AccessToken implements the REST transport's token source.
func (s *Service) AccessToken() (string, error) {
	identity, err := s.store.Load()
	if err != nil {
		return "", err
	}
	if identity.expired(s.now()) {
		return "", errors.New("stored access token expired")
	}
	return identity.AccessToken, nil
}

// CompleteSignIn persists the identity delivered by a finished device flow.
func (s *Service) CompleteSignIn(token TokenResult) (domain.Identity, error) {
	identity := StoredIdentity{
		UserID:      token.UserID,
		Email:       token.Email,
		AccessToken: token.AccessToken,
	}
	if token.ExpiresIn > 0 {
		identity.ExpiresAt = s.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	if err := s.store.Save(identity); err != nil {
		return domain.Identity{}, fmt.Errorf("persist identity: %w", err)
	}
	return identity.toDomain(), nil
}
