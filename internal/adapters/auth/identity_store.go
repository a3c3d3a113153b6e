package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/confware/schedsync/internal/domain"
)

const (
	identityFileMode = 0o600
	identityDirMode  = 0o700
	identityTempGlob = ".identity-*.toml.tmp"
)

var ErrNoStoredIdentity = errors.New("no stored identity")

// StoredIdentity is the on-disk record written after a successful sign-in.
type StoredIdentity struct {
	Version     int       `toml:"version"`
	UserID      string    `toml:"user_id"`
	Email       string    `toml:"email"`
	AccessToken string    `toml:"access_token"`
	ExpiresAt   time.Time `toml:"expires_at"`
}

func (i StoredIdentity) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// IdentityStore persists the signed-in identity as a TOML file, written
// atomically with owner-only permissions.
type IdentityStore struct {
	path string
	mu   sync.RWMutex
}

func NewIdentityStore(path string) *IdentityStore {
	return &IdentityStore{path: filepath.Clean(path)}
}

func (s *IdentityStore) Load() (StoredIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StoredIdentity{}, ErrNoStoredIdentity
		}
		return StoredIdentity{}, fmt.Errorf("read identity file: %w", err)
	}

	var identity StoredIdentity
	if err := toml.Unmarshal(data, &identity); err != nil {
		return StoredIdentity{}, fmt.Errorf("decode identity file: %w", err)
	}
	if identity.AccessToken == "" {
		return StoredIdentity{}, ErrNoStoredIdentity
	}
	return identity, nil
}

func (s *IdentityStore) Save(identity StoredIdentity) error {
	if identity.Version == 0 {
		identity.Version = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), identityDirMode); err != nil {
		return fmt.Errorf("create identity directory: %w", err)
	}

	data, err := toml.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), identityTempGlob)
	if err != nil {
		return fmt.Errorf("create temp identity file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp identity file: %w", err)
	}
	if err := tempFile.Chmod(identityFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp identity file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp identity file: %w", err)
	}
	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace identity file: %w", err)
	}
	cleanup = false
	return nil
}

func (s *IdentityStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove identity file: %w", err)
	}
	return nil
}

func (i StoredIdentity) toDomain() domain.Identity {
	return domain.Identity{UserID: i.UserID, Email: i.Email}
}
