package rest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	snapshotDirMode  = 0o700
	snapshotFileMode = 0o600
)

// snapshotStore keeps the last successful response body per URL so a
// cache-then-network fetch can serve a stale first paint while offline.
type snapshotStore struct {
	root string
	mu   sync.RWMutex
}

func newSnapshotStore(root string) *snapshotStore {
	return &snapshotStore{root: filepath.Clean(root)}
}

func (s *snapshotStore) read(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.pathFor(url))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *snapshotStore) write(url string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, snapshotDirMode); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	path := s.pathFor(url)
	tempFile, err := os.CreateTemp(s.root, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(body); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tempFile.Chmod(snapshotFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	cleanup = false
	return nil
}

func (s *snapshotStore) remove(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.pathFor(url))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

func (s *snapshotStore) pathFor(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(s.root, hex.EncodeToString(sum[:16])+".json")
}
