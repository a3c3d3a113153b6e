// Package memory is a process-local ports.MutationQueue for tests and for
// environments without durable storage.
package memory

import (
	"context"
	"sync"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]domain.QueuedMutation
}

var _ ports.MutationQueue = (*Store)(nil)

func NewStore() *Store {
	return &Store{entries: map[string]domain.QueuedMutation{}}
}

func (s *Store) Enqueue(_ context.Context, m domain.QueuedMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[m.Key] = m
	return nil
}

func (s *Store) All(context.Context) ([]domain.QueuedMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.QueuedMutation, 0, len(s.entries))
	for _, m := range s.entries {
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *Store) Drop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]domain.QueuedMutation{}
	return nil
}

// Len reports the number of queued entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
