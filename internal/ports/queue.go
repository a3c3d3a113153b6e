package ports

import (
	"context"

	"github.com/confware/schedsync/internal/domain"
)

// MutationQueue durably stores bookmark mutations that failed while offline,
// keyed by mutation endpoint. Implementations must upsert on Enqueue so the
// queue never holds two entries for the same key.
type MutationQueue interface {
	Enqueue(ctx context.Context, mutation domain.QueuedMutation) error

	// All returns every queued mutation. Order is unspecified.
	All(ctx context.Context) ([]domain.QueuedMutation, error)

	// Delete removes the entry for key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Drop discards the entire queue.
	Drop(ctx context.Context) error
}
