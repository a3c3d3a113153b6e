package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

const (
	msgOfflineApplied = "Your schedule was updated with offline changes."
	msgOfflineFailed  = "Offline schedule changes could not be applied."
)

// ReplayEngine drains the durable mutation queue after connectivity and
// authentication return. Callers must only invoke Replay once signed in; the
// engine itself does not gate on auth. Replay is best-effort background
// reconciliation: nothing it does propagates an error to the caller.
type ReplayEngine struct {
	transport ports.Transport
	queue     ports.MutationQueue
	notifier  ports.Notifier
	logger    *slog.Logger
	enabled   bool
}

// NewReplayEngine builds an engine. enabled is the durable-queue capability
// flag: when false (the default for environments without durable storage)
// Replay is a no-op, since mutations could never have been queued.
func NewReplayEngine(transport ports.Transport, queue ports.MutationQueue, notifier ports.Notifier, logger *slog.Logger, enabled bool) *ReplayEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = ports.NotifierFunc(func(string) {})
	}
	return &ReplayEngine{
		transport: transport,
		queue:     queue,
		notifier:  notifier,
		logger:    logger,
		enabled:   enabled,
	}
}

// Replay re-issues every queued mutation concurrently and deletes the
// entries that succeed. Entries whose replay fails stay queued for a future
// pass; one stuck mutation never blocks the others. Exactly one aggregate
// notification is shown when at least one entry was attempted.
func (e *ReplayEngine) Replay(ctx context.Context) {
	if !e.enabled {
		return
	}

	mutations, err := e.queue.All(ctx)
	if err != nil {
		e.logger.Error("mutation queue unreadable", "error", err)
		e.notifier.ShowMessage(msgOfflineFailed)
		return
	}
	if len(mutations) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, mutation := range mutations {
		wg.Add(1)
		go func(m domain.QueuedMutation) {
			defer wg.Done()
			e.replayOne(ctx, m)
		}(mutation)
	}
	wg.Wait()

	e.notifier.ShowMessage(msgOfflineApplied)
}

func (e *ReplayEngine) replayOne(ctx context.Context, m domain.QueuedMutation) {
	if _, err := e.transport.Request(ctx, string(m.Method), m.Key, true); err != nil {
		e.logger.Warn("queued mutation still failing, leaving it queued",
			"key", m.Key, "method", m.Method, "error", err)
		return
	}
	if err := e.queue.Delete(ctx, m.Key); err != nil {
		// The mutation landed; a leftover entry replays harmlessly next pass.
		e.logger.Warn("replayed mutation could not be dequeued", "key", m.Key, "error", err)
	}
}

// ClearQueued discards the whole queue. Used at sign-out: queued mutations
// carry per-user intent that is invalid for another or anonymous user.
func (e *ReplayEngine) ClearQueued(ctx context.Context) error {
	return e.queue.Drop(ctx)
}
