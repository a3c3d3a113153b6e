package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confware/schedsync/internal/domain"
)

// ApplySavedSessions projects a set of bookmarked session ids onto the saved
// flags of the session list. Sessions outside the set are cleared, so an
// empty set resets every flag (the sign-out path). Idempotent.
func ApplySavedSessions(sessions []*domain.Session, saved map[domain.SessionID]struct{}) {
	for _, session := range sessions {
		_, ok := saved[session.ID]
		session.Saved = ok
	}
}

// Reconciler keeps the loaded master schedule's saved flags consistent with
// the user schedule cache.
type Reconciler struct {
	gate   *ScheduleGate
	cache  *UserScheduleCache
	logger *slog.Logger
}

func NewReconciler(gate *ScheduleGate, cache *UserScheduleCache, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{gate: gate, cache: cache, logger: logger}
}

// Refresh waits for the master schedule, fetches the user schedule
// cache-then-network, and paints the saved flags after each delivery. The
// stale delivery gives the UI a fast first paint; the network delivery
// corrects it.
func (r *Reconciler) Refresh(ctx context.Context) error {
	bundle, err := r.gate.Await(ctx)
	if err != nil {
		return fmt.Errorf("await schedule: %w", err)
	}

	err = r.cache.Fetch(ctx, func(ids map[domain.SessionID]struct{}, fresh bool) {
		ApplySavedSessions(bundle.Sessions, ids)
		r.logger.Debug("saved flags reconciled", "bookmarks", len(ids), "fresh", fresh)
	})
	if err != nil {
		return fmt.Errorf("refresh saved sessions: %w", err)
	}
	return nil
}

// ClearSaved resets every saved flag on the loaded schedule, used when the
// user signs out. Does nothing when the schedule has not loaded yet.
func (r *Reconciler) ClearSaved(ctx context.Context) {
	if !r.gate.Resolved() {
		return
	}
	bundle, err := r.gate.Await(ctx)
	if err != nil || bundle == nil {
		return
	}
	ApplySavedSessions(bundle.Sessions, nil)
}
