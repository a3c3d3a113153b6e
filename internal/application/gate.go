package application

import (
	"context"
	"sync"

	"github.com/confware/schedsync/internal/domain"
)

// ScheduleGate is a one-shot gate that fans out "the master schedule is
// loaded" to any number of waiters, regardless of whether they arrive before
// or after resolution. It decouples whoever fetches the schedule from
// whoever needs to know it is ready.
type ScheduleGate struct {
	mu       sync.Mutex
	done     chan struct{}
	bundle   *domain.ScheduleBundle
	resolved bool
}

func NewScheduleGate() *ScheduleGate {
	return &ScheduleGate{done: make(chan struct{})}
}

// Resolve settles the gate with bundle. Only the first call takes effect;
// later calls are no-ops against the already-settled gate.
func (g *ScheduleGate) Resolve(bundle *domain.ScheduleBundle) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolved {
		return
	}
	g.bundle = bundle
	g.resolved = true
	close(g.done)
}

// Await blocks until the gate resolves and returns the shared bundle. Every
// waiter observes the same value. Cancelling ctx unblocks only this waiter.
func (g *ScheduleGate) Await(ctx context.Context) (*domain.ScheduleBundle, error) {
	select {
	case <-g.done:
		return g.snapshot(), nil
	default:
	}

	select {
	case <-g.done:
		return g.snapshot(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolved reports whether the gate has settled.
func (g *ScheduleGate) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved
}

func (g *ScheduleGate) snapshot() *domain.ScheduleBundle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bundle
}
