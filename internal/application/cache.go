package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

// UserScheduleCache holds the signed-in user's bookmarked session ids,
// populated cache-then-network. The in-memory set is only ever updated from
// the network-confirmed phase; stale snapshots are delivered to consumers
// but never become authoritative.
type UserScheduleCache struct {
	transport ports.Transport
	url       string
	logger    *slog.Logger

	mu     sync.Mutex
	ids    map[domain.SessionID]struct{}
	loaded bool
}

func NewUserScheduleCache(transport ports.Transport, url string, logger *slog.Logger) *UserScheduleCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserScheduleCache{
		transport: transport,
		url:       url,
		logger:    logger,
	}
}

// Fetch delivers the user's bookmarked session ids. With a warm, non-empty
// cache the single delivery is synchronous and no request is issued; an
// empty set is re-fetched. Otherwise deliver may be invoked zero, one, or
// two times: once with a stale local snapshot when one exists (fresh=false),
// then once with the server response (fresh=true). Zero deliveries means no
// connectivity and no snapshot; the underlying error is returned for logging
// but the cache stays empty rather than poisoned.
func (c *UserScheduleCache) Fetch(ctx context.Context, deliver func(ids map[domain.SessionID]struct{}, fresh bool)) error {
	c.mu.Lock()
	if c.loaded && len(c.ids) > 0 {
		ids := cloneIDs(c.ids)
		c.mu.Unlock()
		deliver(ids, true)
		return nil
	}
	c.mu.Unlock()

	err := c.transport.CacheThenNetwork(ctx, c.url, true, func(phase ports.FetchPhase, body []byte) {
		ids, decodeErr := decodeSessionIDs(body)
		if decodeErr != nil {
			c.logger.Warn("discarding undecodable user schedule payload",
				"phase", phase.String(), "error", decodeErr)
			return
		}

		if phase == ports.PhaseNetwork {
			c.mu.Lock()
			c.ids = cloneIDs(ids)
			c.loaded = true
			c.mu.Unlock()
		}
		deliver(ids, phase == ports.PhaseNetwork)
	})
	if err != nil {
		return fmt.Errorf("fetch user schedule: %w", err)
	}
	return nil
}

// Clear empties the cache so the next Fetch re-reads from the server.
// Clearing an already empty cache is a no-op.
func (c *UserScheduleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = nil
	c.loaded = false
}

// Snapshot returns a copy of the cached set, which may be empty.
func (c *UserScheduleCache) Snapshot() map[domain.SessionID]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneIDs(c.ids)
}

// Loaded reports whether a network-confirmed set is cached.
func (c *UserScheduleCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func decodeSessionIDs(body []byte) (map[domain.SessionID]struct{}, error) {
	ids := map[domain.SessionID]struct{}{}
	if len(body) == 0 {
		return ids, nil
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode session ids: %w", err)
	}
	for _, id := range raw {
		if id == "" {
			continue
		}
		ids[domain.SessionID(id)] = struct{}{}
	}
	return ids, nil
}

func cloneIDs(ids map[domain.SessionID]struct{}) map[domain.SessionID]struct{} {
	out := make(map[domain.SessionID]struct{}, len(ids))
	for id := range ids {
		out[id] = struct{}{}
	}
	return out
}
