package ports

import "context"

// FetchPhase labels the two deliveries of a cache-then-network fetch.
type FetchPhase int

const (
	// PhaseCache carries a possibly stale local snapshot.
	PhaseCache FetchPhase = iota
	// PhaseNetwork carries the authoritative server response.
	PhaseNetwork
)

func (p FetchPhase) String() string {
	if p == PhaseCache {
		return "cache"
	}
	return "network"
}

// Transport is the server-facing request capability. Failures are tagged at
// this boundary: a *domain.NetworkError when no response was obtained, a
// *domain.HTTPError when the server answered with a non-2xx status.
type Transport interface {
	// Request issues method against url and returns the response body.
	Request(ctx context.Context, method, url string, requiresAuth bool) ([]byte, error)

	// CacheThenNetwork fetches url, delivering up to two phases to deliver:
	// first PhaseCache with a local snapshot when one exists, then
	// PhaseNetwork with the server body. Zero deliveries (no snapshot, no
	// connectivity) is legal; the network failure is still returned so
	// callers can log it.
	CacheThenNetwork(ctx context.Context, url string, requiresAuth bool, deliver func(FetchPhase, []byte)) error
}
