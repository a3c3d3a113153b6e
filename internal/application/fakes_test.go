package application

import (
	"context"
	"sync"
	"time"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

type recordedRequest struct {
	Method string
	URL    string
	Auth   bool
}

// fakeTransport scripts responses per URL and records every request.
type fakeTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(method, url string) ([]byte, error)

	cacheBody   []byte
	hasCache    bool
	networkBody []byte
	networkErr  error
}

func (f *fakeTransport) Request(_ context.Context, method, url string, requiresAuth bool) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: method, URL: url, Auth: requiresAuth})
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return nil, nil
	}
	return respond(method, url)
}

func (f *fakeTransport) CacheThenNetwork(_ context.Context, url string, _ bool, deliver func(ports.FetchPhase, []byte)) error {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: "GET", URL: url, Auth: true})
	f.mu.Unlock()

	if f.hasCache {
		deliver(ports.PhaseCache, f.cacheBody)
	}
	if f.networkErr != nil {
		return f.networkErr
	}
	deliver(ports.PhaseNetwork, f.networkBody)
	return nil
}

func (f *fakeTransport) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// fakeQueue is an in-memory ports.MutationQueue with error injection.
type fakeQueue struct {
	mu         sync.Mutex
	entries    map[string]domain.QueuedMutation
	enqueueErr error
	allErr     error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{entries: map[string]domain.QueuedMutation{}}
}

func (q *fakeQueue) Enqueue(_ context.Context, m domain.QueuedMutation) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[m.Key] = m
	return nil
}

func (q *fakeQueue) All(_ context.Context) ([]domain.QueuedMutation, error) {
	if q.allErr != nil {
		return nil, q.allErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.QueuedMutation, 0, len(q.entries))
	for _, m := range q.entries {
		out = append(out, m)
	}
	return out, nil
}

func (q *fakeQueue) Delete(_ context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, key)
	return nil
}

func (q *fakeQueue) Drop(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = map[string]domain.QueuedMutation{}
	return nil
}

func (q *fakeQueue) snapshot() map[string]domain.QueuedMutation {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make(map[string]domain.QueuedMutation, len(q.entries))
	for k, v := range q.entries {
		out[k] = v
	}
	return out
}

type fakeAuth struct {
	identity domain.Identity
	err      error
}

func (a *fakeAuth) WaitForSignedIn(context.Context, string) (domain.Identity, error) {
	if a.err != nil {
		return domain.Identity{}, a.err
	}
	return a.identity, nil
}

func (a *fakeAuth) SignedIn() bool { return a.err == nil }

func (a *fakeAuth) SignOut() error { return nil }

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) ShowMessage(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

func (n *fakeNotifier) shown() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fakeAnalytics struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (a *fakeAnalytics) TrackEvent(category, action, label string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, category+"/"+action+"/"+label)
	return a.err
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var _ ports.Transport = (*fakeTransport)(nil)
var _ ports.MutationQueue = (*fakeQueue)(nil)
var _ ports.Auth = (*fakeAuth)(nil)
var _ ports.Analytics = (*fakeAnalytics)(nil)
