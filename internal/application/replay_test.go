package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/confware/schedsync/internal/adapters/queue/memory"
	"github.com/confware/schedsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queuedFixture(t *testing.T, queue *fakeQueue, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, queue.Enqueue(context.Background(), domain.QueuedMutation{
			Key:    key,
			Method: domain.MethodPut,
		}))
	}
}

func TestReplayEmptyQueueEmitsNothing(t *testing.T) {
	transport := &fakeTransport{}
	queue := newFakeQueue()
	notifier := &fakeNotifier{}
	engine := NewReplayEngine(transport, queue, notifier, nil, true)

	engine.Replay(context.Background())

	assert.Empty(t, notifier.shown())
	assert.Empty(t, transport.recorded())
}

func TestReplayDrainsQueueAndNotifiesOnce(t *testing.T) {
	transport := &fakeTransport{}
	queue := newFakeQueue()
	notifier := &fakeNotifier{}
	engine := NewReplayEngine(transport, queue, notifier, nil, true)
	queuedFixture(t, queue, "https://api.example.com/api/v1/user/schedule/s-1",
		"https://api.example.com/api/v1/user/schedule/s-2",
		"https://api.example.com/api/v1/user/schedule/s-3")

	engine.Replay(context.Background())

	assert.Empty(t, queue.snapshot())
	assert.Len(t, transport.recorded(), 3)
	require.Len(t, notifier.shown(), 1)
	assert.Equal(t, msgOfflineApplied, notifier.shown()[0])
}

func TestReplayPartialFailureLeavesFailedEntryQueued(t *testing.T) {
	transport := &fakeTransport{}
	transport.respond = func(_, url string) ([]byte, error) {
		if strings.HasSuffix(url, "/s-2") {
			return nil, &domain.NetworkError{URL: url, Err: errors.New("still offline")}
		}
		return nil, nil
	}
	queue := newFakeQueue()
	notifier := &fakeNotifier{}
	engine := NewReplayEngine(transport, queue, notifier, nil, true)
	queuedFixture(t, queue, "https://api.example.com/api/v1/user/schedule/s-1",
		"https://api.example.com/api/v1/user/schedule/s-2")

	engine.Replay(context.Background())

	remaining := queue.snapshot()
	require.Len(t, remaining, 1)
	assert.Contains(t, remaining, "https://api.example.com/api/v1/user/schedule/s-2")

	// One stuck entry does not suppress the aggregate notification.
	require.Len(t, notifier.shown(), 1)
	assert.Equal(t, msgOfflineApplied, notifier.shown()[0])
}

func TestReplayUsesStoredMethodWithCredentials(t *testing.T) {
	transport := &fakeTransport{}
	queue := newFakeQueue()
	engine := NewReplayEngine(transport, queue, nil, nil, true)
	require.NoError(t, queue.Enqueue(context.Background(), domain.QueuedMutation{
		Key:    "https://api.example.com/api/v1/user/schedule/s-1",
		Method: domain.MethodDelete,
	}))

	engine.Replay(context.Background())

	requests := transport.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "DELETE", requests[0].Method)
	assert.True(t, requests[0].Auth)
}

func TestReplayQueueCorruptionNotifiesAndReturns(t *testing.T) {
	transport := &fakeTransport{}
	queue := newFakeQueue()
	queue.allErr = errors.New("database disk image is malformed")
	notifier := &fakeNotifier{}
	engine := NewReplayEngine(transport, queue, notifier, nil, true)

	engine.Replay(context.Background())

	require.Len(t, notifier.shown(), 1)
	assert.Equal(t, msgOfflineFailed, notifier.shown()[0])
	assert.Empty(t, transport.recorded())
}

func TestReplayDisabledCapabilityIsNoOp(t *testing.T) {
	transport := &fakeTransport{}
	queue := newFakeQueue()
	notifier := &fakeNotifier{}
	engine := NewReplayEngine(transport, queue, notifier, nil, false)
	queuedFixture(t, queue, "https://api.example.com/api/v1/user/schedule/s-1")

	engine.Replay(context.Background())

	assert.Empty(t, transport.recorded())
	assert.Empty(t, notifier.shown())
	assert.Len(t, queue.snapshot(), 1)
}

// Round-trips an offline save through a real queue implementation: the
// coordinator enqueues on a network-class failure, replay drains the store.
func TestOfflineSaveThenReplayThroughMemoryQueue(t *testing.T) {
	store := memory.NewStore()
	offline := true
	transport := &fakeTransport{}
	transport.respond = func(_, url string) ([]byte, error) {
		if offline {
			return nil, &domain.NetworkError{URL: url, Err: errors.New("connection refused")}
		}
		return nil, nil
	}
	notifier := &fakeNotifier{}
	cache := NewUserScheduleCache(transport, "https://api.example.com/api/v1/user/schedule", nil)
	service := NewBookmarkService(BookmarkConfig{
		Transport: transport,
		Queue:     store,
		Auth:      &fakeAuth{identity: domain.Identity{UserID: "u-1"}},
		Cache:     cache,
		Notifier:  notifier,
		BaseURL:   "https://api.example.com",
	})

	err := service.SaveSession(context.Background(), "s-1", true)
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
	assert.Equal(t, 1, store.Len())

	offline = false
	engine := NewReplayEngine(transport, store, notifier, nil, true)
	engine.Replay(context.Background())

	assert.Zero(t, store.Len())
	shown := notifier.shown()
	require.Len(t, shown, 2)
	assert.Equal(t, msgQueuedForRetry, shown[0])
	assert.Equal(t, msgOfflineApplied, shown[1])
}

func TestClearQueuedDropsEverything(t *testing.T) {
	queue := newFakeQueue()
	engine := NewReplayEngine(&fakeTransport{}, queue, nil, nil, true)
	queuedFixture(t, queue, "a", "b")

	require.NoError(t, engine.ClearQueued(context.Background()))
	assert.Empty(t, queue.snapshot())
}
