package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

const (
	msgQueuedForRetry = "You're offline. Your schedule change was saved and will be applied next time you sync."
	msgMutationFailed = "Unable to update your schedule. Please try again."
	msgSignInToSave   = "Sign in to save sessions to your schedule."
	analyticsCategory = "schedule"
	analyticsBookmark = "bookmark"
	analyticsUnmark   = "unbookmark"
	userSchedulePath  = "api/v1/user/schedule"
)

// BookmarkService applies a single bookmark add/remove, classifies the
// outcome, and durably queues mutations that failed for connectivity
// reasons. Logical rejections from the server are never queued.
type BookmarkService struct {
	transport ports.Transport
	queue     ports.MutationQueue
	auth      ports.Auth
	cache     *UserScheduleCache
	notifier  ports.Notifier
	analytics ports.Analytics
	clock     ports.Clock
	baseURL   string
	logger    *slog.Logger
	onBusy    func(bool)
}

// BookmarkConfig collects the collaborators of a BookmarkService. Transport,
// Queue, Auth, and Cache are required; the rest default to no-ops.
type BookmarkConfig struct {
	Transport ports.Transport
	Queue     ports.MutationQueue
	Auth      ports.Auth
	Cache     *UserScheduleCache
	Notifier  ports.Notifier
	Analytics ports.Analytics
	Clock     ports.Clock
	BaseURL   string
	Logger    *slog.Logger
	OnBusy    func(busy bool)
}

func NewBookmarkService(cfg BookmarkConfig) *BookmarkService {
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = ports.NotifierFunc(func(string) {})
	}
	if cfg.OnBusy == nil {
		cfg.OnBusy = func(bool) {}
	}

	return &BookmarkService{
		transport: cfg.Transport,
		queue:     cfg.Queue,
		auth:      cfg.Auth,
		cache:     cfg.Cache,
		notifier:  cfg.Notifier,
		analytics: cfg.Analytics,
		clock:     cfg.Clock,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:    cfg.Logger,
		onBusy:    cfg.OnBusy,
	}
}

// SaveSession bookmarks (save=true) or un-bookmarks (save=false) a session.
// On success the user schedule cache is cleared to force a consistent
// re-fetch. A connectivity failure queues the mutation for replay and still
// returns the original error; a server rejection returns the error without
// queueing.
func (s *BookmarkService) SaveSession(ctx context.Context, sessionID domain.SessionID, save bool) error {
	s.trackEvent(sessionID, save)

	if _, err := s.auth.WaitForSignedIn(ctx, msgSignInToSave); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}

	method := domain.MethodDelete
	if save {
		method = domain.MethodPut
	}
	url := s.MutationURL(sessionID)

	s.onBusy(true)
	_, err := s.transport.Request(ctx, string(method), url, true)
	if err == nil {
		s.cache.Clear()
		s.onBusy(false)
		return nil
	}

	if domain.IsNetworkError(err) {
		queueErr := s.queue.Enqueue(ctx, domain.QueuedMutation{
			Key:      url,
			Method:   method,
			QueuedAt: s.clock.Now(),
		})
		s.onBusy(false)
		if queueErr != nil {
			s.logger.Error("failed to queue offline schedule change",
				"session", sessionID, "error", queueErr)
			s.notifier.ShowMessage(msgMutationFailed)
		} else {
			s.notifier.ShowMessage(msgQueuedForRetry)
		}
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}

	s.onBusy(false)
	s.notifier.ShowMessage(msgMutationFailed)
	return fmt.Errorf("save session %s: %w", sessionID, err)
}

// MutationURL returns the per-session mutation endpoint under the signed-in
// user's schedule.
func (s *BookmarkService) MutationURL(sessionID domain.SessionID) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, userSchedulePath, sessionID)
}

func (s *BookmarkService) trackEvent(sessionID domain.SessionID, save bool) {
	if s.analytics == nil {
		return
	}
	action := analyticsUnmark
	if save {
		action = analyticsBookmark
	}
	if err := s.analytics.TrackEvent(analyticsCategory, action, string(sessionID)); err != nil {
		s.logger.Debug("analytics event dropped", "action", action, "error", err)
	}
}

// SignedOutCleanup discards per-user state on sign-out: the in-memory cache
// and every queued mutation, since queued changes carry the previous user's
// intent.
func (s *BookmarkService) SignedOutCleanup(ctx context.Context) error {
	s.cache.Clear()
	if err := s.queue.Drop(ctx); err != nil {
		return fmt.Errorf("drop mutation queue: %w", err)
	}
	return nil
}
