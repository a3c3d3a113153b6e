// Package rest implements ports.Transport against the conference API over
// HTTP. Failure classification happens here, once: a request that never
// obtained a response yields *domain.NetworkError, a non-2xx response yields
// *domain.HTTPError. Everything above this layer consumes those as data.
package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

const maxResponseBytes = 8 << 20

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	AccessToken() (string, error)
}

type Client struct {
	httpClient     *http.Client
	tokens         TokenSource
	snapshots      *snapshotStore
	logger         *slog.Logger
	requestTimeout time.Duration
}

// Config for the REST client. SnapshotDir backs the cache-then-network stale
// phase; empty disables local snapshots (the stale phase then never fires).
type Config struct {
	HTTPClient     *http.Client
	Tokens         TokenSource
	SnapshotDir    string
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	var snapshots *snapshotStore
	if cfg.SnapshotDir != "" {
		snapshots = newSnapshotStore(cfg.SnapshotDir)
	}

	return &Client{
		httpClient:     cfg.HTTPClient,
		tokens:         cfg.Tokens,
		snapshots:      snapshots,
		logger:         cfg.Logger,
		requestTimeout: cfg.RequestTimeout,
	}
}

var _ ports.Transport = (*Client)(nil)

// Request issues method against url and returns the response body. The
// returned error is a *domain.NetworkError when no response was obtained and
// a *domain.HTTPError for non-2xx statuses.
func (c *Client) Request(ctx context.Context, method, url string, requiresAuth bool) ([]byte, error) {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if requiresAuth {
		if err := c.authorize(req); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &domain.HTTPError{Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.NetworkError{URL: url, Err: err}
	}
	return body, nil
}

// CacheThenNetwork delivers a local snapshot of url first (when one exists),
// then the live response, persisting it as the next snapshot. A network
// failure after a snapshot delivery still returns the error; the caller
// decides whether one delivery was enough.
func (c *Client) CacheThenNetwork(ctx context.Context, url string, requiresAuth bool, deliver func(ports.FetchPhase, []byte)) error {
	if c.snapshots != nil {
		if stale, ok := c.snapshots.read(url); ok {
			deliver(ports.PhaseCache, stale)
		}
	}

	body, err := c.Request(ctx, http.MethodGet, url, requiresAuth)
	if err != nil {
		return err
	}

	if c.snapshots != nil {
		if writeErr := c.snapshots.write(url, body); writeErr != nil {
			c.logger.Warn("response snapshot not persisted", "url", url, "error", writeErr)
		}
	}
	deliver(ports.PhaseNetwork, body)
	return nil
}

// ForgetSnapshot drops the local snapshot for url. Called at sign-out so a
// stale per-user response never paints for the next identity.
func (c *Client) ForgetSnapshot(url string) error {
	if c.snapshots == nil {
		return nil
	}
	return c.snapshots.remove(url)
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return domain.ErrAuthRequired
	}
	token, err := c.tokens.AccessToken()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}
