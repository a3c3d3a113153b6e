// Package analytics ships usage events to the conference collector
// endpoint. Events are best-effort: failures are returned to the caller
// for logging but must never gate a user action.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/confware/schedsync/internal/ports"
)

const defaultEventTimeout = 5 * time.Second

type event struct {
	ClientID string `json:"client_id"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label,omitempty"`
	SentAt   string `json:"sent_at"`
}

// Collector posts events to a single collection URL. The client id is
// a random UUID generated per install (or per process when no id is
// supplied) so events are correlated without identifying the user.
type Collector struct {
	endpoint   string
	clientID   string
	httpClient *http.Client
	now        func() time.Time
}

var _ ports.Analytics = (*Collector)(nil)

type CollectorConfig struct {
	Endpoint   string
	ClientID   string
	HTTPClient *http.Client
}

func NewCollector(cfg CollectorConfig) *Collector {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultEventTimeout}
	}

	return &Collector{
		endpoint:   cfg.Endpoint,
		clientID:   clientID,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *Collector) TrackEvent(category, action, label string) error {
	if c.endpoint == "" {
		return nil
	}

	payload, err := json.Marshal(event{
		ClientID: c.clientID,
		Category: category,
		Action:   action,
		Label:    label,
		SentAt:   c.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode analytics event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultEventTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send analytics event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send analytics event: status %d", resp.StatusCode)
	}
	return nil
}
