package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

const schedulePath = "api/v1/schedule"

// ScheduleService loads the published master schedule and resolves the
// schedule gate for everyone waiting on it.
type ScheduleService struct {
	transport ports.Transport
	gate      *ScheduleGate
	baseURL   string
	logger    *slog.Logger
}

func NewScheduleService(transport ports.Transport, gate *ScheduleGate, baseURL string, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{
		transport: transport,
		gate:      gate,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger,
	}
}

// Load fetches the schedule, derives the filter facets, and resolves the
// gate. Calling Load again refetches but cannot re-resolve an already
// settled gate.
func (s *ScheduleService) Load(ctx context.Context) (*domain.ScheduleBundle, error) {
	url := s.baseURL + "/" + schedulePath
	body, err := s.transport.Request(ctx, "GET", url, false)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	bundle, err := decodeScheduleBundle(body)
	if err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	s.gate.Resolve(bundle)
	s.logger.Info("schedule loaded", "sessions", len(bundle.Sessions), "tags", len(bundle.Tags))
	return bundle, nil
}

// Await exposes the gate to consumers that only need the loaded bundle.
func (s *ScheduleService) Await(ctx context.Context) (*domain.ScheduleBundle, error) {
	return s.gate.Await(ctx)
}

type scheduleSchema struct {
	Sessions []sessionSchema `json:"sessions"`
	Tags     []tagSchema     `json:"tags"`
}

type sessionSchema struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Room     string   `json:"room"`
	Day      string   `json:"day"`
	Start    string   `json:"startTime"`
	End      string   `json:"endTime"`
	Speakers []string `json:"speakers"`
	Tags     []string `json:"tags"`
}

type tagSchema struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	OrderInCategory int    `json:"order_in_category"`
}

func decodeScheduleBundle(body []byte) (*domain.ScheduleBundle, error) {
	var schema scheduleSchema
	if err := json.Unmarshal(body, &schema); err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(schema.Sessions))
	for _, entry := range schema.Sessions {
		sessions = append(sessions, &domain.Session{
			ID:       domain.SessionID(entry.ID),
			Title:    entry.Title,
			Room:     entry.Room,
			Day:      entry.Day,
			Start:    parseSessionTime(entry.Start),
			End:      parseSessionTime(entry.End),
			Speakers: entry.Speakers,
			Tags:     entry.Tags,
		})
	}

	tags := make([]domain.Tag, 0, len(schema.Tags))
	for _, entry := range schema.Tags {
		tags = append(tags, domain.Tag{
			Name:            entry.Name,
			Category:        domain.TagCategory(entry.Category),
			OrderInCategory: entry.OrderInCategory,
		})
	}

	return &domain.ScheduleBundle{
		Sessions: sessions,
		Tags:     tags,
		Facets:   domain.BuildFacets(tags),
	}, nil
}

func parseSessionTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
