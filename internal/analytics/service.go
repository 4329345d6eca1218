package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/types"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
	maxUserAgentLen    = 512
)

// Service records storefront interactions and summarises them for admins.
type Service interface {
	Track(ctx context.Context, input TrackInput) error
	Recent(ctx context.Context, event string, limit int) ([]EventDTO, error)
	Counts(ctx context.Context, since time.Time) ([]EventCount, error)
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// TrackInput is one tracking call. SessionID and UserID come from the client;
// the server keeps no per-visitor state.
type TrackInput struct {
	Event     string
	Data      map[string]any
	SessionID string
	UserID    string
	IPAddress string
	UserAgent string
}

type EventDTO struct {
	ID        string                   `json:"id"`
	Event     enums.AnalyticsEventType `json:"event"`
	Data      map[string]any           `json:"data,omitempty"`
	UserID    *string                  `json:"userId,omitempty"`
	SessionID *string                  `json:"sessionId,omitempty"`
	IPAddress *string                  `json:"ipAddress,omitempty"`
	UserAgent *string                  `json:"userAgent,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("analytics repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Track(ctx context.Context, input TrackInput) error {
	event, err := enums.ParseAnalyticsEventType(strings.TrimSpace(input.Event))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown analytics event").
			WithDetails(map[string]string{"event": input.Event})
	}
	ua := strings.TrimSpace(input.UserAgent)
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}
	row := &models.AnalyticsEvent{
		Event:     event,
		Data:      types.JSONMap(input.Data),
		UserID:    optional(input.UserID),
		SessionID: optional(input.SessionID),
		IPAddress: optional(input.IPAddress),
		UserAgent: optional(ua),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "track analytics event")
	}
	return nil
}

func (s *service) Recent(ctx context.Context, event string, limit int) ([]EventDTO, error) {
	var filter *enums.AnalyticsEventType
	if event = strings.TrimSpace(event); event != "" {
		parsed, err := enums.ParseAnalyticsEventType(event)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown analytics event")
		}
		filter = &parsed
	}
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	rows, err := s.repo.Recent(ctx, filter, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list analytics events")
	}
	out := make([]EventDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, EventDTO{
			ID:        r.ID,
			Event:     r.Event,
			Data:      r.Data,
			UserID:    r.UserID,
			SessionID: r.SessionID,
			IPAddress: r.IPAddress,
			UserAgent: r.UserAgent,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) Counts(ctx context.Context, since time.Time) ([]EventCount, error) {
	rows, err := s.repo.CountByEvent(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count analytics events")
	}
	return rows, nil
}

// Purge deletes events older than the retention window.
func (s *service) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	n, err := s.repo.DeleteBefore(ctx, s.now().UTC().Add(-olderThan))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "purge analytics events")
	}
	return n, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
