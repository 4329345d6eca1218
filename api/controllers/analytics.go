package controllers

import (
	"net/http"
	"time"

	"github.com/mtsdigital/storefront/api/middleware"
	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/analytics"
	"github.com/mtsdigital/storefront/pkg/logger"
)

const analyticsCountsWindow = 30 * 24 * time.Hour

type trackRequest struct {
	Event     string         `json:"event" validate:"required,max=50"`
	Data      map[string]any `json:"data"`
	SessionID string         `json:"sessionId" validate:"omitempty,max=100"`
	UserID    string         `json:"userId" validate:"omitempty,max=100"`
}

type adminAnalyticsResponse struct {
	Events []analytics.EventDTO   `json:"events"`
	Counts []analytics.EventCount `json:"counts"`
	Since  string                 `json:"since"`
}

// TrackEvent accepts one client-side event and answers 202. The session id
// is whatever the client sends; nothing is kept per visitor.
func TrackEvent(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err := svc.Track(r.Context(), analytics.TrackInput{
			Event:     req.Event,
			Data:      req.Data,
			SessionID: req.SessionID,
			UserID:    req.UserID,
			IPAddress: middleware.ClientIP(r),
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]bool{"tracked": true})
	}
}

func AdminAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		events, err := svc.Recent(r.Context(), validators.QueryString(r, "event", 50), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		since := time.Now().Add(-analyticsCountsWindow).UTC()
		counts, err := svc.Counts(r.Context(), since)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adminAnalyticsResponse{
			Events: events,
			Counts: counts,
			Since:  since.Format(timeLayout),
		})
	}
}
