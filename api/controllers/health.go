package controllers

import (
	"context"
	"net/http"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type catalogCounter interface {
	Counts(ctx context.Context) (catalog.Counts, error)
}

type healthResponse struct {
	Status          string `json:"status"`
	Environment     string `json:"environment"`
	CategoriesCount int64  `json:"categoriesCount"`
	ProductsCount   int64  `json:"productsCount"`
	Database        string `json:"database"`
	Error           string `json:"error,omitempty"`
}

// Health reports database reachability and catalog row counts. Any failure
// turns the response into a 503 with status "unhealthy".
func Health(cfg *config.Config, dbP db.Pinger, counter catalogCounter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:      "healthy",
			Environment: cfg.App.Env,
			Database:    "connected",
		}

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				unhealthy(r.Context(), logg, &resp, err)
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, resp)
				return
			}
		}

		counts, err := counter.Counts(r.Context())
		if err != nil {
			unhealthy(r.Context(), logg, &resp, err)
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.CategoriesCount = counts.Categories
		resp.ProductsCount = counts.Products

		responses.WriteSuccess(w, resp)
	}
}

func unhealthy(ctx context.Context, logg *logger.Logger, resp *healthResponse, err error) {
	resp.Status = "unhealthy"
	resp.Database = "disconnected"
	resp.Error = "database unavailable"
	if logg != nil {
		logg.Error(ctx, "health.check_failed", err)
	}
}
