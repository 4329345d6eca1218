package cron

import (
	"context"
	"errors"
	"time"

	"github.com/mtsdigital/storefront/pkg/logger"
)

const (
	JobSessionPurge       = "session_purge"
	JobAnalyticsRetention = "analytics_retention"
)

type expiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type analyticsPurger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewSessionPurgeJob deletes admin sessions past their expiry.
func NewSessionPurgeJob(store expiredSessionPurger, logg *logger.Logger) (Job, error) {
	if store == nil {
		return nil, errors.New("session store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return JobFunc{JobName: JobSessionPurge, Fn: func(ctx context.Context) error {
		n, err := store.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "deleted", n), "cron.sessions_purged")
		return nil
	}}, nil
}

// NewAnalyticsRetentionJob drops analytics events older than retention.
func NewAnalyticsRetentionJob(svc analyticsPurger, retention time.Duration, logg *logger.Logger) (Job, error) {
	if svc == nil {
		return nil, errors.New("analytics service required")
	}
	if retention <= 0 {
		return nil, errors.New("analytics retention must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return JobFunc{JobName: JobAnalyticsRetention, Fn: func(ctx context.Context) error {
		n, err := svc.Purge(ctx, retention)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "deleted", n), "cron.analytics_purged")
		return nil
	}}, nil
}
