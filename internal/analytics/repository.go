package analytics

import (
	"context"
	"time"

	"github.com/mtsdigital/storefront/internal/repo"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	"gorm.io/gorm"
)

// EventCount is the number of events of one type.
type EventCount struct {
	Event enums.AnalyticsEventType `json:"event"`
	Count int64                    `json:"count"`
}

type Repository interface {
	Insert(ctx context.Context, evt *models.AnalyticsEvent) error
	Recent(ctx context.Context, event *enums.AnalyticsEventType, limit int) ([]models.AnalyticsEvent, error)
	CountByEvent(ctx context.Context, since time.Time) ([]EventCount, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Insert(ctx context.Context, evt *models.AnalyticsEvent) error {
	return r.DB(ctx).Create(evt).Error
}

func (r *repository) Recent(ctx context.Context, event *enums.AnalyticsEventType, limit int) ([]models.AnalyticsEvent, error) {
	q := r.DB(ctx).Model(&models.AnalyticsEvent{}).Order("created_at DESC").Limit(limit)
	if event != nil {
		q = q.Where("event = ?", *event)
	}
	var list []models.AnalyticsEvent
	return list, q.Find(&list).Error
}

func (r *repository) CountByEvent(ctx context.Context, since time.Time) ([]EventCount, error) {
	q := r.DB(ctx).Model(&models.AnalyticsEvent{}).
		Select("event, COUNT(*) AS count").
		Group("event").
		Order("count DESC").
		Order("event ASC")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var rows []EventCount
	return rows, q.Scan(&rows).Error
}

func (r *repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Where("created_at < ?", cutoff).Delete(&models.AnalyticsEvent{})
	return res.RowsAffected, res.Error
}
