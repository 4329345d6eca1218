package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/types"
)

type AnalyticsEvent struct {
	ID        string                   `gorm:"column:id;type:varchar(36);primaryKey"`
	Event     enums.AnalyticsEventType `gorm:"column:event;not null;index"`
	Data      types.JSONMap            `gorm:"column:data;type:text"`
	UserID    *string                  `gorm:"column:user_id"`
	SessionID *string                  `gorm:"column:session_id;index"`
	IPAddress *string                  `gorm:"column:ip_address"`
	UserAgent *string                  `gorm:"column:user_agent"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}

func (AnalyticsEvent) TableName() string { return "analytics_events" }

func (a *AnalyticsEvent) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
