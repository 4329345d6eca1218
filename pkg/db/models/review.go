package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is customer feedback on a product. New reviews stay hidden until an
// admin publishes them.
type Review struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ProductID     string    `gorm:"column:product_id;type:varchar(36);not null;index"`
	CustomerName  string    `gorm:"column:customer_name;not null"`
	CustomerEmail *string   `gorm:"column:customer_email"`
	Rating        int       `gorm:"column:rating;not null"`
	Title         *string   `gorm:"column:title"`
	Comment       string    `gorm:"column:comment;not null"`
	IsVerified    bool      `gorm:"column:is_verified;not null"`
	IsPublished   bool      `gorm:"column:is_published;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Review) TableName() string { return "reviews" }

func (r *Review) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
