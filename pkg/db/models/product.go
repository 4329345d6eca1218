package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtsdigital/storefront/pkg/types"
)

// Product is a sellable subscription plan. Price fields are whole rupees.
type Product struct {
	ID                string           `gorm:"column:id;type:varchar(36);primaryKey"`
	Name              string           `gorm:"column:name;not null"`
	FullProductName   string           `gorm:"column:full_product_name;not null"`
	Subcategory       *string          `gorm:"column:subcategory"`
	Duration          string           `gorm:"column:duration;not null"`
	Description       string           `gorm:"column:description;not null"`
	Features          types.StringList `gorm:"column:features;type:text;not null"`
	Price             int              `gorm:"column:price;not null"`
	OriginalPrice     int              `gorm:"column:original_price;not null"`
	Discount          int              `gorm:"column:discount;not null"`
	Category          string           `gorm:"column:category;not null;index"`
	Icon              string           `gorm:"column:icon;not null"`
	Image             *string          `gorm:"column:image"`
	ActivationTime    string           `gorm:"column:activation_time;not null"`
	Warranty          string           `gorm:"column:warranty;not null"`
	Notes             *string          `gorm:"column:notes"`
	Popular           bool             `gorm:"column:popular;not null"`
	Trending          bool             `gorm:"column:trending;not null"`
	Available         bool             `gorm:"column:available;not null"`
	IsVariant         bool             `gorm:"column:is_variant;not null"`
	ParentProductID   *string          `gorm:"column:parent_product_id;type:varchar(36)"`
	ParentProductName *string          `gorm:"column:parent_product_name"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
