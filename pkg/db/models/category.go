package models

import "gorm.io/gorm"

// Category groups products by slug (streaming, vpn, cloud-storage, ...).
type Category struct {
	ID          string `gorm:"column:id;type:varchar(36);primaryKey"`
	Name        string `gorm:"column:name;not null"`
	Slug        string `gorm:"column:slug;not null;uniqueIndex"`
	Description string `gorm:"column:description;not null"`
	Icon        string `gorm:"column:icon;not null"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}
