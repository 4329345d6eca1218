package models

import (
	"time"

	"gorm.io/gorm"
)

type BlogPost struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Excerpt   string    `gorm:"column:excerpt;not null"`
	Content   string    `gorm:"column:content;not null"`
	Image     *string   `gorm:"column:image"`
	Category  string    `gorm:"column:category;not null"`
	Featured  bool      `gorm:"column:featured;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (BlogPost) TableName() string { return "blog_posts" }

func (b *BlogPost) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}
