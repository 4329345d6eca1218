package models

import "gorm.io/gorm"

type Testimonial struct {
	ID       string `gorm:"column:id;type:varchar(36);primaryKey"`
	Name     string `gorm:"column:name;not null"`
	Avatar   string `gorm:"column:avatar;not null"`
	Rating   int    `gorm:"column:rating;not null"`
	Review   string `gorm:"column:review;not null"`
	Featured bool   `gorm:"column:featured;not null"`
}

func (Testimonial) TableName() string { return "testimonials" }

func (t *Testimonial) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}
