package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtsdigital/storefront/pkg/enums"
)

// Order is a customer's purchase intent. ProductName and Price are copied from
// the product when the order is created and never re-read afterwards.
type Order struct {
	ID            string              `gorm:"column:id;type:varchar(36);primaryKey"`
	OrderID       string              `gorm:"column:order_id;not null;uniqueIndex"`
	ProductID     string              `gorm:"column:product_id;type:varchar(36);not null;index"`
	ProductName   string              `gorm:"column:product_name;not null"`
	Price         int                 `gorm:"column:price;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;index"`
	WhatsAppSent  bool                `gorm:"column:whatsapp_sent;not null"`
	TransactionID *string             `gorm:"column:transaction_id;index"`
	CustomerName  *string             `gorm:"column:customer_name"`
	CustomerEmail *string             `gorm:"column:customer_email"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}
