package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtsdigital/storefront/pkg/types"
)

// PaymentCallback is the audit row kept for every inbound gateway callback,
// including the ones rejected for a bad signature.
type PaymentCallback struct {
	ID             string        `gorm:"column:id;type:varchar(36);primaryKey"`
	OrderID        *string       `gorm:"column:order_id;index"`
	TransactionID  *string       `gorm:"column:transaction_id"`
	Status         *string       `gorm:"column:status"`
	SignatureValid bool          `gorm:"column:signature_valid;not null"`
	Applied        bool          `gorm:"column:applied;not null"`
	Payload        types.JSONMap `gorm:"column:payload;type:text;not null"`
	ReceivedAt     time.Time     `gorm:"column:received_at;autoCreateTime"`
}

func (PaymentCallback) TableName() string { return "payment_callbacks" }

func (p *PaymentCallback) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
