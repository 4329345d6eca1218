package orders

import (
	"time"

	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
)

// OrderDTO is the public representation of an order.
type OrderDTO struct {
	ID            string              `json:"id"`
	OrderID       string              `json:"orderId"`
	ProductID     string              `json:"productId"`
	ProductName   string              `json:"productName"`
	Price         int                 `json:"price"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Status        enums.OrderStatus   `json:"status"`
	WhatsAppSent  bool                `json:"whatsappSent"`
	TransactionID *string             `json:"transactionId,omitempty"`
	CustomerName  *string             `json:"customerName,omitempty"`
	CustomerEmail *string             `json:"customerEmail,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func NewOrderDTO(o *models.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID,
		OrderID:       o.OrderID,
		ProductID:     o.ProductID,
		ProductName:   o.ProductName,
		Price:         o.Price,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		WhatsAppSent:  o.WhatsAppSent,
		TransactionID: o.TransactionID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func NewOrderDTOs(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, NewOrderDTO(&list[i]))
	}
	return out
}

// Placed is returned when an order is created: the order plus the WhatsApp
// handoff link the browser opens.
type Placed struct {
	Order       OrderDTO `json:"order"`
	WhatsAppURL string   `json:"whatsappUrl"`
}

// ProductSales is one row of the top products report.
type ProductSales struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Orders      int64  `json:"orders"`
	Revenue     int64  `json:"revenue"`
}
