package controllers

import (
	"net/http"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/logger"
)

// createOrderRequest also declares the fields older clients send alongside
// the product and method. They are accepted and ignored: the server
// generates the order id and snapshots name and price itself.
type createOrderRequest struct {
	ProductID     string `json:"productId" validate:"required,max=64"`
	PaymentMethod string `json:"paymentMethod" validate:"required,payment_method"`

	OrderID      any `json:"orderId,omitempty"`
	ProductName  any `json:"productName,omitempty"`
	Price        any `json:"price,omitempty"`
	Status       any `json:"status,omitempty"`
	WhatsAppSent any `json:"whatsappSent,omitempty"`
}

func CreateOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placed, err := svc.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
			ProductID:     req.ProductID,
			PaymentMethod: enums.PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, placed)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// MarkWhatsAppSent is called by the storefront once the shopper opened the
// WhatsApp link.
func MarkWhatsAppSent(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.MarkWhatsAppSent(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
