package controllers

import (
	"net/http"
	"strings"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/gateway"
	"github.com/mtsdigital/storefront/pkg/logger"
)

const (
	signatureHeader      = "X-Signature"
	paymentGatewayFailed = "Payment gateway error"
)

type createPaymentRequest struct {
	ProductID     string `json:"productId" validate:"required,max=64"`
	PaymentMethod string `json:"paymentMethod" validate:"required,payment_method"`
	CustomerName  string `json:"customerName" validate:"omitempty,max=200"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email,max=200"`
}

type createPaymentResponse struct {
	Order         orders.OrderDTO `json:"order"`
	WhatsAppURL   string          `json:"whatsappUrl"`
	PaymentURL    string          `json:"paymentUrl"`
	TransactionID string          `json:"transactionId"`
}

type paymentFailure struct {
	Kind    gateway.ResultKind `json:"kind"`
	OrderID string             `json:"orderId"`
	Error   string             `json:"error,omitempty"`
}

type callbackResponse struct {
	OrderID       string            `json:"orderId"`
	TransactionID string            `json:"transactionId"`
	Status        enums.OrderStatus `json:"status"`
	Outcome       string            `json:"outcome"`
}

// CreatePayment places the order and opens a gateway payment for it. A
// gateway failure leaves the pending order in place and answers 502 with the
// failure kind.
func CreatePayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPaymentRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.StartPayment(r.Context(), checkout.StartPaymentInput{
			ProductID:     req.ProductID,
			PaymentMethod: enums.PaymentMethod(req.PaymentMethod),
			CustomerName:  validators.SanitizeString(req.CustomerName, 200),
			CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !result.Gateway.OK() {
			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithFields(logg.WithOrderID(ctx, result.Placed.Order.OrderID), map[string]any{
					"kind": string(result.Gateway.Kind),
				})
				logg.Warn(ctx, "payments.create_failed")
			}
			msg := result.Gateway.Message
			if msg == "" {
				msg = paymentGatewayFailed
			}
			responses.WriteErrorStatus(w, http.StatusBadGateway, pkgerrors.CodeDependency, msg, paymentFailure{
				Kind:    result.Gateway.Kind,
				OrderID: result.Placed.Order.OrderID,
				Error:   result.Gateway.Error,
			})
			return
		}

		responses.WriteCreated(w, createPaymentResponse{
			Order:         result.Placed.Order,
			WhatsAppURL:   result.Placed.WhatsAppURL,
			PaymentURL:    result.Gateway.PaymentURL,
			TransactionID: result.Gateway.TransactionID,
		})
	}
}

func PaymentStatus(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txID, err := pathParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PaymentStatus(r.Context(), txID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch result.Outcome {
		case gateway.OutcomeFound:
			responses.WriteSuccess(w, result.Status)
		case gateway.OutcomeNotFound:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found"))
		default:
			cause := result.Err
			if cause == nil {
				cause = pkgerrors.New(pkgerrors.CodeDependency, "payment status unavailable")
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "payment status unavailable"))
		}
	}
}

// PaymentCallback applies a signed gateway notification. The signature comes
// from the X-Signature header, or from the payload's signature field when
// the header is absent.
func PaymentCallback(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := validators.DecodeJSONMap(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.HandleCallback(r.Context(), payload, strings.TrimSpace(r.Header.Get(signatureHeader)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, callbackResponse{
			OrderID:       result.OrderID,
			TransactionID: result.TransactionID,
			Status:        result.Status,
			Outcome:       result.Outcome,
		})
	}
}
