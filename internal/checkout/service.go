package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/gateway"
	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Callback outcomes, also used as metric labels.
const (
	CallbackApplied          = "applied"
	CallbackIgnored          = "ignored"
	CallbackRejected         = "rejected"
	CallbackInvalidSignature = "invalid_signature"
)

type productLoader interface {
	LoadProduct(ctx context.Context, id string) (*models.Product, error)
}

type callbackRecorder interface {
	Callback(result string)
}

// Transactor runs fn in a database transaction; *db.Client satisfies it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type noTx struct{}

func (noTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

// Service orchestrates order placement and hosted payments.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.Placed, error)
	StartPayment(ctx context.Context, input StartPaymentInput) (*PaymentResult, error)
	HandleCallback(ctx context.Context, payload map[string]any, signature string) (*CallbackResult, error)
	PaymentStatus(ctx context.Context, transactionID string) (gateway.StatusResult, error)
}

type PlaceOrderInput struct {
	ProductID     string
	PaymentMethod enums.PaymentMethod
}

type StartPaymentInput struct {
	ProductID     string
	PaymentMethod enums.PaymentMethod
	CustomerName  string
	CustomerEmail string
}

// PaymentResult pairs the created order with the gateway outcome. Gateway
// failures do not undo the order; it stays pending.
type PaymentResult struct {
	Placed  *orders.Placed
	Gateway gateway.CreateResult
}

type CallbackResult struct {
	OrderID       string
	TransactionID string
	Status        enums.OrderStatus
	Outcome       string
}

// URLs are the absolute addresses handed to the gateway.
type URLs struct {
	Return   string
	Callback string
}

type ServiceParams struct {
	Products productLoader
	Orders   orders.Service
	Gateway  gateway.Gateway
	URLs     URLs
	Metrics  callbackRecorder
	Logger   *logger.Logger

	// Tx scopes callback writes; without it they run unbatched.
	Tx Transactor
}

type service struct {
	products productLoader
	orders   orders.Service
	gateway  gateway.Gateway
	urls     URLs
	metrics  callbackRecorder
	logg     *logger.Logger
	tx       Transactor
}

func NewService(p ServiceParams) (Service, error) {
	if p.Products == nil {
		return nil, errors.New("product loader required")
	}
	if p.Orders == nil {
		return nil, errors.New("orders service required")
	}
	if p.Gateway == nil {
		return nil, errors.New("payment gateway required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Tx == nil {
		p.Tx = noTx{}
	}
	return &service{
		products: p.Products,
		orders:   p.Orders,
		gateway:  p.Gateway,
		urls:     p.URLs,
		metrics:  p.Metrics,
		logg:     p.Logger,
		tx:       p.Tx,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.Placed, error) {
	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	return s.orders.CreateOrder(ctx, product, input.PaymentMethod)
}

func (s *service) StartPayment(ctx context.Context, input StartPaymentInput) (*PaymentResult, error) {
	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	placed, err := s.orders.CreateCustomerOrder(ctx, product, input.PaymentMethod, orders.Customer{
		Name:  input.CustomerName,
		Email: input.CustomerEmail,
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, placed.Order.OrderID)
	result := s.gateway.CreatePayment(ctx, gateway.PaymentRequest{
		OrderID:       placed.Order.OrderID,
		Amount:        decimal.NewFromInt(int64(placed.Order.Price)),
		ProductName:   placed.Order.ProductName,
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		ReturnURL:     s.urls.Return,
		CallbackURL:   s.urls.Callback,
	})
	if !result.OK() {
		ctx = s.logg.WithFields(ctx, map[string]any{"kind": string(result.Kind), "gateway_error": result.Error})
		s.logg.Warn(ctx, "checkout.payment_create_failed")
		return &PaymentResult{Placed: placed, Gateway: result}, nil
	}

	if result.TransactionID != "" {
		if err := s.orders.AttachTransaction(ctx, placed.Order.OrderID, result.TransactionID); err != nil {
			return nil, err
		}
		txID := result.TransactionID
		placed.Order.TransactionID = &txID
	}
	s.logg.Info(ctx, "checkout.payment_created")
	return &PaymentResult{Placed: placed, Gateway: result}, nil
}

func (s *service) HandleCallback(ctx context.Context, payload map[string]any, signature string) (*CallbackResult, error) {
	if len(payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "callback payload is required")
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		signature = stringField(payload, "signature")
	}

	orderID := stringField(payload, "order_id")
	transactionID := stringField(payload, "transaction_id")
	rawStatus := stringField(payload, "status")

	audit := &models.PaymentCallback{
		OrderID:        optionalString(orderID),
		TransactionID:  optionalString(transactionID),
		Status:         optionalString(rawStatus),
		SignatureValid: signature != "" && s.gateway.VerifyCallback(payload, signature),
		Payload:        types.JSONMap(payload),
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "transaction_id": transactionID, "gateway_status": rawStatus})

	if !audit.SignatureValid {
		s.record(ctx, audit, CallbackInvalidSignature)
		s.logg.Warn(ctx, "checkout.callback_invalid_signature")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid callback signature")
	}

	order, err := s.resolveOrder(ctx, orderID, transactionID)
	if err != nil {
		s.record(ctx, audit, CallbackRejected)
		return nil, err
	}
	if audit.OrderID == nil {
		audit.OrderID = &order.OrderID
	}

	target := enums.OrderStatusPending
	if ps, err := enums.ParsePaymentStatus(rawStatus); err == nil {
		target = ps.OrderStatus()
	}
	result := &CallbackResult{OrderID: order.OrderID, TransactionID: transactionID, Status: order.Status, Outcome: CallbackIgnored}

	// The transaction link, the audit row and the status change commit together.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.orders.WithTx(tx)
		if transactionID != "" && order.TransactionID == nil {
			if err := txOrders.AttachTransaction(ctx, order.OrderID, transactionID); err != nil {
				return err
			}
		}
		row := *audit
		row.Applied = target != enums.OrderStatusPending
		if err := txOrders.RecordCallback(ctx, &row); err != nil {
			return err
		}
		if !row.Applied {
			return nil
		}
		updated, err := txOrders.UpdateStatus(ctx, order.OrderID, target, orders.SourceCallback)
		if err != nil {
			return err
		}
		result.Status = updated.Status
		result.Outcome = CallbackApplied
		return nil
	})
	if err != nil {
		s.record(ctx, audit, CallbackRejected)
		return nil, err
	}
	s.count(result.Outcome)
	return result, nil
}

func (s *service) PaymentStatus(ctx context.Context, transactionID string) (gateway.StatusResult, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return gateway.StatusResult{}, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	return s.gateway.GetPaymentStatus(ctx, transactionID), nil
}

func (s *service) loadProduct(ctx context.Context, productID string) (*models.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	product, err := s.products.LoadProduct(ctx, productID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found").
				WithDetails(map[string]string{"productId": productID})
		}
		return nil, err
	}
	return product, nil
}

func (s *service) resolveOrder(ctx context.Context, orderID, transactionID string) (*orders.OrderDTO, error) {
	switch {
	case orderID != "":
		return s.orders.Get(ctx, orderID)
	case transactionID != "":
		return s.orders.GetByTransactionID(ctx, transactionID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "callback carries neither order_id nor transaction_id")
	}
}

// record stores the audit row. A failed insert is logged and does not change
// the callback outcome.
func (s *service) record(ctx context.Context, audit *models.PaymentCallback, outcome string) {
	s.count(outcome)
	if err := s.orders.RecordCallback(ctx, audit); err != nil {
		s.logg.Error(ctx, "checkout.callback_audit_failed", err)
	}
}

func (s *service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.Callback(outcome)
	}
}

func stringField(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
