package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mtsdigital/storefront/internal/events"
	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/whatsapp"
	"gorm.io/gorm"
)

const (
	maxOrderIDAttempts = 5
	defaultListLimit   = 100
	maxListLimit       = 500
	orderIDConstraint  = "order_id"
)

// Status change sources, used for metrics and event payloads.
const (
	SourceAdmin    = "admin"
	SourceCallback = "callback"
	SourceCheckout = "checkout"
	SourceSystem   = "system"
)

// Recorder receives order counters; *metrics.CommerceMetrics satisfies it.
type Recorder interface {
	OrderCreated(paymentMethod string)
	StatusChanged(status, source string)
}

type Service interface {
	CreateOrder(ctx context.Context, product *models.Product, method enums.PaymentMethod) (*Placed, error)
	CreateCustomerOrder(ctx context.Context, product *models.Product, method enums.PaymentMethod, customer Customer) (*Placed, error)
	Get(ctx context.Context, orderID string) (*OrderDTO, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus, source string) (*OrderDTO, error)
	MarkWhatsAppSent(ctx context.Context, orderID string) (*OrderDTO, error)
	AttachTransaction(ctx context.Context, orderID, transactionID string) error
	RecordCallback(ctx context.Context, cb *models.PaymentCallback) error
	Stats(ctx context.Context) (*Stats, error)
	// WithTx returns a Service whose repository runs on tx.
	WithTx(tx *gorm.DB) Service
}

// Customer holds the optional buyer details collected by the payment form.
type Customer struct {
	Name  string
	Email string
}

// Stats are the order aggregates shown on the admin dashboard.
type Stats struct {
	TotalOrders     int64
	CompletedOrders int64
	TotalRevenue    int64
	RecentOrders    []OrderDTO
	TopProducts     []ProductSales
}

type ServiceParams struct {
	Repo      Repository
	IDs       IDGenerator
	Handoff   whatsapp.Handoff
	Publisher events.Publisher
	Metrics   Recorder
	Logger    *logger.Logger
	Clock     func() time.Time
}

type service struct {
	repo      Repository
	ids       IDGenerator
	handoff   whatsapp.Handoff
	publisher events.Publisher
	metrics   Recorder
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, errors.New("orders repository required")
	}
	if p.IDs == nil {
		p.IDs = RandomIDGenerator{}
	}
	if p.Publisher == nil {
		p.Publisher = events.Nop
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Clock == nil {
		p.Clock = time.Now
	}
	return &service{
		repo:      p.Repo,
		ids:       p.IDs,
		handoff:   p.Handoff,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		logg:      p.Logger,
		now:       p.Clock,
	}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	clone := *s
	clone.repo = s.repo.WithTx(tx)
	return &clone
}

func (s *service) CreateOrder(ctx context.Context, product *models.Product, method enums.PaymentMethod) (*Placed, error) {
	return s.CreateCustomerOrder(ctx, product, method, Customer{})
}

func (s *service) CreateCustomerOrder(ctx context.Context, product *models.Product, method enums.PaymentMethod, customer Customer) (*Placed, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if !product.Available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
			WithDetails(map[string]string{"productId": product.ID})
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]any{"paymentMethod": string(method), "allowed": enums.PaymentMethods()})
	}

	var order *models.Order
	for attempt := 1; ; attempt++ {
		candidate := &models.Order{
			OrderID:       s.ids.NewOrderID(),
			ProductID:     product.ID,
			ProductName:   product.Name,
			Price:         product.Price,
			PaymentMethod: method,
			Status:        enums.OrderStatusPending,
			WhatsAppSent:  false,
			CustomerName:  optionalString(customer.Name),
			CustomerEmail: optionalString(customer.Email),
		}
		err := s.repo.Create(ctx, candidate)
		if err == nil {
			order = candidate
			break
		}
		if db.IsUniqueViolation(err, orderIDConstraint) && attempt < maxOrderIDAttempts {
			s.logg.Warn(s.logg.WithOrderID(ctx, candidate.OrderID), "orders.id_collision")
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
	}

	if s.metrics != nil {
		s.metrics.OrderCreated(string(method))
	}
	s.logg.Info(s.logg.WithOrderID(ctx, order.OrderID), "orders.created")
	s.publish(ctx, enums.OrderEventCreated, order, SourceCheckout)

	return &Placed{
		Order:       NewOrderDTO(order),
		WhatsAppURL: s.handoff.OrderLink(order.ProductName, order.OrderID),
	}, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*OrderDTO, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	dto := NewOrderDTO(o)
	return &dto, nil
}

func (s *service) GetByTransactionID(ctx context.Context, transactionID string) (*OrderDTO, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	o, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := NewOrderDTO(o)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]OrderDTO, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", *filter.Status)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return NewOrderDTOs(list), nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus, source string) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == status {
		dto := NewOrderDTO(o)
		return &dto, nil
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, s.transitionConflict(o.Status, status)
	}

	changed, err := s.repo.TransitionStatus(ctx, o.OrderID, o.Status, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if !changed {
		// Another writer moved the order first; report against its current state.
		current, err := s.load(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if current.Status == status {
			dto := NewOrderDTO(current)
			return &dto, nil
		}
		return nil, s.transitionConflict(current.Status, status)
	}

	o.Status = status
	o.UpdatedAt = s.now().UTC()
	if s.metrics != nil {
		s.metrics.StatusChanged(string(status), source)
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": o.OrderID, "status": string(status), "source": source})
	s.logg.Info(ctx, "orders.status_changed")
	s.publish(ctx, enums.OrderEventStatusChanged, o, source)

	dto := NewOrderDTO(o)
	return &dto, nil
}

func (s *service) MarkWhatsAppSent(ctx context.Context, orderID string) (*OrderDTO, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.WhatsAppSent {
		dto := NewOrderDTO(o)
		return &dto, nil
	}
	if _, err := s.repo.MarkWhatsAppSent(ctx, o.OrderID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark whatsapp sent")
	}
	o.WhatsAppSent = true
	s.publish(ctx, enums.OrderEventWhatsAppSent, o, SourceCheckout)
	dto := NewOrderDTO(o)
	return &dto, nil
}

func (s *service) AttachTransaction(ctx context.Context, orderID, transactionID string) error {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := s.repo.AttachTransaction(ctx, o.OrderID, transactionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach transaction")
	}
	o.TransactionID = &transactionID
	s.publish(ctx, enums.OrderEventPaymentLinked, o, SourceCheckout)
	return nil
}

func (s *service) RecordCallback(ctx context.Context, cb *models.PaymentCallback) error {
	if cb == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "callback is required")
	}
	if err := s.repo.RecordCallback(ctx, cb); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment callback")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	completed, revenue, err := s.repo.CompletedTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}
	recent, err := s.repo.List(ctx, ListFilter{Limit: 10})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recent orders")
	}
	top, err := s.repo.TopProducts(ctx, 5)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "top products")
	}
	return &Stats{
		TotalOrders:     total,
		CompletedOrders: completed,
		TotalRevenue:    revenue,
		RecentOrders:    NewOrderDTOs(recent),
		TopProducts:     top,
	}, nil
}

func (s *service) load(ctx context.Context, orderID string) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	o, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return o, nil
}

func (s *service) transitionConflict(from, to enums.OrderStatus) error {
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order cannot move from %s to %s", from, to).
		WithDetails(map[string]string{"from": string(from), "to": string(to)})
}

func (s *service) publish(ctx context.Context, typ enums.OrderEventType, o *models.Order, source string) {
	evt := events.OrderEvent{
		Type:          typ,
		OrderID:       o.OrderID,
		ProductID:     o.ProductID,
		ProductName:   o.ProductName,
		Price:         int64(o.Price),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Source:        source,
		OccurredAt:    s.now().UTC(),
	}
	if o.TransactionID != nil {
		evt.TransactionID = *o.TransactionID
	}
	s.publisher.Publish(ctx, evt)
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
