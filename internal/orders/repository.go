package orders

import (
	"context"
	"time"

	"github.com/mtsdigital/storefront/internal/repo"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	"gorm.io/gorm"
)

// ListFilter narrows order listings.
type ListFilter struct {
	Status *enums.OrderStatus
	Limit  int
}

// Repository persists orders and payment callback audit rows.
type Repository interface {
	Create(ctx context.Context, o *models.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	// TransitionStatus moves the order only if it is still in from; it
	// reports whether a row changed.
	TransitionStatus(ctx context.Context, orderID string, from, to enums.OrderStatus) (bool, error)
	MarkWhatsAppSent(ctx context.Context, orderID string) (bool, error)
	AttachTransaction(ctx context.Context, orderID, transactionID string) (bool, error)
	RecordCallback(ctx context.Context, cb *models.PaymentCallback) error
	// WithTx returns a Repository that issues every query on tx.
	WithTx(tx *gorm.DB) Repository

	CountAll(ctx context.Context) (int64, error)
	CompletedTotals(ctx context.Context) (count int64, revenue int64, err error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Rebind(tx)}
}

func (r *repository) Create(ctx context.Context, o *models.Order) error {
	return r.DB(ctx).Create(o).Error
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	if err := r.DB(ctx).Where("order_id = ?", orderID).Take(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	var o models.Order
	if err := r.DB(ctx).Where("transaction_id = ?", transactionID).Take(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	q := r.DB(ctx).Model(&models.Order{}).Order("created_at DESC").Order("id DESC")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var list []models.Order
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) TransitionStatus(ctx context.Context, orderID string, from, to enums.OrderStatus) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) MarkWhatsAppSent(ctx context.Context, orderID string) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{"whatsapp_sent": true, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) AttachTransaction(ctx context.Context, orderID, transactionID string) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{"transaction_id": transactionID, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) RecordCallback(ctx context.Context, cb *models.PaymentCallback) error {
	return r.DB(ctx).Create(cb).Error
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

func (r *repository) CompletedTotals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count   int64
		Revenue int64
	}
	err := r.DB(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
		Where("status = ?", enums.OrderStatusCompleted).
		Scan(&row).Error
	return row.Count, row.Revenue, err
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []ProductSales
	err := r.DB(ctx).Model(&models.Order{}).
		Select("product_id, MAX(product_name) AS product_name, COUNT(*) AS orders, COALESCE(SUM(price), 0) AS revenue").
		Group("product_id").
		Order("orders DESC").
		Order("product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
