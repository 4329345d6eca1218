package admins

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/shopspring/decimal"
)

type orderStatsSource interface {
	Stats(ctx context.Context) (*orders.Stats, error)
}

type catalogCounter interface {
	Counts(ctx context.Context) (catalog.Counts, error)
}

// Dashboard aggregates order and catalog figures for the admin overview.
type Dashboard struct {
	orders  orderStatsSource
	catalog catalogCounter
}

func NewDashboard(o orderStatsSource, c catalogCounter) (*Dashboard, error) {
	if o == nil || c == nil {
		return nil, errors.New("orders and catalog sources required")
	}
	return &Dashboard{orders: o, catalog: c}, nil
}

func (d *Dashboard) Stats(ctx context.Context) (*DashboardStats, error) {
	summary, err := d.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := d.catalog.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalRevenue:      summary.TotalRevenue,
		TotalOrders:       summary.TotalOrders,
		CompletedOrders:   summary.CompletedOrders,
		TotalProducts:     counts.Products,
		TotalCategories:   counts.Categories,
		AverageOrderValue: json.Number(averageOrderValue(summary.TotalRevenue, summary.CompletedOrders).StringFixed(2)),
		RecentOrders:      summary.RecentOrders,
		TopProducts:       summary.TopProducts,
	}, nil
}

// averageOrderValue divides revenue by the completed orders that produced it.
func averageOrderValue(revenue, completed int64) decimal.Decimal {
	if completed == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(revenue).DivRound(decimal.NewFromInt(completed), 2)
}
