package admins

import (
	"encoding/json"
	"time"

	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
)

type AdminDTO struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     *string         `json:"email,omitempty"`
	Name      *string         `json:"name,omitempty"`
	Role      enums.AdminRole `json:"role"`
	IsActive  bool            `json:"isActive"`
	LastLogin *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewAdminDTO(a *models.Admin) AdminDTO {
	return AdminDTO{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}

type LogDTO struct {
	ID        string            `json:"id"`
	AdminID   *string           `json:"adminId,omitempty"`
	Action    enums.AdminAction `json:"action"`
	Target    *string           `json:"target,omitempty"`
	Details   *string           `json:"details,omitempty"`
	IPAddress *string           `json:"ipAddress,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewLogDTO(l *models.AdminLog) LogDTO {
	return LogDTO{
		ID:        l.ID,
		AdminID:   l.AdminID,
		Action:    l.Action,
		Target:    l.Target,
		Details:   l.Details,
		IPAddress: l.IPAddress,
		CreatedAt: l.CreatedAt,
	}
}

// DashboardStats is the admin overview payload. AverageOrderValue is
// rendered as a JSON number with two decimals.
type DashboardStats struct {
	TotalRevenue      int64                 `json:"totalRevenue"`
	TotalOrders       int64                 `json:"totalOrders"`
	CompletedOrders   int64                 `json:"completedOrders"`
	TotalProducts     int64                 `json:"totalProducts"`
	TotalCategories   int64                 `json:"totalCategories"`
	AverageOrderValue json.Number           `json:"averageOrderValue"`
	RecentOrders      []orders.OrderDTO     `json:"recentOrders"`
	TopProducts       []orders.ProductSales `json:"topProducts"`
}
