package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mtsdigital/storefront/pkg/enums"
)

// Admin is a back-office account. PasswordHash holds an argon2id encoding.
type Admin struct {
	ID           string          `gorm:"column:id;type:varchar(36);primaryKey"`
	Username     string          `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Email        *string         `gorm:"column:email"`
	Name         *string         `gorm:"column:name"`
	Role         enums.AdminRole `gorm:"column:role;not null"`
	IsActive     bool            `gorm:"column:is_active;not null"`
	LastLogin    *time.Time      `gorm:"column:last_login"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Admin) TableName() string { return "admins" }

func (a *Admin) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// AdminSession backs the db session store. ID is the session id carried in
// the signed cookie.
type AdminSession struct {
	ID        string          `gorm:"column:id;type:varchar(64);primaryKey"`
	AdminID   string          `gorm:"column:admin_id;type:varchar(36);not null;index"`
	Role      enums.AdminRole `gorm:"column:role;not null"`
	ExpiresAt time.Time       `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (AdminSession) TableName() string { return "admin_sessions" }

// AdminLog is one entry of the admin audit trail.
type AdminLog struct {
	ID        string            `gorm:"column:id;type:varchar(36);primaryKey"`
	AdminID   *string           `gorm:"column:admin_id;type:varchar(36);index"`
	Action    enums.AdminAction `gorm:"column:action;not null"`
	Target    *string           `gorm:"column:target"`
	Details   *string           `gorm:"column:details"`
	IPAddress *string           `gorm:"column:ip_address"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (AdminLog) TableName() string { return "admin_logs" }

func (l *AdminLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
