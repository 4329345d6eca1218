package admins

import (
	"context"
	"time"

	"github.com/mtsdigital/storefront/internal/repo"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"gorm.io/gorm"
)

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	InsertLog(ctx context.Context, l *models.AdminLog) error
	RecentLogs(ctx context.Context, limit int) ([]models.AdminLog, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := r.DB(ctx).Where("username = ?", username).Take(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	if err := r.DB(ctx).Where("id = ?", id).Take(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *models.Admin) error {
	return r.DB(ctx).Create(a).Error
}

func (r *repository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.DB(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.DB(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *repository) InsertLog(ctx context.Context, l *models.AdminLog) error {
	return r.DB(ctx).Create(l).Error
}

func (r *repository) RecentLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	var list []models.AdminLog
	err := r.DB(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
