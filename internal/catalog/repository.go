package catalog

import (
	"context"

	"github.com/mtsdigital/storefront/internal/repo"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings. Nil fields are ignored.
type ProductFilter struct {
	Category      string
	Popular       *bool
	Trending      *bool
	AvailableOnly bool
}

// Repository persists products and categories.
type Repository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) (bool, error)
	CountProducts(ctx context.Context) (int64, error)
	CountProductsInCategory(ctx context.Context, slug string) (int64, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) (bool, error)
	CountCategories(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.DB(ctx).Model(&models.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Popular != nil {
		q = q.Where("popular = ?", *filter.Popular)
	}
	if filter.Trending != nil {
		q = q.Where("trending = ?", *filter.Trending)
	}
	if filter.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	var products []models.Product
	if err := q.Order("created_at ASC").Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.DB(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB(ctx).Create(p).Error
}

// SaveProduct writes every column, zero values included.
func (r *repository) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB(ctx).Save(p).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *repository) CountProductsInCategory(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Product{}).Where("category = ?", slug).Count(&n).Error
	return n, err
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.DB(ctx).Where("slug = ?", slug).Take(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.DB(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB(ctx).Create(c).Error
}

func (r *repository) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB(ctx).Save(c).Error
}

func (r *repository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Category{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}
