package content

import (
	"context"

	"github.com/mtsdigital/storefront/internal/repo"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// ReviewFilter narrows review listings. Nil pointers mean "any".
type ReviewFilter struct {
	ProductID string
	Published *bool
	Limit     int
}

type Repository interface {
	ListReviews(ctx context.Context, filter ReviewFilter) ([]models.Review, error)
	FindReview(ctx context.Context, id string) (*models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	SaveReview(ctx context.Context, r *models.Review) error

	ListTestimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error

	ListBlogPosts(ctx context.Context, featuredOnly bool) ([]models.BlogPost, error)
	FindBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, b *models.BlogPost) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) ListReviews(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	q := r.DB(ctx).Model(&models.Review{}).Order("created_at DESC")
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Published != nil {
		q = q.Where("is_published = ?", *filter.Published)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var list []models.Review
	return list, q.Find(&list).Error
}

func (r *repository) FindReview(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.DB(ctx).Where("id = ?", id).Take(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Create(review).Error
}

func (r *repository) SaveReview(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Save(review).Error
}

func (r *repository) ListTestimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error) {
	q := r.DB(ctx).Model(&models.Testimonial{}).Order("name ASC")
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	var list []models.Testimonial
	return list, q.Find(&list).Error
}

func (r *repository) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return r.DB(ctx).Create(t).Error
}

func (r *repository) ListBlogPosts(ctx context.Context, featuredOnly bool) ([]models.BlogPost, error) {
	q := r.DB(ctx).Model(&models.BlogPost{}).Order("created_at DESC")
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	var list []models.BlogPost
	return list, q.Find(&list).Error
}

func (r *repository) FindBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.DB(ctx).Where("slug = ?", slug).Take(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repository) CreateBlogPost(ctx context.Context, b *models.BlogPost) error {
	return r.DB(ctx).Create(b).Error
}
