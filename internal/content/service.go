package content

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/db/models"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
)

const (
	minRating = 1
	maxRating = 5
)

// productChecker confirms a review targets a real product.
type productChecker interface {
	LoadProduct(ctx context.Context, id string) (*models.Product, error)
}

type Service interface {
	PublishedReviews(ctx context.Context, productID string) ([]ReviewDTO, error)
	AllReviews(ctx context.Context, published *bool) ([]ReviewDTO, error)
	SubmitReview(ctx context.Context, input ReviewInput) (*ReviewDTO, error)
	ModerateReview(ctx context.Context, id string, patch ModerationPatch) (*ReviewDTO, error)

	ListTestimonials(ctx context.Context, featuredOnly bool) ([]TestimonialDTO, error)
	CreateTestimonial(ctx context.Context, input TestimonialInput) (*TestimonialDTO, error)

	ListBlogPosts(ctx context.Context, featuredOnly bool) ([]BlogPostDTO, error)
	GetBlogPost(ctx context.Context, slug string) (*BlogPostDTO, error)
	CreateBlogPost(ctx context.Context, input BlogPostInput) (*BlogPostDTO, error)
}

type ReviewInput struct {
	ProductID     string
	CustomerName  string
	CustomerEmail string
	Rating        int
	Title         string
	Comment       string
}

type ModerationPatch struct {
	IsPublished *bool
	IsVerified  *bool
}

type TestimonialInput struct {
	Name     string
	Avatar   string
	Rating   int
	Review   string
	Featured bool
}

type BlogPostInput struct {
	Title    string
	Slug     string
	Excerpt  string
	Content  string
	Image    *string
	Category string
	Featured bool
}

type service struct {
	repo     Repository
	products productChecker
}

// NewService builds the content service. products may be nil, in which case
// review product ids are not checked.
func NewService(repo Repository, products productChecker) (Service, error) {
	if repo == nil {
		return nil, errors.New("content repository required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) PublishedReviews(ctx context.Context, productID string) ([]ReviewDTO, error) {
	published := true
	list, err := s.repo.ListReviews(ctx, ReviewFilter{ProductID: strings.TrimSpace(productID), Published: &published})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	return newReviewDTOs(list, false), nil
}

func (s *service) AllReviews(ctx context.Context, published *bool) ([]ReviewDTO, error) {
	list, err := s.repo.ListReviews(ctx, ReviewFilter{Published: published})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	return newReviewDTOs(list, true), nil
}

func (s *service) SubmitReview(ctx context.Context, input ReviewInput) (*ReviewDTO, error) {
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %d and %d", minRating, maxRating)
	}
	name := strings.TrimSpace(input.CustomerName)
	comment := strings.TrimSpace(input.Comment)
	productID := strings.TrimSpace(input.ProductID)
	if name == "" || comment == "" || productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId, customerName and comment are required")
	}
	if s.products != nil {
		if _, err := s.products.LoadProduct(ctx, productID); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found")
			}
			return nil, err
		}
	}

	review := &models.Review{
		ProductID:     productID,
		CustomerName:  name,
		CustomerEmail: optional(input.CustomerEmail),
		Rating:        input.Rating,
		Title:         optional(input.Title),
		Comment:       comment,
		IsVerified:    false,
		IsPublished:   false,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	dto := NewReviewDTO(review, false)
	return &dto, nil
}

func (s *service) ModerateReview(ctx context.Context, id string, patch ModerationPatch) (*ReviewDTO, error) {
	if patch.IsPublished == nil && patch.IsVerified == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	review, err := s.repo.FindReview(ctx, strings.TrimSpace(id))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	if patch.IsPublished != nil {
		review.IsPublished = *patch.IsPublished
	}
	if patch.IsVerified != nil {
		review.IsVerified = *patch.IsVerified
	}
	if err := s.repo.SaveReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
	}
	dto := NewReviewDTO(review, true)
	return &dto, nil
}

func (s *service) ListTestimonials(ctx context.Context, featuredOnly bool) ([]TestimonialDTO, error) {
	list, err := s.repo.ListTestimonials(ctx, featuredOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list testimonials")
	}
	out := make([]TestimonialDTO, 0, len(list))
	for i := range list {
		out = append(out, NewTestimonialDTO(&list[i]))
	}
	return out, nil
}

func (s *service) CreateTestimonial(ctx context.Context, input TestimonialInput) (*TestimonialDTO, error) {
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %d and %d", minRating, maxRating)
	}
	t := &models.Testimonial{
		Name:     strings.TrimSpace(input.Name),
		Avatar:   strings.TrimSpace(input.Avatar),
		Rating:   input.Rating,
		Review:   strings.TrimSpace(input.Review),
		Featured: input.Featured,
	}
	if t.Name == "" || t.Review == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and review are required")
	}
	if t.Avatar == "" {
		t.Avatar = initials(t.Name)
	}
	if err := s.repo.CreateTestimonial(ctx, t); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create testimonial")
	}
	dto := NewTestimonialDTO(t)
	return &dto, nil
}

func (s *service) ListBlogPosts(ctx context.Context, featuredOnly bool) ([]BlogPostDTO, error) {
	list, err := s.repo.ListBlogPosts(ctx, featuredOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list blog posts")
	}
	out := make([]BlogPostDTO, 0, len(list))
	for i := range list {
		out = append(out, NewBlogPostDTO(&list[i]))
	}
	return out, nil
}

func (s *service) GetBlogPost(ctx context.Context, slug string) (*BlogPostDTO, error) {
	post, err := s.repo.FindBlogPostBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load blog post")
	}
	dto := NewBlogPostDTO(post)
	return &dto, nil
}

func (s *service) CreateBlogPost(ctx context.Context, input BlogPostInput) (*BlogPostDTO, error) {
	post := &models.BlogPost{
		Title:    strings.TrimSpace(input.Title),
		Slug:     slugify(input.Slug),
		Excerpt:  strings.TrimSpace(input.Excerpt),
		Content:  input.Content,
		Image:    input.Image,
		Category: strings.TrimSpace(input.Category),
		Featured: input.Featured,
	}
	if post.Slug == "" {
		post.Slug = slugify(post.Title)
	}
	if post.Title == "" || post.Slug == "" || strings.TrimSpace(post.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and content are required")
	}
	if err := s.repo.CreateBlogPost(ctx, post); err != nil {
		if db.IsUniqueViolation(err, "slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "blog slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create blog post")
	}
	dto := NewBlogPostDTO(post)
	return &dto, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(v string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(v)), "-"), "-")
}

func initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
