package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/db/models"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/types"
)

// Service exposes catalog reads for the storefront and mutations for admins.
type Service interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id string) (*ProductDTO, error)
	LoadProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, slug string) (*CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id string) error

	Counts(ctx context.Context) (Counts, error)
}

// ProductInput is the validated payload to create a product. Available
// defaults to true when nil.
type ProductInput struct {
	Name            string
	FullProductName string
	Subcategory     *string
	Duration        string
	Description     string
	Features        []string
	Price           int
	OriginalPrice   int
	Discount        int
	Category        string
	Icon            string
	Image           *string
	ActivationTime  string
	Warranty        string
	Notes           *string
	Popular         bool
	Trending        bool
	Available       *bool
	ParentProductID *string
}

// ProductPatch carries optional product changes.
type ProductPatch struct {
	Name            *string
	FullProductName *string
	Subcategory     *string
	Duration        *string
	Description     *string
	Features        *[]string
	Price           *int
	OriginalPrice   *int
	Discount        *int
	Category        *string
	Icon            *string
	Image           *string
	ActivationTime  *string
	Warranty        *string
	Notes           *string
	Popular         *bool
	Trending        *bool
	Available       *bool
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Icon        string
}

type CategoryPatch struct {
	Name        *string
	Slug        *string
	Description *string
	Icon        *string
}

// Counts feeds the health endpoint.
type Counts struct {
	Categories int64
	Products   int64
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return NewProductDTOs(products), nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	p, err := s.LoadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(p)
	return &dto, nil
}

func (s *service) LoadProduct(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := s.requireCategory(ctx, input.Category); err != nil {
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}
	p := &models.Product{
		Name:            strings.TrimSpace(input.Name),
		FullProductName: strings.TrimSpace(input.FullProductName),
		Subcategory:     input.Subcategory,
		Duration:        input.Duration,
		Description:     input.Description,
		Features:        types.StringList(input.Features),
		Price:           input.Price,
		OriginalPrice:   input.OriginalPrice,
		Discount:        input.Discount,
		Category:        input.Category,
		Icon:            input.Icon,
		Image:           input.Image,
		ActivationTime:  input.ActivationTime,
		Warranty:        input.Warranty,
		Notes:           input.Notes,
		Popular:         input.Popular,
		Trending:        input.Trending,
		Available:       available,
	}
	if p.FullProductName == "" {
		p.FullProductName = p.Name
	}
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	if p.Discount == 0 {
		p.Discount = discountPercent(p.Price, p.OriginalPrice)
	}

	if input.ParentProductID != nil && strings.TrimSpace(*input.ParentProductID) != "" {
		parent, err := s.LoadProduct(ctx, *input.ParentProductID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent product not found")
			}
			return nil, err
		}
		p.IsVariant = true
		p.ParentProductID = &parent.ID
		p.ParentProductName = &parent.Name
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := NewProductDTO(p)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*ProductDTO, error) {
	p, err := s.LoadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Category != nil && *patch.Category != p.Category {
		if err := s.requireCategory(ctx, *patch.Category); err != nil {
			return nil, err
		}
		p.Category = *patch.Category
	}

	setString(&p.Name, patch.Name)
	setString(&p.FullProductName, patch.FullProductName)
	setString(&p.Duration, patch.Duration)
	setString(&p.Description, patch.Description)
	setString(&p.Icon, patch.Icon)
	setString(&p.ActivationTime, patch.ActivationTime)
	setString(&p.Warranty, patch.Warranty)
	if patch.Subcategory != nil {
		p.Subcategory = patch.Subcategory
	}
	if patch.Image != nil {
		p.Image = patch.Image
	}
	if patch.Notes != nil {
		p.Notes = patch.Notes
	}
	if patch.Features != nil {
		p.Features = types.StringList(*patch.Features)
	}
	priceChanged := patch.Price != nil || patch.OriginalPrice != nil
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OriginalPrice != nil {
		p.OriginalPrice = *patch.OriginalPrice
	}
	if patch.Discount != nil {
		p.Discount = *patch.Discount
	} else if priceChanged {
		p.Discount = discountPercent(p.Price, p.OriginalPrice)
	}
	if patch.Popular != nil {
		p.Popular = *patch.Popular
	}
	if patch.Trending != nil {
		p.Trending = *patch.Trending
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	dto := NewProductDTO(p)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return NewCategoryDTOs(categories), nil
}

func (s *service) GetCategory(ctx context.Context, slug string) (*CategoryDTO, error) {
	c, err := s.repo.FindCategoryBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	dto := NewCategoryDTO(c)
	return &dto, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	c := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        normalizeSlug(input.Slug, input.Name),
		Description: input.Description,
		Icon:        input.Icon,
	}
	if c.Slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug is required")
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	dto := NewCategoryDTO(c)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*CategoryDTO, error) {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	if patch.Slug != nil {
		slug := normalizeSlug(*patch.Slug, "")
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug is required")
		}
		if slug != c.Slug {
			inUse, err := s.repo.CountProductsInCategory(ctx, c.Slug)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
			}
			if inUse > 0 {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot rename the slug of a category that has products")
			}
			c.Slug = slug
		}
	}
	setString(&c.Name, patch.Name)
	setString(&c.Description, patch.Description)
	setString(&c.Icon, patch.Icon)

	if err := s.repo.SaveCategory(ctx, c); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	dto := NewCategoryDTO(c)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	inUse, err := s.repo.CountProductsInCategory(ctx, c.Slug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has products").
			WithDetails(map[string]any{"products": inUse})
	}
	if _, err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) Counts(ctx context.Context) (Counts, error) {
	categories, err := s.repo.CountCategories(ctx)
	if err != nil {
		return Counts{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return Counts{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return Counts{Categories: categories, Products: products}, nil
}

func (s *service) requireCategory(ctx context.Context, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if _, err := s.repo.FindCategoryBySlug(ctx, slug); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
				WithDetails(map[string]string{"category": slug})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return nil
}

// discountPercent rounds the saving against the original price to a whole
// percent.
func discountPercent(price, original int) int {
	if original <= 0 || price >= original {
		return 0
	}
	return ((original-price)*100 + original/2) / original
}

func normalizeSlug(slug, fallback string) string {
	v := strings.TrimSpace(slug)
	if v == "" {
		v = fallback
	}
	v = strings.ToLower(strings.TrimSpace(v))
	var b strings.Builder
	lastDash := false
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
