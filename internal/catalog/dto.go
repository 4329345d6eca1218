package catalog

import (
	"time"

	"github.com/mtsdigital/storefront/pkg/db/models"
)

// ProductDTO is the public representation of a product.
type ProductDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	FullProductName   string    `json:"fullProductName"`
	Subcategory       *string   `json:"subcategory"`
	Duration          string    `json:"duration"`
	Description       string    `json:"description"`
	Features          []string  `json:"features"`
	Price             int       `json:"price"`
	OriginalPrice     int       `json:"originalPrice"`
	Discount          int       `json:"discount"`
	Category          string    `json:"category"`
	Icon              string    `json:"icon"`
	Image             *string   `json:"image"`
	ActivationTime    string    `json:"activationTime"`
	Warranty          string    `json:"warranty"`
	Notes             *string   `json:"notes"`
	Popular           bool      `json:"popular"`
	Trending          bool      `json:"trending"`
	Available         bool      `json:"available"`
	IsVariant         bool      `json:"isVariant"`
	ParentProductID   *string   `json:"parentProductId"`
	ParentProductName *string   `json:"parentProductName"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CategoryDTO is the public representation of a category.
type CategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func NewProductDTO(p *models.Product) ProductDTO {
	features := []string(p.Features)
	if features == nil {
		features = []string{}
	}
	return ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		FullProductName:   p.FullProductName,
		Subcategory:       p.Subcategory,
		Duration:          p.Duration,
		Description:       p.Description,
		Features:          features,
		Price:             p.Price,
		OriginalPrice:     p.OriginalPrice,
		Discount:          p.Discount,
		Category:          p.Category,
		Icon:              p.Icon,
		Image:             p.Image,
		ActivationTime:    p.ActivationTime,
		Warranty:          p.Warranty,
		Notes:             p.Notes,
		Popular:           p.Popular,
		Trending:          p.Trending,
		Available:         p.Available,
		IsVariant:         p.IsVariant,
		ParentProductID:   p.ParentProductID,
		ParentProductName: p.ParentProductName,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, NewProductDTO(&products[i]))
	}
	return out
}

func NewCategoryDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
	}
}

func NewCategoryDTOs(categories []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryDTO(&categories[i]))
	}
	return out
}
