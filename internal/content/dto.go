package content

import (
	"time"

	"github.com/mtsdigital/storefront/pkg/db/models"
)

type ReviewDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail *string   `json:"customerEmail,omitempty"`
	Rating        int       `json:"rating"`
	Title         *string   `json:"title,omitempty"`
	Comment       string    `json:"comment"`
	IsVerified    bool      `json:"isVerified"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewReviewDTO maps a review. Public listings pass includeEmail=false.
func NewReviewDTO(r *models.Review, includeEmail bool) ReviewDTO {
	dto := ReviewDTO{
		ID:           r.ID,
		ProductID:    r.ProductID,
		CustomerName: r.CustomerName,
		Rating:       r.Rating,
		Title:        r.Title,
		Comment:      r.Comment,
		IsVerified:   r.IsVerified,
		IsPublished:  r.IsPublished,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if includeEmail {
		dto.CustomerEmail = r.CustomerEmail
	}
	return dto
}

func newReviewDTOs(list []models.Review, includeEmail bool) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(list))
	for i := range list {
		out = append(out, NewReviewDTO(&list[i], includeEmail))
	}
	return out
}

type TestimonialDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`
	Featured bool   `json:"featured"`
}

func NewTestimonialDTO(t *models.Testimonial) TestimonialDTO {
	return TestimonialDTO{ID: t.ID, Name: t.Name, Avatar: t.Avatar, Rating: t.Rating, Review: t.Review, Featured: t.Featured}
}

type BlogPostDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Image     *string   `json:"image,omitempty"`
	Category  string    `json:"category"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewBlogPostDTO(b *models.BlogPost) BlogPostDTO {
	return BlogPostDTO{
		ID:        b.ID,
		Title:     b.Title,
		Slug:      b.Slug,
		Excerpt:   b.Excerpt,
		Content:   b.Content,
		Image:     b.Image,
		Category:  b.Category,
		Featured:  b.Featured,
		CreatedAt: b.CreatedAt,
	}
}
