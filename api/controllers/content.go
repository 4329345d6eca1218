package controllers

import (
	"net/http"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/content"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type submitReviewRequest struct {
	ProductID     string `json:"productId" validate:"required,max=64"`
	CustomerName  string `json:"customerName" validate:"required,max=200"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email,max=200"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Title         string `json:"title" validate:"omitempty,max=200"`
	Comment       string `json:"comment" validate:"required,max=5000"`
}

func ListReviews(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := svc.PublishedReviews(r.Context(), validators.QueryString(r, "productId", 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reviews)
	}
}

// SubmitReview stores a review for moderation; it is not listed publicly
// until an admin publishes it.
func SubmitReview(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReviewRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		review, err := svc.SubmitReview(r.Context(), content.ReviewInput{
			ProductID:     req.ProductID,
			CustomerName:  validators.SanitizeString(req.CustomerName, 200),
			CustomerEmail: req.CustomerEmail,
			Rating:        req.Rating,
			Title:         validators.SanitizeString(req.Title, 200),
			Comment:       validators.SanitizeString(req.Comment, 5000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, review)
	}
}

func ListTestimonials(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListTestimonials(r.Context(), featured != nil && *featured)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ListBlogPosts(svc content.Service, featuredOnly bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.ListBlogPosts(r.Context(), featuredOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, posts)
	}
}

func GetBlogPost(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := pathParam(r, "slug")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		post, err := svc.GetBlogPost(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}
