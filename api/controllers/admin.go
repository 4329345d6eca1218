package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/content"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type dashboardSource interface {
	Stats(ctx context.Context) (*admins.DashboardStats, error)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
}

type moderateReviewRequest struct {
	IsPublished *bool `json:"isPublished"`
	IsVerified  *bool `json:"isVerified"`
}

type testimonialRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Avatar   string `json:"avatar" validate:"omitempty,max=1000"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Review   string `json:"review" validate:"required,max=5000"`
	Featured bool   `json:"featured"`
}

type blogPostRequest struct {
	Title    string  `json:"title" validate:"required,max=300"`
	Slug     string  `json:"slug" validate:"omitempty,slug,max=300"`
	Excerpt  string  `json:"excerpt" validate:"required,max=1000"`
	Content  string  `json:"content" validate:"required"`
	Image    *string `json:"image" validate:"omitempty,max=1000"`
	Category string  `json:"category" validate:"required,max=100"`
	Featured bool    `json:"featured"`
}

func AdminStats(dashboard dashboardSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := dashboard.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := orders.ListFilter{Limit: limit}
		if raw := validators.QueryString(r, "status", 20); raw != "" {
			status := enums.OrderStatus(raw)
			filter.Status = &status
		}
		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminUpdateOrderStatus(svc orders.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateStatusRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateStatus(r.Context(), orderID, enums.OrderStatus(req.Status), orders.SourceAdmin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionOrderStatus, order.OrderID, req.Status)
		responses.WriteSuccess(w, order)
	}
}

func AdminListReviews(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		published, err := validators.ParseQueryBool(r, "published")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reviews, err := svc.AllReviews(r.Context(), published)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reviews)
	}
}

func AdminModerateReview(svc content.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req moderateReviewRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		review, err := svc.ModerateReview(r.Context(), id, content.ModerationPatch{
			IsPublished: req.IsPublished,
			IsVerified:  req.IsVerified,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionReviewModerate, review.ID,
			fmt.Sprintf("published=%t verified=%t", review.IsPublished, review.IsVerified))
		responses.WriteSuccess(w, review)
	}
}

func AdminCreateTestimonial(svc content.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testimonialRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		testimonial, err := svc.CreateTestimonial(r.Context(), content.TestimonialInput{
			Name:     req.Name,
			Avatar:   req.Avatar,
			Rating:   req.Rating,
			Review:   req.Review,
			Featured: req.Featured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionTestimonialAdd, testimonial.ID, testimonial.Name)
		responses.WriteCreated(w, testimonial)
	}
}

func AdminCreateBlogPost(svc content.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogPostRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		post, err := svc.CreateBlogPost(r.Context(), content.BlogPostInput{
			Title:    req.Title,
			Slug:     req.Slug,
			Excerpt:  req.Excerpt,
			Content:  req.Content,
			Image:    req.Image,
			Category: req.Category,
			Featured: req.Featured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionBlogPostPublish, post.ID, post.Slug)
		responses.WriteCreated(w, post)
	}
}

func AdminLogs(auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := auditor.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
