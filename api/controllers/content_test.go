package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtsdigital/storefront/internal/content"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type stubContent struct {
	content.Service
	submitted []content.ReviewInput
	featured  []bool
	posts     map[string]content.BlogPostDTO
}

func (s *stubContent) SubmitReview(_ context.Context, in content.ReviewInput) (*content.ReviewDTO, error) {
	s.submitted = append(s.submitted, in)
	return &content.ReviewDTO{ID: "r1", ProductID: in.ProductID, Rating: in.Rating, Comment: in.Comment}, nil
}

func (s *stubContent) ListTestimonials(_ context.Context, featuredOnly bool) ([]content.TestimonialDTO, error) {
	s.featured = append(s.featured, featuredOnly)
	return []content.TestimonialDTO{}, nil
}

func (s *stubContent) GetBlogPost(_ context.Context, slug string) (*content.BlogPostDTO, error) {
	post, ok := s.posts[slug]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog post not found")
	}
	return &post, nil
}

func TestSubmitReview(t *testing.T) {
	svc := &stubContent{}
	handler := SubmitReview(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/reviews",
		`{"productId":"p1","customerName":"  Priya\u0007 ","rating":5,"comment":"Works great"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "Priya", svc.submitted[0].CustomerName)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/reviews",
		`{"productId":"p1","customerName":"Priya","rating":6,"comment":"too good"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, svc.submitted, 1, "invalid rating must not reach the service")
}

func TestListTestimonialsFeaturedFlag(t *testing.T) {
	svc := &stubContent{}
	handler := ListTestimonials(svc, logger.Nop())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/testimonials?featured=true", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/testimonials", nil))
	assert.Equal(t, []bool{true, false}, svc.featured)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/testimonials?featured=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBlogPost(t *testing.T) {
	svc := &stubContent{posts: map[string]content.BlogPostDTO{"vpn-guide": {Slug: "vpn-guide", Title: "VPN guide"}}}
	handler := GetBlogPost(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/api/blog/vpn-guide", nil), "slug", "vpn-guide"))
	require.Equal(t, http.StatusOK, rec.Code)
	var post content.BlogPostDTO
	decodeData(t, rec, &post)
	assert.Equal(t, "VPN guide", post.Title)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/api/blog/missing", nil), "slug", "missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), decodeError(t, rec).Code)
}
