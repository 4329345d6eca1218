package content

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mtsdigital/storefront/pkg/db/models"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type productsStub struct {
	loadFn func(ctx context.Context, id string) (*models.Product, error)
}

func (p productsStub) LoadProduct(ctx context.Context, id string) (*models.Product, error) {
	return p.loadFn(ctx, id)
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	products := productsStub{loadFn: func(_ context.Context, id string) (*models.Product, error) {
		if id != "p1" {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return &models.Product{ID: id}, nil
	}}
	svc, err := NewService(NewRepository(conn), products)
	require.NoError(t, err)
	return svc
}

func TestReviewModerationFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	review, err := svc.SubmitReview(ctx, ReviewInput{
		ProductID:     "p1",
		CustomerName:  "Ravi",
		CustomerEmail: "ravi@example.com",
		Rating:        5,
		Comment:       "Activated in minutes",
	})
	require.NoError(t, err)
	assert.False(t, review.IsPublished)
	assert.Nil(t, review.CustomerEmail)

	published, err := svc.PublishedReviews(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, published)

	all, err := svc.AllReviews(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].CustomerEmail)

	yes := true
	moderated, err := svc.ModerateReview(ctx, review.ID, ModerationPatch{IsPublished: &yes, IsVerified: &yes})
	require.NoError(t, err)
	assert.True(t, moderated.IsPublished)
	assert.True(t, moderated.IsVerified)

	published, err = svc.PublishedReviews(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Nil(t, published[0].CustomerEmail)

	others, err := svc.PublishedReviews(ctx, "p2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestSubmitReviewValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	cases := map[string]ReviewInput{
		"rating too low":  {ProductID: "p1", CustomerName: "A", Rating: 0, Comment: "x"},
		"rating too high": {ProductID: "p1", CustomerName: "A", Rating: 6, Comment: "x"},
		"missing comment": {ProductID: "p1", CustomerName: "A", Rating: 3},
		"unknown product": {ProductID: "nope", CustomerName: "A", Rating: 3, Comment: "x"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SubmitReview(ctx, input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}

	yes := true
	_, err := svc.ModerateReview(ctx, "missing", ModerationPatch{IsPublished: &yes})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.ModerateReview(ctx, "missing", ModerationPatch{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestTestimonials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.CreateTestimonial(ctx, TestimonialInput{Name: "priya sharma", Rating: 5, Review: "Great", Featured: true})
	require.NoError(t, err)
	assert.Equal(t, "PS", first.Avatar)
	_, err = svc.CreateTestimonial(ctx, TestimonialInput{Name: "Arjun", Avatar: "AK", Rating: 4, Review: "Good"})
	require.NoError(t, err)

	_, err = svc.CreateTestimonial(ctx, TestimonialInput{Name: "X", Rating: 9, Review: "?"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	all, err := svc.ListTestimonials(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	featured, err := svc.ListTestimonials(ctx, true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "priya sharma", featured[0].Name)
}

func TestBlogPosts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	post, err := svc.CreateBlogPost(ctx, BlogPostInput{Title: "Best VPNs of 2024!", Content: "body", Category: "vpn", Featured: true})
	require.NoError(t, err)
	assert.Equal(t, "best-vpns-of-2024", post.Slug)

	_, err = svc.CreateBlogPost(ctx, BlogPostInput{Title: "Other", Slug: "best-vpns-of-2024", Content: "body"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.CreateBlogPost(ctx, BlogPostInput{Title: "Plain", Content: "body"})
	require.NoError(t, err)

	got, err := svc.GetBlogPost(ctx, "best-vpns-of-2024")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	_, err = svc.GetBlogPost(ctx, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	featured, err := svc.ListBlogPosts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	all, err := svc.ListBlogPosts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
