package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func mustCreateCategory(t *testing.T, svc Service, slug string) *CategoryDTO {
	t.Helper()
	c, err := svc.CreateCategory(context.Background(), CategoryInput{Name: slug, Slug: slug, Description: slug + " plans", Icon: "tv"})
	require.NoError(t, err)
	return c
}

func mustCreateProduct(t *testing.T, svc Service, category, name string, price int) *ProductDTO {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:           name,
		Duration:       "1 Month",
		Description:    name + " subscription",
		Features:       []string{"HD", "2 screens"},
		Price:          price,
		OriginalPrice:  price * 2,
		Category:       category,
		Icon:           "play",
		ActivationTime: "Instant",
		Warranty:       "Full",
	})
	require.NoError(t, err)
	return p
}
