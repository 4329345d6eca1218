package orders

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/types"
	"github.com/mtsdigital/storefront/pkg/whatsapp"
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

func testProduct(id string, price int) *models.Product {
	return &models.Product{
		ID:             id,
		Name:           "Netflix Premium",
		Duration:       "1 Month",
		Description:    "4K streaming",
		Features:       types.StringList{"4K"},
		Price:          price,
		OriginalPrice:  price,
		Category:       "streaming",
		Icon:           "tv",
		ActivationTime: "Instant",
		Warranty:       "Full",
		Available:      true,
	}
}

type recorderStub struct {
	created []string
	changed []string
}

func (r *recorderStub) OrderCreated(method string) {
	r.created = append(r.created, method)
}

func (r *recorderStub) StatusChanged(status, source string) {
	r.changed = append(r.changed, status+":"+source)
}

func newTestService(t *testing.T, params ServiceParams) (Service, Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	params.Repo = repo
	if params.Handoff == (whatsapp.Handoff{}) {
		params.Handoff = whatsapp.NewHandoff("917496067495")
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc, repo
}
