package orders

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/mtsdigital/storefront/internal/events"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedEvents struct {
	mu   sync.Mutex
	list []events.OrderEvent
}

func (c *capturedEvents) publisher() events.Publisher {
	return events.PublisherFunc(func(_ context.Context, evt events.OrderEvent) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.list = append(c.list, evt)
	})
}

func (c *capturedEvents) types() []enums.OrderEventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]enums.OrderEventType, 0, len(c.list))
	for _, e := range c.list {
		out = append(out, e.Type)
	}
	return out
}

func TestCreateOrderSnapshotsProduct(t *testing.T) {
	ctx := context.Background()
	rec := &recorderStub{}
	captured := &capturedEvents{}
	svc, repo := newTestService(t, ServiceParams{Metrics: rec, Publisher: captured.publisher()})

	product := testProduct("p1", 199)
	placed, err := svc.CreateOrder(ctx, product, enums.PaymentMethodUPI)
	require.NoError(t, err)

	assert.Equal(t, "p1", placed.Order.ProductID)
	assert.Equal(t, 199, placed.Order.Price)
	assert.Equal(t, "Netflix Premium", placed.Order.ProductName)
	assert.Equal(t, enums.OrderStatusPending, placed.Order.Status)
	assert.Equal(t, enums.PaymentMethodUPI, placed.Order.PaymentMethod)
	assert.False(t, placed.Order.WhatsAppSent)
	assert.True(t, strings.HasPrefix(placed.Order.OrderID, "MTS"))

	link, err := url.Parse(placed.WhatsAppURL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	text := link.Query().Get("text")
	assert.Contains(t, text, placed.Order.OrderID)
	assert.Contains(t, text, "Netflix Premium")

	assert.Equal(t, []string{"upi"}, rec.created)
	assert.Equal(t, []enums.OrderEventType{enums.OrderEventCreated}, captured.types())

	// Later product changes do not touch the stored order.
	product.Price = 999
	product.Name = "Renamed"
	stored, err := repo.FindByOrderID(ctx, placed.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 199, stored.Price)
	assert.Equal(t, "Netflix Premium", stored.ProductName)
}

func TestCreateOrderRejectsBeforePersisting(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, ServiceParams{})

	unavailable := testProduct("p1", 100)
	unavailable.Available = false

	cases := []struct {
		name    string
		product *models.Product
		method  enums.PaymentMethod
	}{
		{"nil product", nil, enums.PaymentMethodUPI},
		{"unavailable", unavailable, enums.PaymentMethodUPI},
		{"empty method", testProduct("p2", 100), ""},
		{"unknown method", testProduct("p3", 100), "card"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.product, tc.method)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}

	n, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateOrderRegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"MTSAAAAAAAAAA", "MTSAAAAAAAAAA", "MTSBBBBBBBBBB"}
	next := 0
	gen := IDGeneratorFunc(func() string {
		id := ids[next]
		next++
		return id
	})
	svc, _ := newTestService(t, ServiceParams{IDs: gen})

	first, err := svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodGPay)
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodGPay)
	require.NoError(t, err)

	assert.Equal(t, "MTSAAAAAAAAAA", first.Order.OrderID)
	assert.Equal(t, "MTSBBBBBBBBBB", second.Order.OrderID)
}

func TestCreateOrderGivesUpAfterBoundedAttempts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, ServiceParams{IDs: IDGeneratorFunc(func() string { return "MTSFIXED00000" })})

	_, err := svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodPaytm)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodPaytm)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestDuplicateSubmissionsCreateDistinctOrders(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, ServiceParams{})
	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodUPI)
		require.NoError(t, err)
	}
	n, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	rec := &recorderStub{}
	captured := &capturedEvents{}
	svc, _ := newTestService(t, ServiceParams{Metrics: rec, Publisher: captured.publisher()})

	placed, err := svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodUPI)
	require.NoError(t, err)
	id := placed.Order.OrderID

	updated, err := svc.UpdateStatus(ctx, id, enums.OrderStatusCompleted, SourceCallback)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, updated.Status)

	again, err := svc.UpdateStatus(ctx, id, enums.OrderStatusCompleted, SourceCallback)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, again.Status)

	_, err = svc.UpdateStatus(ctx, id, enums.OrderStatusFailed, SourceAdmin)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.UpdateStatus(ctx, id, enums.OrderStatusPending, SourceAdmin)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.UpdateStatus(ctx, id, "shipped", SourceAdmin)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.UpdateStatus(ctx, "MTSMISSING000", enums.OrderStatusFailed, SourceAdmin)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	assert.Equal(t, []string{"completed:callback"}, rec.changed)
	assert.Equal(t, []enums.OrderEventType{enums.OrderEventCreated, enums.OrderEventStatusChanged}, captured.types())
}

func TestMarkWhatsAppSentAndAttachTransaction(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, ServiceParams{})

	placed, err := svc.CreateOrder(ctx, testProduct("p1", 100), enums.PaymentMethodUPI)
	require.NoError(t, err)
	id := placed.Order.OrderID

	dto, err := svc.MarkWhatsAppSent(ctx, id)
	require.NoError(t, err)
	assert.True(t, dto.WhatsAppSent)

	require.NoError(t, svc.AttachTransaction(ctx, id, "txn_1"))
	require.True(t, pkgerrors.IsCode(svc.AttachTransaction(ctx, id, " "), pkgerrors.CodeValidation))

	stored, err := repo.FindByTransactionID(ctx, "txn_1")
	require.NoError(t, err)
	assert.Equal(t, id, stored.OrderID)
	assert.True(t, stored.WhatsAppSent)
}

func TestListAndStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, ServiceParams{})

	a := testProduct("pa", 100)
	b := testProduct("pb", 300)
	b.Name = "NordVPN"

	var ids []string
	for _, p := range []*models.Product{a, a, b} {
		placed, err := svc.CreateOrder(ctx, p, enums.PaymentMethodUPI)
		require.NoError(t, err)
		ids = append(ids, placed.Order.OrderID)
	}
	_, err := svc.UpdateStatus(ctx, ids[0], enums.OrderStatusCompleted, SourceAdmin)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, ids[2], enums.OrderStatusCompleted, SourceAdmin)
	require.NoError(t, err)

	pending := enums.OrderStatusPending
	list, err := svc.List(ctx, ListFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ids[1], list[0].OrderID)

	bogus := enums.OrderStatus("bogus")
	_, err = svc.List(ctx, ListFilter{Status: &bogus})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 2, stats.CompletedOrders)
	assert.EqualValues(t, 400, stats.TotalRevenue)
	assert.Len(t, stats.RecentOrders, 3)
	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, "pa", stats.TopProducts[0].ProductID)
	assert.EqualValues(t, 2, stats.TopProducts[0].Orders)
	assert.Equal(t, "NordVPN", stats.TopProducts[1].ProductName)
}

func TestRecordCallback(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, ServiceParams{})
	require.True(t, pkgerrors.IsCode(svc.RecordCallback(ctx, nil), pkgerrors.CodeValidation))
	require.NoError(t, svc.RecordCallback(ctx, &models.PaymentCallback{Payload: map[string]any{"order_id": "MTS1"}}))
}

func TestCreateCustomerOrderStoresCustomer(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, ServiceParams{})

	placed, err := svc.CreateCustomerOrder(ctx, testProduct("p1", 100), enums.PaymentMethodUPI, Customer{Name: " Asha ", Email: ""})
	require.NoError(t, err)

	stored, err := repo.FindByOrderID(ctx, placed.Order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, stored.CustomerName)
	assert.Equal(t, "Asha", *stored.CustomerName)
	assert.Nil(t, stored.CustomerEmail)

	_, err = svc.GetByTransactionID(ctx, "txn_missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
