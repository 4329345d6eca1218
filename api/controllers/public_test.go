package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/gateway"
	"github.com/mtsdigital/storefront/pkg/logger"
)

func testConfig(env string) *config.Config {
	return &config.Config{App: config.AppConfig{Env: env}}
}

func pendingOrder() orders.OrderDTO {
	return orders.OrderDTO{
		ID:            "row-1",
		OrderID:       "MTS0A1B2C3D4E",
		ProductID:     "p1",
		ProductName:   "Netflix Premium",
		Price:         199,
		PaymentMethod: enums.PaymentMethodUPI,
		Status:        enums.OrderStatusPending,
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		counter := &stubCatalog{counts: catalog.Counts{Categories: 3, Products: 12}}
		rec := httptest.NewRecorder()
		Health(testConfig("development"), stubPinger{}, counter, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body healthResponse
		decodeData(t, rec, &body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "development", body.Environment)
		assert.EqualValues(t, 3, body.CategoriesCount)
		assert.EqualValues(t, 12, body.ProductsCount)
		assert.Equal(t, "connected", body.Database)
	})

	t.Run("database down", func(t *testing.T) {
		counter := &stubCatalog{}
		rec := httptest.NewRecorder()
		Health(testConfig("production"), stubPinger{err: errors.New("connection refused")}, counter, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body healthResponse
		decodeData(t, rec, &body)
		assert.Equal(t, "unhealthy", body.Status)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("count failure", func(t *testing.T) {
		counter := &stubCatalog{countsErr: errors.New("no such table")}
		rec := httptest.NewRecorder()
		Health(testConfig("production"), nil, counter, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestListProductsParsesFilters(t *testing.T) {
	var got catalog.ProductFilter
	svc := &stubCatalog{listFn: func(_ context.Context, f catalog.ProductFilter) ([]catalog.ProductDTO, error) {
		got = f
		return []catalog.ProductDTO{{ID: "p1"}}, nil
	}}

	rec := httptest.NewRecorder()
	ListProducts(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?category=ott&popular=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ott", got.Category)
	require.NotNil(t, got.Popular)
	assert.True(t, *got.Popular)
	assert.Nil(t, got.Trending)

	rec = httptest.NewRecorder()
	ListProducts(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?trending=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	var got checkout.PlaceOrderInput
	svc := &stubCheckout{placeFn: func(_ context.Context, in checkout.PlaceOrderInput) (*orders.Placed, error) {
		got = in
		return &orders.Placed{Order: pendingOrder(), WhatsAppURL: "https://wa.me/917496067495?text=hi"}, nil
	}}

	t.Run("accepts and ignores client supplied fields", func(t *testing.T) {
		body := `{"productId":"p1","paymentMethod":"upi","orderId":"MTSFAKE","productName":"x","price":1,"status":"completed","whatsappSent":true}`
		rec := httptest.NewRecorder()
		CreateOrder(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/orders", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, checkout.PlaceOrderInput{ProductID: "p1", PaymentMethod: enums.PaymentMethodUPI}, got)
		var placed orders.Placed
		decodeData(t, rec, &placed)
		assert.Equal(t, "MTS0A1B2C3D4E", placed.Order.OrderID)
		assert.Equal(t, enums.OrderStatusPending, placed.Order.Status)
		assert.NotEmpty(t, placed.WhatsAppURL)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CreateOrder(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/orders", `{"productId":"p1","paymentMethod":"bitcoin"}`))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, rec).Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CreateOrder(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/orders", `{"productId":"p1","paymentMethod":"upi","coupon":"FREE"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("relays service errors", func(t *testing.T) {
		failing := &stubCheckout{placeFn: func(context.Context, checkout.PlaceOrderInput) (*orders.Placed, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
		}}
		rec := httptest.NewRecorder()
		CreateOrder(failing, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/orders", `{"productId":"p2","paymentMethod":"gpay"}`))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "product is not available", decodeError(t, rec).Message)
	})
}

func TestGetOrderNotFound(t *testing.T) {
	svc := &stubOrders{getFn: func(context.Context, string) (*orders.OrderDTO, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}}
	rec := httptest.NewRecorder()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/orders/MTSX", nil), "orderId", "MTSX")
	GetOrder(svc, logger.Nop()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePayment(t *testing.T) {
	placed := &orders.Placed{Order: pendingOrder(), WhatsAppURL: "https://wa.me/1"}

	t.Run("success", func(t *testing.T) {
		var got checkout.StartPaymentInput
		svc := &stubCheckout{startFn: func(_ context.Context, in checkout.StartPaymentInput) (*checkout.PaymentResult, error) {
			got = in
			return &checkout.PaymentResult{Placed: placed, Gateway: gateway.CreateResult{
				Kind: gateway.KindSuccess, PaymentURL: "https://pay.example/t1", TransactionID: "t1",
			}}, nil
		}}
		rec := httptest.NewRecorder()
		body := `{"productId":"p1","paymentMethod":"paytm","customerName":"  Asha  ","customerEmail":"asha@example.com"}`
		CreatePayment(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/payments/create", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Asha", got.CustomerName)
		var resp createPaymentResponse
		decodeData(t, rec, &resp)
		assert.Equal(t, "https://pay.example/t1", resp.PaymentURL)
		assert.Equal(t, "t1", resp.TransactionID)
		assert.Equal(t, placed.Order.OrderID, resp.Order.OrderID)
	})

	t.Run("gateway failure maps to 502 with kind", func(t *testing.T) {
		svc := &stubCheckout{startFn: func(context.Context, checkout.StartPaymentInput) (*checkout.PaymentResult, error) {
			return &checkout.PaymentResult{Placed: placed, Gateway: gateway.CreateResult{
				Kind: gateway.KindNetworkError, Message: "Network error: unable to reach payment gateway",
			}}, nil
		}}
		rec := httptest.NewRecorder()
		CreatePayment(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/payments/create", `{"productId":"p1","paymentMethod":"upi"}`))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		apiErr := decodeError(t, rec)
		assert.Equal(t, "Network error: unable to reach payment gateway", apiErr.Message)
		details, ok := apiErr.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, string(gateway.KindNetworkError), details["kind"])
		assert.Equal(t, placed.Order.OrderID, details["orderId"])
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CreatePayment(&stubCheckout{}, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/payments/create", `{"productId":"p1","paymentMethod":"upi","customerEmail":"nope"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPaymentStatus(t *testing.T) {
	cases := []struct {
		name   string
		result gateway.StatusResult
		want   int
	}{
		{"found", gateway.StatusResult{Outcome: gateway.OutcomeFound, Status: &gateway.PaymentStatus{TransactionID: "t1", Status: "completed"}}, http.StatusOK},
		{"not found", gateway.StatusResult{Outcome: gateway.OutcomeNotFound}, http.StatusNotFound},
		{"unavailable", gateway.StatusResult{Outcome: gateway.OutcomeUnavailable, Err: errors.New("timeout")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCheckout{statusFn: func(_ context.Context, txID string) (gateway.StatusResult, error) {
				assert.Equal(t, "t1", txID)
				return tc.result, nil
			}}
			rec := httptest.NewRecorder()
			req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/payments/status/t1", nil), "transactionId", "t1")
			PaymentStatus(svc, logger.Nop()).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestPaymentCallback(t *testing.T) {
	t.Run("passes header signature and exact numbers", func(t *testing.T) {
		var gotSig string
		var gotAmount any
		svc := &stubCheckout{callbackFn: func(_ context.Context, payload map[string]any, signature string) (*checkout.CallbackResult, error) {
			gotSig = signature
			gotAmount = payload["amount"]
			return &checkout.CallbackResult{OrderID: "MTS1", TransactionID: "t1", Status: enums.OrderStatusCompleted, Outcome: checkout.CallbackApplied}, nil
		}}
		req := jsonRequest(http.MethodPost, "/api/payments/callback", `{"orderId":"MTS1","transactionId":"t1","status":"success","amount":199.00}`)
		req.Header.Set("X-Signature", "abc123")
		rec := httptest.NewRecorder()
		PaymentCallback(svc, logger.Nop()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc123", gotSig)
		assert.Equal(t, json.Number("199.00"), gotAmount)
		var resp callbackResponse
		decodeData(t, rec, &resp)
		assert.Equal(t, checkout.CallbackApplied, resp.Outcome)
	})

	t.Run("invalid signature", func(t *testing.T) {
		svc := &stubCheckout{callbackFn: func(context.Context, map[string]any, string) (*checkout.CallbackResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid callback signature")
		}}
		rec := httptest.NewRecorder()
		PaymentCallback(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/payments/callback", `{"orderId":"MTS1"}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non object body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		PaymentCallback(&stubCheckout{}, logger.Nop()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/payments/callback", `null`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTrackEvent(t *testing.T) {
	svc := &stubAnalytics{}
	req := jsonRequest(http.MethodPost, "/api/analytics/track", `{"event":"page_view","data":{"path":"/"},"sessionId":"s-1"}`)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	TrackEvent(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.tracked, 1)
	assert.Equal(t, "s-1", svc.tracked[0].SessionID)
	assert.Equal(t, "203.0.113.9", svc.tracked[0].IPAddress)
	assert.Equal(t, "test-agent", svc.tracked[0].UserAgent)
}

func TestAPINotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	APINotFound().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "API endpoint not found", apiErr.Message)
}

func TestSPAFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o600))

	handler := SPA(dir)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/netflix", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
