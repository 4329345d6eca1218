package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/analytics"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/gateway"
	"github.com/mtsdigital/storefront/pkg/types"
)

type stubCheckout struct {
	placeFn    func(ctx context.Context, in checkout.PlaceOrderInput) (*orders.Placed, error)
	startFn    func(ctx context.Context, in checkout.StartPaymentInput) (*checkout.PaymentResult, error)
	callbackFn func(ctx context.Context, payload map[string]any, signature string) (*checkout.CallbackResult, error)
	statusFn   func(ctx context.Context, txID string) (gateway.StatusResult, error)
}

func (s *stubCheckout) PlaceOrder(ctx context.Context, in checkout.PlaceOrderInput) (*orders.Placed, error) {
	return s.placeFn(ctx, in)
}

func (s *stubCheckout) StartPayment(ctx context.Context, in checkout.StartPaymentInput) (*checkout.PaymentResult, error) {
	return s.startFn(ctx, in)
}

func (s *stubCheckout) HandleCallback(ctx context.Context, payload map[string]any, signature string) (*checkout.CallbackResult, error) {
	return s.callbackFn(ctx, payload, signature)
}

func (s *stubCheckout) PaymentStatus(ctx context.Context, txID string) (gateway.StatusResult, error) {
	return s.statusFn(ctx, txID)
}

// stubOrders embeds the interface so tests only override what they call.
type stubOrders struct {
	orders.Service
	getFn    func(ctx context.Context, orderID string) (*orders.OrderDTO, error)
	updateFn func(ctx context.Context, orderID string, status enums.OrderStatus, source string) (*orders.OrderDTO, error)
	listFn   func(ctx context.Context, filter orders.ListFilter) ([]orders.OrderDTO, error)
}

func (s *stubOrders) Get(ctx context.Context, orderID string) (*orders.OrderDTO, error) {
	return s.getFn(ctx, orderID)
}

func (s *stubOrders) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus, source string) (*orders.OrderDTO, error) {
	return s.updateFn(ctx, orderID, status, source)
}

func (s *stubOrders) List(ctx context.Context, filter orders.ListFilter) ([]orders.OrderDTO, error) {
	return s.listFn(ctx, filter)
}

type stubCatalog struct {
	catalog.Service
	counts    catalog.Counts
	countsErr error
	listFn    func(ctx context.Context, filter catalog.ProductFilter) ([]catalog.ProductDTO, error)
}

func (s *stubCatalog) Counts(context.Context) (catalog.Counts, error) {
	return s.counts, s.countsErr
}

func (s *stubCatalog) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]catalog.ProductDTO, error) {
	return s.listFn(ctx, filter)
}

type stubAdmins struct {
	admins.Service
	loginFn  func(ctx context.Context, in admins.LoginInput) (*admins.LoginResult, error)
	logoutFn func(ctx context.Context, token, ip string) error
}

func (s *stubAdmins) Login(ctx context.Context, in admins.LoginInput) (*admins.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAdmins) Logout(ctx context.Context, token, ip string) error {
	return s.logoutFn(ctx, token, ip)
}

type stubAnalytics struct {
	analytics.Service
	tracked []analytics.TrackInput
	err     error
}

func (s *stubAnalytics) Track(_ context.Context, in analytics.TrackInput) error {
	s.tracked = append(s.tracked, in)
	return s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rc := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rc.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var env types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}
