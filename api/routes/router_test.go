package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/metrics"
)

type stubCatalog struct {
	catalog.Service
}

func (stubCatalog) Counts(context.Context) (catalog.Counts, error) {
	return catalog.Counts{Categories: 6, Products: 17}, nil
}

type stubAdmins struct {
	admins.Service
	role enums.AdminRole
}

func (s stubAdmins) Authenticate(_ context.Context, token string) (*admins.Principal, error) {
	return &admins.Principal{
		Admin:     admins.AdminDTO{ID: "admin-1", Username: "admin", Role: s.role, IsActive: true},
		SessionID: token,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type countingCheckout struct {
	checkout.Service
	placed int
}

func (c *countingCheckout) PlaceOrder(_ context.Context, in checkout.PlaceOrderInput) (*orders.Placed, error) {
	c.placed++
	return &orders.Placed{
		Order:       orders.OrderDTO{OrderID: "MTS0A1B2C3D4E", ProductID: in.ProductID, PaymentMethod: in.PaymentMethod},
		WhatsAppURL: "https://wa.me/917496067495",
	}, nil
}

type mapIdempotencyStore struct {
	data map[string]string
}

func (m *mapIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *mapIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *mapIdempotencyStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *mapIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mapIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

type denyLimiter struct {
	scopes []string
}

func (d *denyLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	d.scopes = append(d.scopes, scope)
	return false, limit + 1, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: config.AppEnvDev},
		Session:   config.SessionConfig{CookieName: "mts.sid"},
		RateLimit: config.RateLimitConfig{PublicWindow: time.Minute, PublicIPLimit: 5},
	}
}

func newTestRouter(t *testing.T, mutate func(*Params)) http.Handler {
	t.Helper()
	p := Params{
		Config:  testConfig(),
		Logger:  logger.Nop(),
		Catalog: stubCatalog{},
		Admins:  stubAdmins{role: enums.AdminRoleAdmin},
	}
	if mutate != nil {
		mutate(&p)
	}
	return NewRouter(p)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestUnknownAPIRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "API endpoint not found")
}

func TestAdminRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: "mts.sid", Value: "sess-1"})
	rec = serve(router, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)
}

func TestAdminLogsRequireSuperAdmin(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/logs", nil)
	req.AddCookie(&http.Cookie{Name: "mts.sid", Value: "sess-1"})

	rec := serve(router, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPublicWritesAreRateLimited(t *testing.T) {
	limiter := &denyLimiter{}
	router := newTestRouter(t, func(p *Params) { p.Limiter = limiter })

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.7:4411"
	rec := serve(router, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Len(t, limiter.scopes, 1)
	assert.Equal(t, "public:ip:203.0.113.7", limiter.scopes[0])
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(t, func(p *Params) {
		p.HTTPMetrics = metrics.NewHTTPMetrics(reg)
		p.Gatherer = reg
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mts_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/health"`)
}

func TestStaticDirServesSPA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>mts</html>"), 0o644))

	router := newTestRouter(t, func(p *Params) { p.Config.App.StaticDir = dir })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/products/netflix", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mts")

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderCreationReplaysWithIdempotencyKey(t *testing.T) {
	svc := &countingCheckout{}
	store := &mapIdempotencyStore{data: map[string]string{}}
	router := newTestRouter(t, func(p *Params) {
		p.Checkout = svc
		p.Idempotency = store
	})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"productId":"p1","paymentMethod":"upi"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "order-42")
		return serve(router, req)
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	second := post()
	require.Equal(t, http.StatusCreated, second.Code)

	assert.Equal(t, 1, svc.placed, "repeat must not place a second order")
	assert.Len(t, store.data, 1)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}
