package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtsdigital/storefront/api/controllers"
	"github.com/mtsdigital/storefront/api/middleware"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/analytics"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/content"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/metrics"
	pkgredis "github.com/mtsdigital/storefront/pkg/redis"
)

// RateLimiter is satisfied by *redis.Client.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params carries everything the router mounts. Redis-backed pieces
// (Idempotency, Limiter), Metrics, Gatherer and Feed are optional.
type Params struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Catalog   catalog.Service
	Orders    orders.Service
	Checkout  checkout.Service
	Content   content.Service
	Analytics analytics.Service
	Admins    admins.Service
	Auditor   *admins.Auditor
	Dashboard *admins.Dashboard

	Idempotency pkgredis.IdempotencyStore
	Limiter     RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Feed        http.Handler
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.ClientAddress(cfg.App.TrustedProxyHops),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	cookie := middleware.NewSessionCookie(cfg.Session, cfg.App)
	publicWrites := middleware.RateLimit(
		middleware.NewRateLimitPolicy("public", cfg.RateLimit.PublicWindow, cfg.RateLimit.PublicIPLimit),
		p.Limiter,
		logg,
	)

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(p.Idempotency, cfg.Idempotency.TTL, logg))

		r.Get("/health", controllers.Health(cfg, p.DB, p.Catalog, logg))

		r.Get("/login", controllers.LoginHint(cfg))
		r.Post("/login", controllers.Login(p.Admins, cookie, logg))
		r.Get("/logout", controllers.Logout(p.Admins, cookie, logg))
		r.Get("/callback", controllers.AuthCallback())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(p.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(p.Catalog, logg))
			r.Get("/{id}/reviews", controllers.ProductReviews(p.Content, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(p.Catalog, logg))
			r.Get("/{slug}", controllers.GetCategory(p.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(publicWrites).Post("/", controllers.CreateOrder(p.Checkout, logg))
			r.Get("/{orderId}", controllers.GetOrder(p.Orders, logg))
			r.Post("/{orderId}/whatsapp", controllers.MarkWhatsAppSent(p.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(publicWrites).Post("/create", controllers.CreatePayment(p.Checkout, logg))
			r.Get("/status/{transactionId}", controllers.PaymentStatus(p.Checkout, logg))
			r.Post("/callback", controllers.PaymentCallback(p.Checkout, logg))
		})

		r.Get("/reviews", controllers.ListReviews(p.Content, logg))
		r.With(publicWrites).Post("/reviews", controllers.SubmitReview(p.Content, logg))
		r.Get("/testimonials", controllers.ListTestimonials(p.Content, logg))
		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.ListBlogPosts(p.Content, false, logg))
			r.Get("/featured", controllers.ListBlogPosts(p.Content, true, logg))
			r.Get("/{slug}", controllers.GetBlogPost(p.Content, logg))
		})
		r.With(publicWrites).Post("/analytics/track", controllers.TrackEvent(p.Analytics, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminSession(p.Admins, cookie, logg))

			r.Get("/me", controllers.AdminMe(logg))
			r.Get("/stats", controllers.AdminStats(p.Dashboard, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(p.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(p.Orders, p.Auditor, logg))
				if p.Feed != nil {
					r.Method(http.MethodGet, "/feed", p.Feed)
				}
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(p.Catalog, p.Auditor, logg))
				r.Put("/{id}", controllers.AdminUpdateProduct(p.Catalog, p.Auditor, logg))
				r.Delete("/{id}", controllers.AdminDeleteProduct(p.Catalog, p.Auditor, logg))
			})
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateCategory(p.Catalog, p.Auditor, logg))
				r.Put("/{id}", controllers.AdminUpdateCategory(p.Catalog, p.Auditor, logg))
				r.Delete("/{id}", controllers.AdminDeleteCategory(p.Catalog, p.Auditor, logg))
			})

			r.Get("/reviews", controllers.AdminListReviews(p.Content, logg))
			r.Patch("/reviews/{id}", controllers.AdminModerateReview(p.Content, p.Auditor, logg))
			r.Post("/testimonials", controllers.AdminCreateTestimonial(p.Content, p.Auditor, logg))
			r.Post("/blog", controllers.AdminCreateBlogPost(p.Content, p.Auditor, logg))
			r.Get("/analytics", controllers.AdminAnalytics(p.Analytics, logg))

			r.With(middleware.RequireRole(enums.AdminRoleSuperAdmin, logg)).
				Get("/logs", controllers.AdminLogs(p.Auditor, logg))
		})

		r.NotFound(controllers.APINotFound())
	})

	if cfg.App.StaticDir != "" {
		r.NotFound(controllers.SPA(cfg.App.StaticDir))
	} else {
		r.NotFound(controllers.APINotFound())
	}

	return r
}
