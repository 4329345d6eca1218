package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/mtsdigital/storefront/api/routes"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/analytics"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/internal/checkout"
	"github.com/mtsdigital/storefront/internal/content"
	"github.com/mtsdigital/storefront/internal/cron"
	"github.com/mtsdigital/storefront/internal/events"
	"github.com/mtsdigital/storefront/internal/orders"
	"github.com/mtsdigital/storefront/pkg/auth/session"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/gateway"
	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/messaging"
	"github.com/mtsdigital/storefront/pkg/metrics"
	"github.com/mtsdigital/storefront/pkg/migrate"
	"github.com/mtsdigital/storefront/pkg/redis"
	"github.com/mtsdigital/storefront/pkg/whatsapp"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
	lockKeyFormat        = "maintenance:lock:%s"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	closeAll := func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error closing resources", errs)
		}
	}
	defer closeAll()

	fail := func(msg string, err error) {
		logg.Error(context.Background(), msg, err)
		closeAll()
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fail("failed to bootstrap database", err)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		fail("failed to run dev migrations", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			fail("failed to bootstrap redis", err)
		}
		closers = append(closers, redisClient.Close)
	} else {
		logg.Warn(ctx, "redis not configured; idempotency and rate limits disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	commerce := metrics.NewCommerceMetrics(reg)

	// A typed nil *redis.Client would pass the store's nil check.
	var sessionStore session.Store
	if redisClient != nil {
		sessionStore, err = session.NewStore(cfg.Session.Backend(), dbClient.DB(), redisClient)
	} else {
		sessionStore, err = session.NewStore(cfg.Session.Backend(), dbClient.DB(), nil)
	}
	if err != nil {
		fail("failed to create session store", err)
	}
	sessionManager, err := session.NewManager(sessionStore, cfg.Session)
	if err != nil {
		fail("failed to create session manager", err)
	}

	broker, err := newBroker(cfg.Messaging)
	if err != nil {
		fail("failed to connect message broker", err)
	}
	closers = append(closers, broker.Close)

	hub := events.NewHub()
	go hub.Run(ctx)
	dispatcher := events.NewDispatcher(broker, hub, logg)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		fail("failed to create catalog service", err)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(dbClient.DB()),
		Handoff:   whatsapp.NewHandoff(cfg.WhatsApp.Phone),
		Publisher: dispatcher,
		Metrics:   commerce,
		Logger:    logg,
	})
	if err != nil {
		fail("failed to create orders service", err)
	}

	gw, err := newGateway(cfg, commerce)
	if err != nil {
		fail("failed to create payment gateway", err)
	}
	publicURL := strings.TrimRight(cfg.App.PublicURL, "/")
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Products: catalogService,
		Orders:   ordersService,
		Gateway:  gw,
		URLs: checkout.URLs{
			Return:   publicURL + cfg.Payment.ReturnPath,
			Callback: publicURL + cfg.Payment.CallbackPath,
		},
		Metrics: commerce,
		Logger:  logg,
		Tx:      dbClient,
	})
	if err != nil {
		fail("failed to create checkout service", err)
	}

	contentService, err := content.NewService(content.NewRepository(dbClient.DB()), catalogService)
	if err != nil {
		fail("failed to create content service", err)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()))
	if err != nil {
		fail("failed to create analytics service", err)
	}

	adminRepo := admins.NewRepository(dbClient.DB())
	auditor := admins.NewAuditor(adminRepo, logg)
	adminParams := admins.ServiceParams{
		Repo:      adminRepo,
		Sessions:  sessionManager,
		Audit:     auditor,
		Password:  cfg.Password,
		RateLimit: cfg.AuthRateLimit,
		Logger:    logg,
	}
	if redisClient != nil {
		adminParams.Limiter = redisClient
	}
	adminService, err := admins.NewService(adminParams)
	if err != nil {
		fail("failed to create admin service", err)
	}

	if cfg.App.IsDev() && cfg.FeatureFlags.SeedDefaultAdmin {
		created, err := adminService.EnsureDefaultAdmin(ctx, defaultAdminUsername, defaultAdminPassword)
		if err != nil {
			fail("failed to ensure default admin", err)
		}
		if created {
			logg.Info(logg.WithField(ctx, "username", defaultAdminUsername), "default admin created")
		}
	}

	dashboard, err := admins.NewDashboard(ordersService, catalogService)
	if err != nil {
		fail("failed to create dashboard", err)
	}

	if cfg.Maintenance.Enabled {
		maintenance, err := newMaintenance(cfg, logg, reg, redisClient, sessionStore, analyticsService)
		if err != nil {
			fail("failed to create maintenance scheduler", err)
		}
		go func() {
			if err := maintenance.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "maintenance scheduler stopped", err)
			}
		}()
	}

	params := routes.Params{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Catalog:   catalogService,
		Orders:    ordersService,
		Checkout:  checkoutService,
		Content:   contentService,
		Analytics: analyticsService,
		Admins:    adminService,
		Auditor:   auditor,
		Dashboard: dashboard,
		Feed:      events.NewFeedHandler(hub, logg, nil),
	}
	if redisClient != nil {
		params.Idempotency = redisClient
		params.Limiter = redisClient
	}
	if cfg.App.MetricsEnabled {
		params.HTTPMetrics = metrics.NewHTTPMetrics(reg)
		params.Gatherer = reg
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"payment_mock": cfg.Payment.Mock,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			fail("api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "graceful shutdown failed", err)
	}
}

func newGateway(cfg *config.Config, observer gateway.Observer) (gateway.Gateway, error) {
	if cfg.Payment.Mock && !cfg.App.IsProd() {
		return gateway.NewMockClient(cfg.Payment.Secret), nil
	}
	return gateway.NewClient(cfg.Payment.APIKey,
		gateway.WithBaseURL(cfg.Payment.BaseURL),
		gateway.WithSecret(cfg.Payment.Secret),
		gateway.WithCreateTimeout(cfg.Payment.CreateTimeout),
		gateway.WithStatusTimeout(cfg.Payment.StatusTimeout),
		gateway.WithObserver(observer),
	)
}

func newBroker(cfg config.MessagingConfig) (messaging.Publisher, error) {
	if !cfg.Enabled() {
		return messaging.NopPublisher{}, nil
	}
	return messaging.NewRabbitPublisher(cfg.AMQPURL, cfg.Exchange)
}

func newMaintenance(
	cfg *config.Config,
	logg *logger.Logger,
	reg prometheus.Registerer,
	redisClient *redis.Client,
	store session.Store,
	analyticsService analytics.Service,
) (*cron.Service, error) {
	var jobs []cron.Job
	if purger, ok := store.(*session.DBStore); ok {
		job, err := cron.NewSessionPurgeJob(purger, logg)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	retention, err := cron.NewAnalyticsRetentionJob(analyticsService, cfg.Maintenance.AnalyticsRetention, logg)
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, retention)

	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, fmt.Sprintf(lockKeyFormat, cfg.App.Env), cfg.Maintenance.LockTTL)
		if err != nil {
			return nil, err
		}
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(jobs...),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(reg),
		Interval: cfg.Maintenance.Interval,
	})
}
