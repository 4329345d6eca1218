package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	Idempotency   IdempotencyConfig
	Payment       PaymentConfig
	WhatsApp      WhatsAppConfig
	Messaging     MessagingConfig
	FeatureFlags  FeatureFlagsConfig
	Maintenance   MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces rules that span more than one variable.
func (c *Config) Validate() error {
	if c.App.IsProd() && c.Payment.Mock {
		return fmt.Errorf("%s must not be enabled in production", EnvPaymentMock)
	}
	if !c.Payment.Mock && strings.TrimSpace(c.Payment.APIKey) == "" {
		return fmt.Errorf("%s is required unless %s is enabled", EnvPaymentAPIKey, EnvPaymentMock)
	}
	if c.App.IsProd() && len(c.Session.Secret) < minProdSessionSecretLen {
		return fmt.Errorf("%s must be at least %d characters in production", EnvSessionSecret, minProdSessionSecretLen)
	}
	switch c.Session.Store {
	case "", SessionStoreDB, SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("%s must be one of db, redis, memory (got %q)", EnvSessionStore, c.Session.Store)
	}
	if c.Session.Store == SessionStoreRedis && !c.Redis.Enabled() {
		return fmt.Errorf("%s=redis requires %s", EnvSessionStore, EnvRedisAddr)
	}
	if c.Maintenance.Enabled && c.Maintenance.Interval <= 0 {
		return fmt.Errorf("%s must be positive when %s is set", EnvMaintInterval, EnvMaintenance)
	}
	if c.RateLimit.PublicIPLimit > 0 && c.RateLimit.PublicWindow <= 0 {
		return fmt.Errorf("%s must be positive when %s is set", EnvPublicWindow, EnvPublicIPLimit)
	}
	switch c.DB.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("%s must be postgres or sqlite (got %q)", EnvDBDriver, c.DB.Driver)
	}
	return nil
}

type AppConfig struct {
	Env             string        `envconfig:"MTS_APP_ENV" required:"true"`
	Port            string        `envconfig:"MTS_APP_PORT" default:"5000"`
	LogLevel        string        `envconfig:"MTS_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"MTS_LOG_WARN_STACK" default:"false"`
	PublicURL       string        `envconfig:"MTS_PUBLIC_URL" default:"http://localhost:5000"`
	StaticDir       string        `envconfig:"MTS_STATIC_DIR"`
	CORSOrigins     []string      `envconfig:"MTS_CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"MTS_SHUTDOWN_TIMEOUT" default:"10s"`
	MetricsEnabled  bool          `envconfig:"MTS_METRICS_ENABLED" default:"true"`

	// TrustedProxyHops counts the proxies that append to X-Forwarded-For.
	TrustedProxyHops int `envconfig:"MTS_TRUSTED_PROXY_HOPS" default:"1"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	DSN        string `envconfig:"MTS_DB_DSN"`
	Driver     string `envconfig:"MTS_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"MTS_DB_SQLITE_PATH" default:"mts.db"`

	LegacyHost     string `envconfig:"MTS_DB_HOST"`
	LegacyPort     int    `envconfig:"MTS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MTS_DB_USER"`
	LegacyPassword string `envconfig:"MTS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MTS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"MTS_DB_SLOW_QUERY" default:"250ms"`
}

// IsSQLite reports whether the embedded sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	Address      string        `envconfig:"MTS_REDIS_ADDR"`
	Password     string        `envconfig:"MTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MTS_REDIS_DB" default:"0"`
	Prefix       string        `envconfig:"MTS_REDIS_PREFIX" default:"mts"`
	PoolSize     int           `envconfig:"MTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MTS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MTS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a redis address was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	Secret     string        `envconfig:"MTS_SESSION_SECRET" required:"true"`
	Store      string        `envconfig:"MTS_SESSION_STORE"`
	TTL        time.Duration `envconfig:"MTS_SESSION_TTL" default:"168h"`
	CookieName string        `envconfig:"MTS_SESSION_COOKIE_NAME" default:"mts.sid"`
	Issuer     string        `envconfig:"MTS_SESSION_ISSUER" default:"mts-storefront"`
}

// Backend resolves the configured session store, falling back to the
// database-backed store.
func (s SessionConfig) Backend() string {
	if s.Store == "" {
		return SessionStoreDB
	}
	return s.Store
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MTS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MTS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MTS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MTS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MTS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MTS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"MTS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MTS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// RateLimitConfig caps anonymous writes (orders, reviews, analytics) per
// client IP. A zero limit disables the check.
type RateLimitConfig struct {
	PublicWindow  time.Duration `envconfig:"MTS_RATE_LIMIT_PUBLIC_WINDOW" default:"1m"`
	PublicIPLimit int           `envconfig:"MTS_RATE_LIMIT_PUBLIC_IP_LIMIT" default:"60"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"MTS_IDEMPOTENCY_TTL" default:"24h"`
}

type PaymentConfig struct {
	APIKey        string        `envconfig:"MTS_PAYMENT_API_KEY"`
	Secret        string        `envconfig:"MTS_PAYMENT_SECRET"`
	BaseURL       string        `envconfig:"MTS_PAYMENT_BASE_URL" default:"https://api.imbpayments.com/v1"`
	Mock          bool          `envconfig:"MTS_PAYMENT_MOCK" default:"false"`
	ReturnPath    string        `envconfig:"MTS_PAYMENT_RETURN_PATH" default:"/payment-success"`
	CallbackPath  string        `envconfig:"MTS_PAYMENT_CALLBACK_PATH" default:"/api/payments/callback"`
	CreateTimeout time.Duration `envconfig:"MTS_PAYMENT_CREATE_TIMEOUT" default:"30s"`
	StatusTimeout time.Duration `envconfig:"MTS_PAYMENT_STATUS_TIMEOUT" default:"15s"`
}

type WhatsAppConfig struct {
	Phone string `envconfig:"MTS_WHATSAPP_PHONE" default:"917496067495"`
}

type MessagingConfig struct {
	AMQPURL  string `envconfig:"MTS_AMQP_URL"`
	Exchange string `envconfig:"MTS_AMQP_EXCHANGE" default:"mts.orders"`
}

// Enabled reports whether a broker URL was configured.
func (m MessagingConfig) Enabled() bool {
	return strings.TrimSpace(m.AMQPURL) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate      bool `envconfig:"MTS_AUTO_MIGRATE" default:"false"`
	SeedDefaultAdmin bool `envconfig:"MTS_SEED_DEFAULT_ADMIN" default:"true"`
}

// MaintenanceConfig drives the background jobs that purge expired sessions
// and old analytics rows.
type MaintenanceConfig struct {
	Enabled            bool          `envconfig:"MTS_MAINTENANCE_ENABLED" default:"true"`
	Interval           time.Duration `envconfig:"MTS_MAINTENANCE_INTERVAL" default:"1h"`
	AnalyticsRetention time.Duration `envconfig:"MTS_ANALYTICS_RETENTION" default:"2160h"`
	LockTTL            time.Duration `envconfig:"MTS_MAINTENANCE_LOCK_TTL" default:"55m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
