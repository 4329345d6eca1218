package config

// EnvPrefix is the envconfig prefix shared by every storefront variable.
const EnvPrefix = "MTS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
	AppEnvTest = "test"
)

const (
	SessionStoreDB     = "db"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv          = "MTS_APP_ENV"
	EnvPort            = "MTS_APP_PORT"
	EnvLogLevel        = "MTS_LOG_LEVEL"
	EnvPublicURL       = "MTS_PUBLIC_URL"
	EnvStaticDir       = "MTS_STATIC_DIR"
	EnvCORSOrigins     = "MTS_CORS_ALLOWED_ORIGINS"
	EnvDBDSN           = "MTS_DB_DSN"
	EnvDBDriver        = "MTS_DB_DRIVER"
	EnvDBHost          = "MTS_DB_HOST"
	EnvDBUser          = "MTS_DB_USER"
	EnvDBName          = "MTS_DB_NAME"
	EnvDBSQLitePath    = "MTS_DB_SQLITE_PATH"
	EnvRedisAddr       = "MTS_REDIS_ADDR"
	EnvSessionSecret   = "MTS_SESSION_SECRET"
	EnvSessionStore    = "MTS_SESSION_STORE"
	EnvSessionTTL      = "MTS_SESSION_TTL"
	EnvPaymentAPIKey   = "MTS_PAYMENT_API_KEY"
	EnvPaymentSecret   = "MTS_PAYMENT_SECRET"
	EnvPaymentBaseURL  = "MTS_PAYMENT_BASE_URL"
	EnvPaymentMock     = "MTS_PAYMENT_MOCK"
	EnvWhatsAppPhone   = "MTS_WHATSAPP_PHONE"
	EnvAMQPURL         = "MTS_AMQP_URL"
	EnvAMQPExchange    = "MTS_AMQP_EXCHANGE"
	EnvAutoMigrate     = "MTS_AUTO_MIGRATE"
	EnvSeedAdmin       = "MTS_SEED_DEFAULT_ADMIN"
	EnvLoginWindow     = "MTS_AUTH_RATE_LIMIT_LOGIN_WINDOW"
	EnvLoginIPLimit    = "MTS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT"
	EnvLoginUserLimit  = "MTS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT"
	EnvPublicWindow    = "MTS_RATE_LIMIT_PUBLIC_WINDOW"
	EnvPublicIPLimit   = "MTS_RATE_LIMIT_PUBLIC_IP_LIMIT"
	EnvIdempotencyTTL  = "MTS_IDEMPOTENCY_TTL"
	EnvMetricsEnabled  = "MTS_METRICS_ENABLED"
	EnvShutdownTimeout = "MTS_SHUTDOWN_TIMEOUT"
	EnvMaintenance     = "MTS_MAINTENANCE_ENABLED"
	EnvMaintInterval   = "MTS_MAINTENANCE_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// minProdSessionSecretLen is the shortest session secret accepted in production.
const minProdSessionSecretLen = 32
