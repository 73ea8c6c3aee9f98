package config

// EnvPrefix is handed to envconfig; every field carries its full name explicitly.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	CatalogSourceStatic   = "static"
	CatalogSourceDatabase = "database"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                = "STOREFRONT_APP_ENV"
	EnvPort                  = "STOREFRONT_APP_PORT"
	EnvShippingFlatFee       = "STOREFRONT_SHIPPING_FLAT_FEE"
	EnvShippingFreeThreshold = "STOREFRONT_SHIPPING_FREE_THRESHOLD"
	EnvCurrencyExponent      = "STOREFRONT_CURRENCY_EXPONENT"
	EnvSessionStore          = "STOREFRONT_SESSION_STORE"
	EnvSessionTTL            = "STOREFRONT_SESSION_TTL"
	EnvSessionTokenSecret    = "STOREFRONT_SESSION_TOKEN_SECRET"
	EnvCatalogSource         = "STOREFRONT_CATALOG_SOURCE"
	EnvRedisURL              = "STOREFRONT_REDIS_URL"
	EnvRedisAddr             = "STOREFRONT_REDIS_ADDR"
	EnvDBDSN                 = "STOREFRONT_DB_DSN"
	EnvDBDriver              = "STOREFRONT_DB_DRIVER"
	EnvDBHost                = "STOREFRONT_DB_HOST"
	EnvDBUser                = "STOREFRONT_DB_USER"
	EnvDBName                = "STOREFRONT_DB_NAME"
	EnvGCPProjectID          = "STOREFRONT_GCP_PROJECT_ID"
	EnvPubSubEnabled         = "STOREFRONT_PUBSUB_ENABLED"
	EnvPubSubOrdersTopic     = "STOREFRONT_PUBSUB_ORDERS_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
