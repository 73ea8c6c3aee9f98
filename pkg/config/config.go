package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App      AppConfig
	Shipping ShippingConfig
	Currency CurrencyConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	DB       DBConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Catalog.UsesDatabase() {
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every cross-field problem at once.
func (c *Config) Validate() error {
	var errs error
	if c.Shipping.FlatFee < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be non-negative", EnvShippingFlatFee))
	}
	if c.Shipping.FreeThreshold != nil && *c.Shipping.FreeThreshold < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be non-negative", EnvShippingFreeThreshold))
	}
	if c.Currency.Exponent < 0 || c.Currency.Exponent > 4 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be between 0 and 4", EnvCurrencyExponent))
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s or %s is required for the redis session store", EnvRedisURL, EnvRedisAddr))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s must be %q or %q", EnvSessionStore, SessionStoreMemory, SessionStoreRedis))
	}
	if strings.TrimSpace(c.Session.TokenSecret) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", EnvSessionTokenSecret))
	}
	if c.Session.TTL <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvSessionTTL))
	}
	switch c.Catalog.Source {
	case CatalogSourceStatic, CatalogSourceDatabase:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s must be %q or %q", EnvCatalogSource, CatalogSourceStatic, CatalogSourceDatabase))
	}
	if c.PubSub.Enabled {
		if strings.TrimSpace(c.GCP.ProjectID) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required when pubsub is enabled", EnvGCPProjectID))
		}
		if strings.TrimSpace(c.PubSub.OrdersTopic) == "" {
			errs = multierr.Append(errs, errors.New(EnvPubSubOrdersTopic+" is required when pubsub is enabled"))
		}
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ShippingConfig selects the shipping policy. Without a free threshold a flat
// fee applies to every non-empty cart.
type ShippingConfig struct {
	FlatFee       int64  `envconfig:"STOREFRONT_SHIPPING_FLAT_FEE" default:"120"`
	FreeThreshold *int64 `envconfig:"STOREFRONT_SHIPPING_FREE_THRESHOLD"`
}

type CurrencyConfig struct {
	Code     string `envconfig:"STOREFRONT_CURRENCY_CODE" default:"TWD"`
	Symbol   string `envconfig:"STOREFRONT_CURRENCY_SYMBOL" default:"NT$"`
	Exponent int32  `envconfig:"STOREFRONT_CURRENCY_EXPONENT" default:"0"`
}

type SessionConfig struct {
	Store       string        `envconfig:"STOREFRONT_SESSION_STORE" default:"memory"`
	TTL         time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"24h"`
	TokenSecret string        `envconfig:"STOREFRONT_SESSION_TOKEN_SECRET" required:"true"`
	TokenIssuer string        `envconfig:"STOREFRONT_SESSION_TOKEN_ISSUER" default:"storefront"`
}

func (s SessionConfig) UsesRedis() bool {
	return s.Store == SessionStoreRedis
}

type CatalogConfig struct {
	Source string `envconfig:"STOREFRONT_CATALOG_SOURCE" default:"static"`
}

func (c CatalogConfig) UsesDatabase() bool {
	return c.Source == CatalogSourceDatabase
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	AutoMigrate     bool          `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the catalog database runs on the embedded driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type GCPConfig struct {
	ProjectID       string `envconfig:"STOREFRONT_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"STOREFRONT_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	Enabled     bool   `envconfig:"STOREFRONT_PUBSUB_ENABLED" default:"false"`
	OrdersTopic string `envconfig:"STOREFRONT_PUBSUB_ORDERS_TOPIC" default:"storefront-orders"`
	// CreateTopic provisions a missing orders topic on boot (emulator and dev).
	CreateTopic bool `envconfig:"STOREFRONT_PUBSUB_CREATE_TOPIC" default:"false"`
}

// EnsureDSN assembles a postgres DSN from the discrete settings when no DSN is given.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
