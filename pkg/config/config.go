package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Cart         CartConfig
	Tracking     TrackingConfig
	Stripe       StripeConfig
	Notify       NotifyConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PIZZERIA_APP_ENV" required:"true"`
	Port         string `envconfig:"PIZZERIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PIZZERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PIZZERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PIZZERIA_DB_DSN"`
	Driver string `envconfig:"PIZZERIA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PIZZERIA_DB_HOST"`
	Port     int    `envconfig:"PIZZERIA_DB_PORT" default:"5432"`
	User     string `envconfig:"PIZZERIA_DB_USER"`
	Password string `envconfig:"PIZZERIA_DB_PASSWORD"`
	Name     string `envconfig:"PIZZERIA_DB_NAME"`
	SSLMode  string `envconfig:"PIZZERIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PIZZERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PIZZERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PIZZERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PIZZERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PIZZERIA_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"PIZZERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PIZZERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PIZZERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PIZZERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PIZZERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig carries the money knobs. Rates are decimals so the engine
// never touches binary floats.
type PricingConfig struct {
	TaxRate     decimal.Decimal `envconfig:"PIZZERIA_TAX_RATE" default:"0.13"`
	PizzaMarkup decimal.Decimal `envconfig:"PIZZERIA_PIZZA_MARKUP" default:"1.40"`
}

func (p PricingConfig) validate() error {
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate must be non-negative")
	}
	if p.PizzaMarkup.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("pizza markup must be at least 1")
	}
	return nil
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"PIZZERIA_CART_SESSION_TTL" default:"168h"`
}

type TrackingConfig struct {
	TickInterval time.Duration `envconfig:"PIZZERIA_TRACKING_TICK_INTERVAL" default:"10s"`
	Stages       int           `envconfig:"PIZZERIA_TRACKING_STAGES" default:"5"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"PIZZERIA_STRIPE_API_KEY"`
	Secret     string `envconfig:"PIZZERIA_STRIPE_SECRET"`
	Env        string `envconfig:"PIZZERIA_STRIPE_ENV" default:"test"`
	SuccessURL string `envconfig:"PIZZERIA_STRIPE_SUCCESS_URL"`
	CancelURL  string `envconfig:"PIZZERIA_STRIPE_CANCEL_URL"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type NotifyConfig struct {
	WebhookURL string        `envconfig:"PIZZERIA_NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"PIZZERIA_NOTIFY_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PIZZERIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PIZZERIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PIZZERIA_JWT_EXPIRATION_MINUTES" default:"720"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PIZZERIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PIZZERIA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
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
