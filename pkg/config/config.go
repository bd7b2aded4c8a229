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
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	Pricing       PricingConfig
	Uploads       UploadsConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEDSUP_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDSUP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEDSUP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDSUP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDSUP_DB_DSN"`
	Driver string `envconfig:"MEDSUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDSUP_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDSUP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDSUP_DB_USER"`
	LegacyPassword string `envconfig:"MEDSUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDSUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDSUP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDSUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDSUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDSUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDSUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDSUP_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"MEDSUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDSUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDSUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDSUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDSUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEDSUP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEDSUP_JWT_ISSUER" default:"medsup-api"`
	ExpirationMinutes int    `envconfig:"MEDSUP_JWT_EXPIRATION_MINUTES" default:"480"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MEDSUP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MEDSUP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"MEDSUP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// PricingConfig carries the order pricing knobs. VATRate is a fraction
// (0.20 = 20%); orders below FreeShippingAbove pay the flat ShippingFee.
type PricingConfig struct {
	VATRate           decimal.Decimal `envconfig:"MEDSUP_PRICING_VAT_RATE" default:"0.20"`
	ShippingFee       decimal.Decimal `envconfig:"MEDSUP_PRICING_SHIPPING_FEE" default:"7.50"`
	FreeShippingAbove decimal.Decimal `envconfig:"MEDSUP_PRICING_FREE_SHIPPING_ABOVE" default:"250.00"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"MEDSUP_UPLOADS_DIR" default:"uploads"`
	PublicBase  string `envconfig:"MEDSUP_UPLOADS_PUBLIC_BASE" default:"/uploads"`
	MaxUploadMB int    `envconfig:"MEDSUP_UPLOADS_MAX_MB" default:"5"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MEDSUP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDSUP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
