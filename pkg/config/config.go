package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "CAMPUSKART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Dispatch     DispatchConfig
	CORS         CORSConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAMPUSKART_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSKART_DB_DSN"`
	Driver string `envconfig:"CAMPUSKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAMPUSKART_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSKART_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a DSN from the legacy discrete variables when one is not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name variables are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSKART_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"CAMPUSKART_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"CAMPUSKART_JWT_ISSUER" required:"true"`
}

type DispatchConfig struct {
	// ClientBuffer bounds the per-subscriber event queue; events beyond it
	// are dropped rather than blocking the hub.
	ClientBuffer      int           `envconfig:"CAMPUSKART_DISPATCH_CLIENT_BUFFER" default:"16"`
	HeartbeatInterval time.Duration `envconfig:"CAMPUSKART_DISPATCH_HEARTBEAT" default:"25s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CAMPUSKART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSKART_AUTO_MIGRATE" default:"false"`
}
