package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	AdminSync    AdminSyncConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, fmt.Errorf("%s is required", EnvJWTSecret)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.AdminSync.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHAMBER122_APP_ENV" default:"dev"`
	Port         string `envconfig:"PORT" default:"4000"`
	LogLevel     string `envconfig:"CHAMBER122_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHAMBER122_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHAMBER122_DB_DSN"`
	Driver string `envconfig:"CHAMBER122_DB_DRIVER" default:"sqlite"`

	LegacyHost     string `envconfig:"CHAMBER122_DB_HOST"`
	LegacyPort     int    `envconfig:"CHAMBER122_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHAMBER122_DB_USER"`
	LegacyPassword string `envconfig:"CHAMBER122_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHAMBER122_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHAMBER122_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHAMBER122_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CHAMBER122_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CHAMBER122_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHAMBER122_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CHAMBER122_REDIS_URL"`
	Address      string        `envconfig:"CHAMBER122_REDIS_ADDR"`
	Password     string        `envconfig:"CHAMBER122_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHAMBER122_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHAMBER122_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHAMBER122_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHAMBER122_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHAMBER122_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHAMBER122_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHAMBER122_JWT_ISSUER" default:"chamber122"`
	ExpirationMinutes int    `envconfig:"CHAMBER122_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CHAMBER122_CORS_ALLOWED_ORIGINS" default:"*"`
}

// RateLimitConfig throttles the public registration endpoints. Limits only
// apply when redis is configured.
type RateLimitConfig struct {
	RegisterWindow     time.Duration `envconfig:"CHAMBER122_REGISTER_RATE_WINDOW" default:"10m"`
	RegisterIPLimit    int           `envconfig:"CHAMBER122_REGISTER_RATE_IP_LIMIT" default:"30"`
	RegisterEmailLimit int           `envconfig:"CHAMBER122_REGISTER_RATE_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CHAMBER122_AUTO_MIGRATE" default:"false"`
}

type AdminSyncConfig struct {
	Mode              string        `envconfig:"CHAMBER122_ADMIN_SYNC_MODE" default:"connected"`
	APIBaseURL        string        `envconfig:"CHAMBER122_ADMIN_SYNC_API_BASE_URL" default:"http://localhost:4000/api"`
	RequestTimeout    time.Duration `envconfig:"CHAMBER122_ADMIN_SYNC_REQUEST_TIMEOUT" default:"10s"`
	Interval          time.Duration `envconfig:"CHAMBER122_ADMIN_SYNC_INTERVAL" default:"30s"`
	Store             string        `envconfig:"CHAMBER122_ADMIN_SYNC_STORE" default:"db"`
	PlaceholderDomain string        `envconfig:"CHAMBER122_ADMIN_SYNC_PLACEHOLDER_DOMAIN" default:"chamber122.com"`
	DefaultCountry    string        `envconfig:"CHAMBER122_ADMIN_SYNC_DEFAULT_COUNTRY" default:"Kuwait"`
	Concurrency       int           `envconfig:"CHAMBER122_ADMIN_SYNC_CONCURRENCY" default:"8"`
	LockTTL           time.Duration `envconfig:"CHAMBER122_ADMIN_SYNC_LOCK_TTL" default:"2m"`
	MetricsAddr       string        `envconfig:"CHAMBER122_ADMIN_SYNC_METRICS_ADDR" default:":9102"`
	AdminUserID       string        `envconfig:"CHAMBER122_ADMIN_SYNC_ADMIN_USER_ID" default:"admin-sync"`
}

// Offline reports whether the sync runs without a remote API.
func (a AdminSyncConfig) Offline() bool {
	return strings.EqualFold(strings.TrimSpace(a.Mode), SyncModeOffline)
}

func (a AdminSyncConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.Mode)) {
	case SyncModeConnected, SyncModeOffline:
	default:
		return fmt.Errorf("%s must be %q or %q", EnvAdminSyncMode, SyncModeConnected, SyncModeOffline)
	}
	switch strings.ToLower(strings.TrimSpace(a.Store)) {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendDB:
	default:
		return fmt.Errorf("%s must be one of memory, redis, db", EnvAdminSyncStore)
	}
	if !a.Offline() {
		if _, err := url.ParseRequestURI(a.APIBaseURL); err != nil {
			return fmt.Errorf("%s is invalid: %w", EnvAdminSyncAPIBase, err)
		}
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:chamber122.db?_foreign_keys=on"
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
