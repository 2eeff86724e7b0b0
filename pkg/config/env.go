package config

// EnvPrefix is handed to envconfig; every field carries its full key so the
// prefix only matters for untagged fields.
const EnvPrefix = "CHAMBER122"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "CHAMBER122_APP_ENV"
	EnvPort     = "PORT"
	EnvLogLevel = "CHAMBER122_LOG_LEVEL"

	EnvDBDriver = "CHAMBER122_DB_DRIVER"
	EnvDBDSN    = "CHAMBER122_DB_DSN"
	EnvDBHost   = "CHAMBER122_DB_HOST"
	EnvDBUser   = "CHAMBER122_DB_USER"
	EnvDBName   = "CHAMBER122_DB_NAME"

	EnvRedisURL  = "CHAMBER122_REDIS_URL"
	EnvJWTSecret = "JWT_SECRET"

	EnvAdminSyncMode    = "CHAMBER122_ADMIN_SYNC_MODE"
	EnvAdminSyncAPIBase = "CHAMBER122_ADMIN_SYNC_API_BASE_URL"
	EnvAdminSyncStore   = "CHAMBER122_ADMIN_SYNC_STORE"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	SyncModeConnected = "connected"
	SyncModeOffline   = "offline"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendDB     = "db"
)

// legacyDBEnvVars must all be present when a postgres DSN is not given directly.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
