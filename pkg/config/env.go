package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "CATALOG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

const (
	EnvAppEnv           = "CATALOG_APP_ENV"
	EnvPort             = "CATALOG_APP_PORT"
	EnvDBDSN            = "CATALOG_DB_DSN"
	EnvDBHost           = "CATALOG_DB_HOST"
	EnvDBUser           = "CATALOG_DB_USER"
	EnvDBName           = "CATALOG_DB_NAME"
	EnvUseSQLite        = "CATALOG_USE_SQLITE"
	EnvRedisURL         = "CATALOG_REDIS_URL"
	EnvJWTSecret        = "CATALOG_JWT_SECRET"
	EnvJWTIssuer        = "CATALOG_JWT_ISSUER"
	EnvStorageDriver    = "CATALOG_STORAGE_DRIVER"
	EnvStorageLocalRoot = "CATALOG_STORAGE_LOCAL_ROOT"
	EnvGCSBucket        = "CATALOG_GCS_BUCKET_NAME"
	EnvLocales          = "CATALOG_LOCALES"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
