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
	Storage      StorageConfig
	GCP          GCPConfig
	Catalog      CatalogConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string        `envconfig:"CATALOG_APP_ENV" required:"true"`
	Port         string        `envconfig:"CATALOG_APP_PORT" required:"true"`
	LogLevel     string        `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool          `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownWait time.Duration `envconfig:"CATALOG_HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CATALOG_DB_DSN"`
	Driver string `envconfig:"CATALOG_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CATALOG_DB_HOST"`
	Port     int    `envconfig:"CATALOG_DB_PORT" default:"5432"`
	User     string `envconfig:"CATALOG_DB_USER"`
	Password string `envconfig:"CATALOG_DB_PASSWORD"`
	Name     string `envconfig:"CATALOG_DB_NAME"`
	SSLMode  string `envconfig:"CATALOG_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"CATALOG_SQLITE_PATH" default:"catalog.db"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite dialect was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CATALOG_REDIS_URL"`
	Address      string        `envconfig:"CATALOG_REDIS_ADDR"`
	Password     string        `envconfig:"CATALOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATALOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CATALOG_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CATALOG_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CATALOG_JWT_EXPIRATION_MINUTES" default:"1440"`
	SessionTTLMinutes int    `envconfig:"CATALOG_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the lifetime of a redis-backed access session.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type StorageConfig struct {
	Driver        string `envconfig:"CATALOG_STORAGE_DRIVER" default:"local"`
	LocalRoot     string `envconfig:"CATALOG_STORAGE_LOCAL_ROOT" default:"storage/app/public"`
	PublicBaseURL string `envconfig:"CATALOG_STORAGE_PUBLIC_BASE_URL" default:"/storage"`
	GCSBucket     string `envconfig:"CATALOG_GCS_BUCKET_NAME"`
	MaxUploadMB   int    `envconfig:"CATALOG_MAX_UPLOAD_MB" default:"20"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverLocal:
		if s.LocalRoot == "" {
			return fmt.Errorf("%s is required for local storage", EnvStorageLocalRoot)
		}
	case StorageDriverGCS:
		if s.GCSBucket == "" {
			return fmt.Errorf("%s is required for gcs storage", EnvGCSBucket)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
	return nil
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CATALOG_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CATALOG_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CATALOG_GOOGLE_APPLICATION_CREDENTIALS"`
}

type CatalogConfig struct {
	DefaultPageSize  int      `envconfig:"CATALOG_DEFAULT_PAGE_SIZE" default:"15"`
	MaxPageSize      int      `envconfig:"CATALOG_MAX_PAGE_SIZE" default:"100"`
	RelatedLimit     int      `envconfig:"CATALOG_RELATED_LIMIT" default:"10"`
	CurrencyDecimals int32    `envconfig:"CATALOG_CURRENCY_DECIMALS" default:"2"`
	DefaultLocale    string   `envconfig:"CATALOG_DEFAULT_LOCALE" default:"en"`
	Locales          []string `envconfig:"CATALOG_LOCALES" default:"en,es"`
}

type RateLimitConfig struct {
	WriteWindow time.Duration `envconfig:"CATALOG_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteLimit  int           `envconfig:"CATALOG_RATE_LIMIT_WRITE_LIMIT" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CATALOG_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CATALOG_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CATALOG_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
	}
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
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
