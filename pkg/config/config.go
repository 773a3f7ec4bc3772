package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Feed          FeedConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"SUPPLYHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPPLYHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUPPLYHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUPPLYHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SUPPLYHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SUPPLYHUB_DB_DSN"`
	Driver string `envconfig:"SUPPLYHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUPPLYHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPPLYHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPPLYHUB_DB_USER"`
	LegacyPassword string `envconfig:"SUPPLYHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPPLYHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPPLYHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPPLYHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPPLYHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPPLYHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPPLYHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"SUPPLYHUB_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
	LogQueries         bool          `envconfig:"SUPPLYHUB_DB_LOG_QUERIES" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPPLYHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUPPLYHUB_REDIS_ADDR"`
	Password     string        `envconfig:"SUPPLYHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPPLYHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPPLYHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPPLYHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPPLYHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPPLYHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPPLYHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SUPPLYHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SUPPLYHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SUPPLYHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SUPPLYHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUPPLYHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUPPLYHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUPPLYHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUPPLYHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUPPLYHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SUPPLYHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SUPPLYHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SUPPLYHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SUPPLYHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SUPPLYHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SUPPLYHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SUPPLYHUB_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"SUPPLYHUB_FEATURE_IDEMPOTENCY" default:"true"`
}

// FeedConfig bounds the outbound price-list fetch performed by catalog imports.
type FeedConfig struct {
	FetchTimeout   time.Duration `envconfig:"SUPPLYHUB_FEED_FETCH_TIMEOUT" default:"15s"`
	MaxAttempts    int           `envconfig:"SUPPLYHUB_FEED_MAX_ATTEMPTS" default:"3"`
	InitialBackoff time.Duration `envconfig:"SUPPLYHUB_FEED_INITIAL_BACKOFF" default:"250ms"`
	MaxBackoff     time.Duration `envconfig:"SUPPLYHUB_FEED_MAX_BACKOFF" default:"5s"`
	MaxBodyBytes   int64         `envconfig:"SUPPLYHUB_FEED_MAX_BODY_BYTES" default:"10485760"`
	LockTTL        time.Duration `envconfig:"SUPPLYHUB_FEED_LOCK_TTL" default:"5m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SUPPLYHUB_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"SUPPLYHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic string `envconfig:"SUPPLYHUB_PUBSUB_DOMAIN_TOPIC" default:"supplyhub-domain-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SUPPLYHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SUPPLYHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SUPPLYHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string      `envconfig:"SUPPLYHUB_CORS_ALLOWED_ORIGINS"`
	MaxAge         time.Duration `envconfig:"SUPPLYHUB_CORS_MAX_AGE" default:"5m"`
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
