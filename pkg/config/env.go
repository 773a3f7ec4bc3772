package config

// EnvPrefix is handed to envconfig. Every field carries its full variable name as the alternate key.
const EnvPrefix = "SUPPLYHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "SUPPLYHUB_APP_ENV"
	EnvPort                   = "SUPPLYHUB_APP_PORT"
	EnvLogLevel               = "SUPPLYHUB_LOG_LEVEL"
	EnvDBDSN                  = "SUPPLYHUB_DB_DSN"
	EnvDBHost                 = "SUPPLYHUB_DB_HOST"
	EnvDBPort                 = "SUPPLYHUB_DB_PORT"
	EnvDBUser                 = "SUPPLYHUB_DB_USER"
	EnvDBPassword             = "SUPPLYHUB_DB_PASSWORD"
	EnvDBName                 = "SUPPLYHUB_DB_NAME"
	EnvRedisURL               = "SUPPLYHUB_REDIS_URL"
	EnvJWTSecret              = "SUPPLYHUB_JWT_SECRET"
	EnvJWTIssuer              = "SUPPLYHUB_JWT_ISSUER"
	EnvJWTExpMins             = "SUPPLYHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SUPPLYHUB_REFRESH_TOKEN_TTL_MINUTES"
	EnvFeedFetchTimeout       = "SUPPLYHUB_FEED_FETCH_TIMEOUT"
	EnvFeedMaxAttempts        = "SUPPLYHUB_FEED_MAX_ATTEMPTS"
	EnvGCPProjectID           = "SUPPLYHUB_GCP_PROJECT_ID"
	EnvPubSubDomainTopic      = "SUPPLYHUB_PUBSUB_DOMAIN_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
