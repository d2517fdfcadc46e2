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
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
	Wallet       WalletConfig
	Eventing     EventingConfig
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
	Env          string `envconfig:"AQARLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"AQARLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AQARLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AQARLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AQARLINK_DB_DSN"`
	Driver string `envconfig:"AQARLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AQARLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"AQARLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AQARLINK_DB_USER"`
	LegacyPassword string `envconfig:"AQARLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"AQARLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"AQARLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AQARLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AQARLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AQARLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AQARLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AQARLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AQARLINK_REDIS_ADDR"`
	Password     string        `envconfig:"AQARLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"AQARLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AQARLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AQARLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AQARLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AQARLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AQARLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AQARLINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AQARLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AQARLINK_JWT_EXP_MINS" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AQARLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AQARLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AQARLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AQARLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AQARLINK_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AQARLINK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"AQARLINK_GCP_PROJECT_ID" required:"true"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"AQARLINK_PUBSUB_DOMAIN_TOPIC" default:"aqarlink-domain-events"`
	DomainSubscription string `envconfig:"AQARLINK_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AQARLINK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AQARLINK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AQARLINK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval    time.Duration `envconfig:"AQARLINK_CRON_INTERVAL" default:"24h"`
	LockKey     string        `envconfig:"AQARLINK_CRON_LOCK_KEY" default:"cron:leader"`
	LockTTL     time.Duration `envconfig:"AQARLINK_CRON_LOCK_TTL" default:"25h"`
	MetricsPort string        `envconfig:"AQARLINK_CRON_METRICS_PORT" default:"9091"`
}

type WalletConfig struct {
	MaxVisitAmount int64 `envconfig:"AQARLINK_WALLET_MAX_VISIT_AMOUNT" default:"10000"`
}

type EventingConfig struct {
	ProcessedEventTTL time.Duration `envconfig:"AQARLINK_EVENTING_PROCESSED_TTL" default:"720h"`
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
