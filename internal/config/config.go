package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gymportal/portal/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Stripe     StripeConfig     `validate:"required"`
	Supabase   SupabaseConfig   `validate:"required"`
	Session    SessionConfig
	Cache      CacheConfig
	Sentry     SentryConfig
	Pyroscope  PyroscopeConfig
	S3         S3Config
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// AllowedOrigins is the CORS allow list; "*" when empty
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string `validate:"required"`
	Port                   int    `validate:"required"`
	User                   string `validate:"required"`
	Password               string
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key" validate:"required"`
	PublishableKey string `mapstructure:"publishable_key"`
	// WebhookSecret may be empty at boot; the webhook endpoint rejects deliveries until it is set
	WebhookSecret string `mapstructure:"webhook_secret"`
	// DefaultCurrency is used for one-time checkout intents without an explicit currency
	DefaultCurrency string `mapstructure:"default_currency"`
}

type SupabaseConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required"`
	AnonKey    string `mapstructure:"anon_key"`
	ServiceKey string `mapstructure:"service_key"`
	JWTSecret  string `mapstructure:"jwt_secret" validate:"required"`
}

type SessionConfig struct {
	// TTL is the staleness window for a cached session
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type CacheConfig struct {
	Enabled bool
	// CustomerTTL bounds how long processor customer metadata is reused by the identity resolver
	CustomerTTL time.Duration `mapstructure:"customer_ttl"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

type S3Config struct {
	Enabled      bool
	Region       string
	WaiverBucket string `mapstructure:"waiver_bucket"`
	// PresignExpiry bounds the lifetime of waiver download links
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int
	// IdleTTL is how long a caller's bucket is kept after its last request
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gymportal")

	v.SetEnvPrefix("GYMPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("stripe.default_currency", "mxn")
	v.SetDefault("session.ttl", 5*time.Minute)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.customer_ttl", 2*time.Minute)
	v.SetDefault("sentry.sample_rate", 0.1)
	v.SetDefault("pyroscope.application_name", "gymportal")
	v.SetDefault("s3.presign_expiry", 15*time.Minute)
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.idle_ttl", 10*time.Minute)

	// env-only deployments never read a file, so every key must be known to viper
	// for AutomaticEnv to bind it during Unmarshal
	for _, key := range []string{
		"postgres.host", "postgres.user", "postgres.password", "postgres.dbname",
		"stripe.secret_key", "stripe.publishable_key", "stripe.webhook_secret",
		"supabase.base_url", "supabase.anon_key", "supabase.service_key", "supabase.jwt_secret",
		"sentry.enabled", "sentry.dsn", "sentry.environment",
		"pyroscope.enabled", "pyroscope.server_address",
		"s3.enabled", "s3.region", "s3.waiver_bucket",
		"rate_limit.enabled",
	} {
		v.SetDefault(key, "")
	}
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Session:    SessionConfig{TTL: 5 * time.Minute, CleanupInterval: 10 * time.Minute},
		Cache:      CacheConfig{Enabled: true, CustomerTTL: 2 * time.Minute},
		Stripe:     StripeConfig{DefaultCurrency: "mxn"},
		RateLimit:  RateLimitConfig{RequestsPerSecond: 5, Burst: 10, IdleTTL: 10 * time.Minute},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
