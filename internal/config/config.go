package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is resolved in three layers: built-in defaults, then the YAML file
// named by CONFIG_FILE, then environment variables.
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`
	TablePrefix string `yaml:"table_prefix"`
	Debug       bool   `yaml:"debug"`

	// Storage
	StorageDriver       string        `yaml:"storage_driver"` // "postgres" or "memory"
	DatabaseURL         string        `yaml:"database_url"`
	DBMaxConns          int32         `yaml:"db_max_conns"`
	DBMinConns          int32         `yaml:"db_min_conns"`
	StorageTimeout      time.Duration `yaml:"storage_timeout"`
	StorageRetryBackoff time.Duration `yaml:"storage_retry_backoff"`
	AutoMigrate         bool          `yaml:"auto_migrate"`

	// Auth
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTIssuer        string        `yaml:"jwt_issuer"`
	JWTTTL           time.Duration `yaml:"jwt_ttl"`
	AuthJWKSURL      string        `yaml:"auth_jwks_url"` // Optional external IdP
	AuthJWKSIssuer   string        `yaml:"auth_jwks_issuer"`
	AuthJWKSAudience string        `yaml:"auth_jwks_audience"`
	BcryptCost       int           `yaml:"bcrypt_cost"`

	// Events
	AMQPURL     string `yaml:"amqp_url"`
	EventsQueue string `yaml:"events_queue"`

	// Tracing
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	TraceStdout  bool   `yaml:"trace_stdout"`

	// Logging
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`

	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load resolves the configuration and validates it
func Load() (*Config, error) {
	cfg, err := resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase resolves the configuration for tools that only talk to
// PostgreSQL (migrations, seeding). Only DATABASE_URL is required.
func LoadDatabase() (*Config, error) {
	cfg, err := resolve()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

func resolve() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:                "8080",
		Environment:         env,
		CORSOrigins:         "http://localhost:3000",
		Debug:               getDefaultDebug(env) == "true",
		StorageDriver:       "postgres",
		StorageTimeout:      5 * time.Second,
		StorageRetryBackoff: 100 * time.Millisecond,
		JWTIssuer:           "noteshare",
		JWTTTL:              7 * 24 * time.Hour,
		BcryptCost:          12,
		EventsQueue:         "noteshare.collaborators",
		ServiceName:         "noteshare",
		LogMaxFiles:         10,
		Redis:               defaultRedisConfig(),
		RateLimit:           defaultRateLimitConfig(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.overlayEnv()

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.TablePrefix = getEnv("TABLE_PREFIX", c.TablePrefix)
	c.Debug = getEnvBool("DEBUG", c.Debug)

	c.StorageDriver = getEnv("STORAGE_DRIVER", c.StorageDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DBMaxConns = int32(getEnvInt("DB_MAX_CONNS", int(c.DBMaxConns)))
	c.DBMinConns = int32(getEnvInt("DB_MIN_CONNS", int(c.DBMinConns)))
	c.StorageTimeout = getEnvDuration("STORAGE_TIMEOUT", c.StorageTimeout)
	c.StorageRetryBackoff = getEnvDuration("STORAGE_RETRY_BACKOFF", c.StorageRetryBackoff)
	c.AutoMigrate = getEnvBool("AUTO_MIGRATE", c.AutoMigrate)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTTTL = getEnvDuration("JWT_TTL", c.JWTTTL)
	c.AuthJWKSURL = getEnv("AUTH_JWKS_URL", c.AuthJWKSURL)
	c.AuthJWKSIssuer = getEnv("AUTH_JWKS_ISSUER", c.AuthJWKSIssuer)
	c.AuthJWKSAudience = getEnv("AUTH_JWKS_AUDIENCE", c.AuthJWKSAudience)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)

	c.AMQPURL = getEnv("AMQP_URL", getEnv("RABBITMQ_URL", c.AMQPURL))
	c.EventsQueue = getEnv("EVENTS_QUEUE", c.EventsQueue)

	c.ServiceName = getEnv("OTEL_SERVICE_NAME", c.ServiceName)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.TraceStdout = getEnvBool("TRACE_STDOUT", c.TraceStdout)

	c.LogDir = getEnv("LOG_DIR", c.LogDir)
	c.LogMaxFiles = getEnvInt("LOG_MAX_FILES", c.LogMaxFiles)

	c.Redis.overlayEnv()
	c.RateLimit.overlayEnv()
}

func (c *Config) validate() error {
	var errs []error

	switch c.StorageDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres storage driver"))
		}
	case "memory":
		if c.Environment == "prod" {
			errs = append(errs, errors.New("the memory storage driver is not allowed in prod"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}

	if c.JWTSecret == "" && c.AuthJWKSURL == "" {
		errs = append(errs, errors.New("JWT_SECRET or AUTH_JWKS_URL is required"))
	}
	if c.Environment == "prod" && c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in prod"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.StorageTimeout < 0 || c.StorageRetryBackoff < 0 {
		errs = append(errs, errors.New("storage timeout and retry backoff cannot be negative"))
	}

	return errors.Join(errs...)
}

// SelfIssuedTokens reports whether register/login can mint session tokens
func (c *Config) SelfIssuedTokens() bool {
	return c.JWTSecret != ""
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
