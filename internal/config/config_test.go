package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "ENVIRONMENT", "CORS_ORIGINS", "TABLE_PREFIX", "DEBUG",
		"STORAGE_DRIVER", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"STORAGE_TIMEOUT", "STORAGE_RETRY_BACKOFF", "AUTO_MIGRATE",
		"JWT_SECRET", "JWT_ISSUER", "JWT_TTL", "AUTH_JWKS_URL", "AUTH_JWKS_ISSUER", "AUTH_JWKS_AUDIENCE", "BCRYPT_COST",
		"AMQP_URL", "RABBITMQ_URL", "EVENTS_QUEUE",
		"OTEL_SERVICE_NAME", "OTEL_EXPORTER_OTLP_ENDPOINT", "TRACE_STDOUT",
		"LOG_DIR", "LOG_MAX_FILES",
		"REDIS_ADDR", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_TOKENS",
		"RATE_LIMIT_REFILL_INTERVAL", "RATE_LIMIT_TTL", "RATE_LIMIT_PREFIX",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "noteshare", cfg.JWTIssuer)
	assert.True(t, cfg.SelfIssuedTokens())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "noteshare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
environment: test
storage_driver: memory
jwt_secret: from-file
jwt_ttl: 2h
redis:
  addr: localhost:6379
rate_limit:
  capacity: 5
  refill_interval: 0s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "test_", cfg.TablePrefix)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval, "non-positive interval is normalized")
	assert.GreaterOrEqual(t, cfg.RateLimit.TTL, 5*time.Second)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "postgres without url",
			env:     map[string]string{"JWT_SECRET": "s"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "sqlite", "JWT_SECRET": "s"},
			wantErr: `unknown storage driver "sqlite"`,
		},
		{
			name:    "no token source",
			env:     map[string]string{"STORAGE_DRIVER": "memory"},
			wantErr: "JWT_SECRET or AUTH_JWKS_URL is required",
		},
		{
			name:    "memory in prod",
			env:     map[string]string{"ENVIRONMENT": "prod", "STORAGE_DRIVER": "memory", "AUTH_JWKS_URL": "https://idp.example.com/jwks"},
			wantErr: "memory storage driver is not allowed in prod",
		},
		{
			name: "short secret in prod",
			env: map[string]string{
				"ENVIRONMENT":  "prod",
				"DATABASE_URL": "postgres://localhost/noteshare",
				"JWT_SECRET":   "short",
			},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "non-positive ttl",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "s", "JWT_TTL": "-1h"},
			wantErr: "JWT_TTL must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_JWKSClaimPins(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_JWKS_URL", "https://idp.example.com/jwks")
	t.Setenv("AUTH_JWKS_ISSUER", "https://idp.example.com/")
	t.Setenv("AUTH_JWKS_AUDIENCE", "noteshare-api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/jwks", cfg.AuthJWKSURL)
	assert.Equal(t, "https://idp.example.com/", cfg.AuthJWKSIssuer)
	assert.Equal(t, "noteshare-api", cfg.AuthJWKSAudience)
}

func TestLoadDatabase(t *testing.T) {
	clearEnv(t)

	_, err := LoadDatabase()
	assert.Error(t, err)

	// No JWT settings needed for database tooling
	t.Setenv("DATABASE_URL", "postgres://localhost/noteshare")
	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/noteshare", cfg.DatabaseURL)
}

func TestLoad_BadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "read config file")
}
