package config

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server used for rate limiting
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{}
}

func (r *RedisConfig) overlayEnv() {
	r.Addr = getEnv("REDIS_ADDR", r.Addr)
	if host, port := getEnv("REDIS_HOST", ""), getEnv("REDIS_PORT", ""); host != "" && port != "" {
		r.Addr = host + ":" + port
	}
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.DB = getEnvInt("REDIS_DB", r.DB)
	r.TLS = getEnvBool("REDIS_TLS", r.TLS)
}

// NewRedisClient connects to Redis. It returns nil when no address is
// configured or the server does not answer a ping; callers then run without
// rate limiting.
func NewRedisClient(cfg RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return nil
	}

	return client
}
