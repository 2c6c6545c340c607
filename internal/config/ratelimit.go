package config

import "time"

// RateLimitConfig tunes the Redis token bucket in front of the API
type RateLimitConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Capacity       int           `yaml:"capacity"`
	RefillTokens   int           `yaml:"refill_tokens"`
	RefillInterval time.Duration `yaml:"refill_interval"`
	TTL            time.Duration `yaml:"ttl"`
	Prefix         string        `yaml:"prefix"`
}

func defaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        true,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		Prefix:         "rl",
	}
}

func (r *RateLimitConfig) overlayEnv() {
	r.Enabled = getEnvBool("RATE_LIMIT_ENABLED", r.Enabled)
	r.Capacity = getEnvInt("RATE_LIMIT_CAPACITY", r.Capacity)
	r.RefillTokens = getEnvInt("RATE_LIMIT_REFILL_TOKENS", r.RefillTokens)
	r.RefillInterval = getEnvDuration("RATE_LIMIT_REFILL_INTERVAL", r.RefillInterval)
	r.TTL = getEnvDuration("RATE_LIMIT_TTL", r.TTL)
	r.Prefix = getEnv("RATE_LIMIT_PREFIX", r.Prefix)
	r.normalize()
}

func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	// Buckets must outlive a full refill or idle clients get a fresh burst early
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}
