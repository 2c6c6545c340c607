package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"noteshare/internal/config"
	"noteshare/internal/domain/models"
	"noteshare/internal/httputil"
)

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		Prefix:         "rl",
	}
}

func TestRateLimit_PassThrough(t *testing.T) {
	disabled := testRateLimitConfig()
	disabled.Enabled = false

	for name, mw := range map[string]func(http.Handler) http.Handler{
		"nil client": RateLimit(testRateLimitConfig(), nil, discardLogger()),
		"disabled":   RateLimit(disabled, redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), discardLogger()),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mw(echoUser).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		})
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	rec := httptest.NewRecorder()
	RateLimit(testRateLimitConfig(), rdb, discardLogger())(echoUser).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateKey(t *testing.T) {
	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	anonymous.RemoteAddr = "203.0.113.9:51234"
	assert.Equal(t, "rl:ip:203.0.113.9", rateKey("rl", anonymous))

	noPort := httptest.NewRequest(http.MethodGet, "/", nil)
	noPort.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "rl:ip:203.0.113.9", rateKey("rl", noPort))

	authed := httputil.WithIdentity(anonymous, &models.AuthenticatedIdentity{UserID: 12})
	assert.Equal(t, "rl:user:12", rateKey("rl", authed))
}
