package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func rateLimitConfig(perMinute int) *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     perMinute,
		RequestsPerMinuteAuth: perMinute * 2,
		WhitelistPaths:        []string{"/health", "/swagger/*"},
	}
}

func TestRateLimiter_LimitByIP(t *testing.T) {
	t.Run("throttles after the limit", func(t *testing.T) {
		rl := middleware.NewRateLimiter(rateLimitConfig(2), zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		statuses := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
			req.RemoteAddr = "203.0.113.7:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			statuses = append(statuses, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	})

	t.Run("whitelisted paths bypass the limiter", func(t *testing.T) {
		rl := middleware.NewRateLimiter(rateLimitConfig(1), zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = "203.0.113.7:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("wildcard path prefixes bypass the limiter", func(t *testing.T) {
		rl := middleware.NewRateLimiter(rateLimitConfig(1), zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = "203.0.113.7:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("whitelisted ips bypass the limiter", func(t *testing.T) {
		cfg := rateLimitConfig(1)
		cfg.WhitelistIPs = []string{"203.0.113.7"}
		rl := middleware.NewRateLimiter(cfg, zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
			req.RemoteAddr = "203.0.113.7:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("disabled limiter passes everything through", func(t *testing.T) {
		cfg := rateLimitConfig(1)
		cfg.Enabled = false
		rl := middleware.NewRateLimiter(cfg, zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 10; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
			req.RemoteAddr = "203.0.113.7:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}
