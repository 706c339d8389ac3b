package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/domain"
	"go.uber.org/zap"
)

// RateLimiter throttles requests per client. Anonymous traffic is keyed
// by IP; authenticated traffic is keyed by user ID with a higher limit.
// Whitelisted IPs and paths bypass both limiters.
type RateLimiter struct {
	cfg         *config.RateLimitConfig
	logger      *zap.Logger
	byIP        func(http.Handler) http.Handler
	byUser      func(http.Handler) http.Handler
	allowedIPs  map[string]struct{}
	exactPaths  map[string]struct{}
	prefixPaths []string
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:        cfg,
		logger:     logger,
		allowedIPs: make(map[string]struct{}, len(cfg.WhitelistIPs)),
		exactPaths: make(map[string]struct{}, len(cfg.WhitelistPaths)),
	}

	for _, ip := range cfg.WhitelistIPs {
		rl.allowedIPs[ip] = struct{}{}
	}
	for _, path := range cfg.WhitelistPaths {
		if strings.HasSuffix(path, "/*") {
			rl.prefixPaths = append(rl.prefixPaths, strings.TrimSuffix(path, "/*"))
			continue
		}
		rl.exactPaths[path] = struct{}{}
	}

	rl.byIP = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rl.limitExceeded),
	)
	rl.byUser = httprate.Limit(
		cfg.RequestsPerMinuteAuth,
		time.Minute,
		httprate.WithKeyFuncs(rl.keyByUserOrIP),
		httprate.WithLimitHandler(rl.limitExceeded),
	)

	logger.Info("rate limiter initialized",
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
	)
	return rl
}

// Limit throttles by user when the request is authenticated, by IP
// otherwise. Mount after the auth middleware.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := auth.FromContext(r.Context()); ok {
			rl.byUser(next).ServeHTTP(w, r)
			return
		}
		rl.byIP(next).ServeHTTP(w, r)
	})
}

// LimitByIP throttles by IP only. Safe to mount before the auth
// middleware.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		rl.byIP(next).ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	path := r.URL.Path
	if _, ok := rl.exactPaths[path]; ok {
		return true
	}
	for _, prefix := range rl.prefixPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	_, ok := rl.allowedIPs[clientIP(r)]
	return ok
}

func (rl *RateLimiter) keyByUserOrIP(r *http.Request) (string, error) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		return "user:" + userCtx.UserID.String(), nil
	}
	return "ip:" + clientIP(r), nil
}

// clientIP resolves the originating address, honoring proxy headers
func clientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiter) limitExceeded(w http.ResponseWriter, r *http.Request) {
	rl.logger.Warn("rate limit exceeded",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", clientIP(r)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Error:   "Too Many Requests",
		Message: "Too many requests. Please try again later.",
	})
}
