package middleware

import (
	"fmt"
	"net/http"

	"github.com/officekit/toolbox-api/internal/config"
)

func hstsValue(cfg *config.SecurityConfig) string {
	v := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
	if cfg.HSTSIncludeSubdomains {
		v += "; includeSubDomains"
	}
	if cfg.HSTSPreload {
		v += "; preload"
	}
	return v
}

// SecurityHeaders returns a middleware that sets the configured browser
// security headers on every response. Empty config values leave the
// corresponding header unset.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := map[string]string{
		"X-Frame-Options":         cfg.FrameOptions,
		"X-XSS-Protection":        cfg.XSSProtection,
		"Content-Security-Policy": cfg.ContentSecurityPolicy,
		"Referrer-Policy":         cfg.ReferrerPolicy,
		"Permissions-Policy":      cfg.PermissionsPolicy,
	}
	if cfg.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if cfg.EnableHSTS {
		headers["Strict-Transport-Security"] = hstsValue(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for name, value := range headers {
				if value != "" {
					w.Header().Set(name, value)
				}
			}

			// Do not advertise the server implementation
			w.Header().Del("X-Powered-By")
			w.Header().Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
