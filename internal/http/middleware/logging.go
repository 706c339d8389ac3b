package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/auth"
	"go.uber.org/zap"
)

// Paths that would drown the log at info level.
var quietPaths = []string{"/health", "/swagger"}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

func isQuietPath(path string) bool {
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Logging assigns each request an ID, echoes it in the X-Request-ID
// response header, and logs the request outcome with latency and size.
// Health and swagger traffic is logged at debug level only.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", rec.status),
				zap.Int64("bytes", rec.bytes),
				zap.Duration("latency", time.Since(start)),
			}
			if userCtx, ok := auth.FromContext(r.Context()); ok {
				fields = append(fields, zap.String("user_id", userCtx.UserID.String()))
			}

			if isQuietPath(r.URL.Path) {
				logger.Debug("request", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}
