package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/database"
	"github.com/officekit/toolbox-api/internal/http/handler"
	"github.com/officekit/toolbox-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/officekit/toolbox-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	authHandler     *handler.AuthHandler
	toolHandler     *handler.ToolHandler
	bookmarkHandler *handler.BookmarkHandler
	usageHandler    *handler.UsageHandler
	bmiHandler      *handler.BMIHandler
	cropHandler     *handler.CropHandler
	speechHandler   *handler.SpeechHandler
	archiveHandler  *handler.ArchiveHandler
	fileHandler     *handler.FileHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	toolHandler *handler.ToolHandler,
	bookmarkHandler *handler.BookmarkHandler,
	usageHandler *handler.UsageHandler,
	bmiHandler *handler.BMIHandler,
	cropHandler *handler.CropHandler,
	speechHandler *handler.SpeechHandler,
	archiveHandler *handler.ArchiveHandler,
	fileHandler *handler.FileHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		authHandler:     authHandler,
		toolHandler:     toolHandler,
		bookmarkHandler: bookmarkHandler,
		usageHandler:    usageHandler,
		bmiHandler:      bmiHandler,
		cropHandler:     cropHandler,
		speechHandler:   speechHandler,
		archiveHandler:  archiveHandler,
		fileHandler:     fileHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Get("/categories", rt.toolHandler.Categories)
		r.Get("/shared/{token}", rt.fileHandler.DownloadShared)

		// Tool computation endpoints: work anonymously, attribute usage
		// when the caller is signed in
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.OptionalAuthenticate)

			r.Post("/tools/bmi", rt.bmiHandler.Calculate)
			r.Post("/tools/crop/geometry", rt.cropHandler.Geometry)
			r.Post("/tools/crop", rt.cropHandler.Crop)
			r.Post("/tools/speech/ssml", rt.speechHandler.ExportSSML)
			r.Post("/tools/compress", rt.archiveHandler.Compress)
			r.Post("/tools/{id}/usage", rt.usageHandler.Record)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Tool registry
			r.Get("/tools", rt.toolHandler.List)
			r.Get("/tools/{id}", rt.toolHandler.GetByID)
			r.Get("/tools/{id}/usage", rt.usageHandler.ListForTool)
			r.Get("/usage/stats", rt.usageHandler.Stats)

			// Bookmarks
			r.Get("/bookmarks", rt.bookmarkHandler.List)
			r.Put("/tools/{id}/bookmark", rt.bookmarkHandler.Add)
			r.Delete("/tools/{id}/bookmark", rt.bookmarkHandler.Remove)

			// Shared files
			r.Route("/files", func(r chi.Router) {
				r.Get("/", rt.fileHandler.List)
				r.Post("/upload", rt.fileHandler.Upload)
				r.Get("/{id}", rt.fileHandler.GetByID)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			// Registry management (admin)
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Post("/tools", rt.toolHandler.Create)
				r.Put("/tools/{id}", rt.toolHandler.Update)
				r.Delete("/tools/{id}", rt.toolHandler.Delete)
			})
		})
	})

	return r
}
