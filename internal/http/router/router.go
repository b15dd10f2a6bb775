package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/config"
	"github.com/jolix/portal-api/internal/database"
	"github.com/jolix/portal-api/internal/http/handler"
	"github.com/jolix/portal-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/jolix/portal-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	authHandler     *handler.AuthHandler
	portalHandler   *handler.PortalHandler
	projectHandler  *handler.ProjectHandler
	invoiceHandler  *handler.InvoiceHandler
	contractHandler *handler.ContractHandler
	formHandler     *handler.FormHandler
	fileHandler     *handler.FileHandler
	messageHandler  *handler.MessageHandler
	bookingHandler  *handler.BookingHandler
	settingsHandler *handler.SettingsHandler
	activityHandler *handler.ActivityHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	portalHandler *handler.PortalHandler,
	projectHandler *handler.ProjectHandler,
	invoiceHandler *handler.InvoiceHandler,
	contractHandler *handler.ContractHandler,
	formHandler *handler.FormHandler,
	fileHandler *handler.FileHandler,
	messageHandler *handler.MessageHandler,
	bookingHandler *handler.BookingHandler,
	settingsHandler *handler.SettingsHandler,
	activityHandler *handler.ActivityHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		authHandler:     authHandler,
		portalHandler:   portalHandler,
		projectHandler:  projectHandler,
		invoiceHandler:  invoiceHandler,
		contractHandler: contractHandler,
		formHandler:     formHandler,
		fileHandler:     fileHandler,
		messageHandler:  messageHandler,
		bookingHandler:  bookingHandler,
		settingsHandler: settingsHandler,
		activityHandler: activityHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

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
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Token issuance: API key only, called by the agency backend
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAPIKey)
			r.Post("/auth/portal-token", rt.authHandler.IssuePortalToken)
		})

		// Portal routes: portal token required. Authenticated traffic
		// gets the per-client limit instead of the per-IP one.
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/portal", rt.portalHandler.Snapshot)
			r.Get("/portal/actions", rt.portalHandler.Actions)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Get("/{id}", rt.projectHandler.Get)
				r.Get("/{id}/milestones", rt.projectHandler.Milestones)
				r.Get("/{id}/tasks", rt.projectHandler.Tasks)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Get("/{id}", rt.invoiceHandler.Get)
			})

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", rt.contractHandler.List)
				r.Get("/{id}", rt.contractHandler.Get)
				r.Post("/{id}/sign", rt.contractHandler.Sign)
				r.Post("/{id}/decline", rt.contractHandler.Decline)
			})

			r.Route("/forms", func(r chi.Router) {
				r.Get("/", rt.formHandler.List)
				r.Get("/{id}", rt.formHandler.Get)
				r.Post("/{id}/submissions", rt.formHandler.Submit)
			})

			r.Route("/files", func(r chi.Router) {
				r.Get("/", rt.fileHandler.List)
				r.Post("/", rt.fileHandler.Upload)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Post("/{id}/review", rt.fileHandler.Review)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", rt.messageHandler.List)
				r.Post("/", rt.messageHandler.Send)
				r.Post("/read", rt.messageHandler.MarkRead)
			})

			r.Get("/bookings", rt.bookingHandler.ListUpcoming)

			// Agency-only routes
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAgency)
				r.Get("/settings", rt.settingsHandler.Get)
				r.Put("/settings", rt.settingsHandler.Update)
				r.Get("/activities", rt.activityHandler.List)
			})
		})
	})

	return r
}
