// Package api provides the HTTP API for TripWise.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/api/handler"
	"github.com/tripwise/tripwise/internal/api/middleware"
	"github.com/tripwise/tripwise/internal/auth"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics
	Tokens    *auth.TokenService
	Engine    handler.ItineraryPlanner
	Store     handler.ItineraryStore
	Ops       handler.OpsConfig
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing("tripwise-api"))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	if cfg.Ops.Version == "" {
		cfg.Ops.Version = cfg.Version
	}
	if cfg.Ops.BuildTime == "" {
		cfg.Ops.BuildTime = cfg.BuildTime
	}

	opsHandler := handler.NewOpsHandler(cfg.Ops)
	itineraryHandler := handler.NewItineraryHandler(cfg.Engine, cfg.Store, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.Tokens)

	generateRateLimit := middleware.RateLimitByUser(middleware.GenerateRateLimit)
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public except status)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Generation fans out to several providers, so it gets the
		// stricter limit
		r.With(authMiddleware, generateRateLimit).
			Post("/itineraries:generate", itineraryHandler.GenerateItinerary)

		// Saved itineraries (authenticated)
		r.Route("/itineraries", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", itineraryHandler.ListItineraries)
			r.Route("/{itineraryId}", func(r chi.Router) {
				r.Get("/", itineraryHandler.GetItinerary)
				r.Delete("/", itineraryHandler.DeleteItinerary)
			})
		})
	})

	return r
}
