// Package main provides the entrypoint for the TripWise API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/api"
	"github.com/tripwise/tripwise/internal/api/handler"
	"github.com/tripwise/tripwise/internal/api/middleware"
	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/auth"
	"github.com/tripwise/tripwise/internal/budget"
	"github.com/tripwise/tripwise/internal/database"
	"github.com/tripwise/tripwise/internal/geocode"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/places/overpass"
	"github.com/tripwise/tripwise/internal/planner"
	"github.com/tripwise/tripwise/internal/provider/resilience"
	"github.com/tripwise/tripwise/internal/routing"
	"github.com/tripwise/tripwise/internal/routing/googlemaps"
	"github.com/tripwise/tripwise/internal/routing/osrm"
	"github.com/tripwise/tripwise/internal/telemetry"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripwise-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripWise API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Collaborator health registry
	registry := resilience.NewRegistry()

	// Geocoder shared by the routing and place providers
	geocodeClientCfg := resilience.DefaultClientConfig(geocode.ProviderName)
	geocodeClientCfg.Registry = registry
	geocoder := geocode.NewClient(geocode.ClientConfig{
		CountryBias: os.Getenv("GEOCODE_COUNTRY_BIAS"),
		HTTPClient:  resilience.NewClient(geocodeClientCfg),
		Logger:      log,
	})

	// Routing provider (OSRM by default, Google Maps when configured)
	var routeProvider routing.Provider
	if os.Getenv("ROUTING_PROVIDER") == googlemaps.ProviderName {
		gm, gmErr := googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
			Logger: log,
		})
		if gmErr != nil {
			log.Fatal().Err(gmErr).Msg("failed to initialize Google Maps client")
		}
		routeProvider = gm
	} else {
		routeProvider = osrm.NewClient(osrm.ClientConfig{
			BaseURL:  os.Getenv("OSRM_BASE_URL"),
			Geocoder: geocoder,
			Registry: registry,
			Logger:   log,
		})
	}

	routingService := routing.NewService(routing.ServiceConfig{
		Provider: routeProvider,
		Logger:   log,
	})
	log.Info().Str("provider", routingService.ProviderName()).Msg("routing service initialized")

	// Place provider and hidden spot store
	overpassClientCfg := resilience.DefaultClientConfig(overpass.ProviderName)
	overpassClientCfg.Registry = registry
	placeProvider := overpass.NewClient(overpass.ClientConfig{
		BaseURL:    os.Getenv("OVERPASS_BASE_URL"),
		Geocoder:   geocoder,
		HTTPClient: resilience.NewClient(overpassClientCfg),
		Logger:     log,
	})

	placesService := places.NewService(places.ServiceConfig{
		Provider:    placeProvider,
		HiddenStore: places.NewPostgresHiddenSpotStore(pool),
		Logger:      log,
	})
	log.Info().Msg("places service initialized")

	// Weather provider
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			BaseURL:  os.Getenv("OPENMETEO_BASE_URL"),
			Registry: registry,
			Logger:   log,
		}),
		Logger: log,
	})
	log.Info().Msg("weather service initialized")

	// Planning engine, with the spend predictor when its sidecar is configured
	engineCfg := planner.EngineConfig{
		Routes:  routingService,
		Places:  placesService,
		Weather: weatherService,
		Logger:  log,
	}
	if predictorURL := os.Getenv("PREDICTOR_URL"); predictorURL != "" {
		engineCfg.Predictor = budget.NewPredictorClient(budget.PredictorClientConfig{
			BaseURL:  predictorURL,
			Registry: registry,
			Logger:   log,
		})
		log.Info().Str("url", predictorURL).Msg("budget predictor initialized")
	} else {
		log.Warn().Msg("budget predictor not configured - estimating total as 110% of requested budget")
	}
	engine := planner.NewEngine(engineCfg)
	log.Info().Msg("planning engine initialized")

	// Itinerary storage
	itineraryService := itinerary.NewService(itinerary.ServiceConfig{
		Repository: itinerary.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("itinerary service initialized")

	// Token service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	tokens := auth.NewTokenService(auth.TokenConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.tripwise.app",
		Audience:   "tripwise-api",
	})
	log.Info().Msg("token service initialized")

	cacheStats := func() []models.CacheStatus {
		routeStats := routingService.CacheStats()
		weatherStats := weatherService.CacheStats()
		return []models.CacheStatus{
			{
				Name:         "routes",
				Provider:     routeStats.Provider,
				TotalEntries: routeStats.TotalEntries,
				FreshEntries: routeStats.FreshEntries,
			},
			{
				Name:         "weather",
				Provider:     weatherStats.Provider,
				TotalEntries: weatherStats.TotalEntries,
				FreshEntries: weatherStats.FreshEntries,
			},
			{
				Name:         "places",
				Provider:     overpass.ProviderName,
				TotalEntries: placesService.CacheSize(),
				FreshEntries: placesService.CacheSize(),
			},
		}
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Metrics:   metrics,
		Tokens:    tokens,
		Engine:    engine,
		Store:     itineraryService,
		Ops: handler.OpsConfig{
			DB:         pool,
			Registry:   registry,
			CacheStats: cacheStats,
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
