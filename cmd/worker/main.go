// Package main provides the entrypoint for the TripWise cache warm worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/database"
	"github.com/tripwise/tripwise/internal/geocode"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/places/overpass"
	"github.com/tripwise/tripwise/internal/provider/resilience"
	"github.com/tripwise/tripwise/internal/routing"
	"github.com/tripwise/tripwise/internal/routing/osrm"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/internal/weather/openmeteo"
	"github.com/tripwise/tripwise/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripwise-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripWise worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database for the hidden spot store
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	registry := resilience.NewRegistry()

	geocodeClientCfg := resilience.DefaultClientConfig(geocode.ProviderName)
	geocodeClientCfg.Registry = registry
	geocoder := geocode.NewClient(geocode.ClientConfig{
		CountryBias: os.Getenv("GEOCODE_COUNTRY_BIAS"),
		HTTPClient:  resilience.NewClient(geocodeClientCfg),
		Logger:      log,
	})

	routingService := routing.NewService(routing.ServiceConfig{
		Provider: osrm.NewClient(osrm.ClientConfig{
			BaseURL:  os.Getenv("OSRM_BASE_URL"),
			Geocoder: geocoder,
			Registry: registry,
			Logger:   log,
		}),
		Logger: log,
	})

	overpassClientCfg := resilience.DefaultClientConfig(overpass.ProviderName)
	overpassClientCfg.Registry = registry
	placesService := places.NewService(places.ServiceConfig{
		Provider: overpass.NewClient(overpass.ClientConfig{
			BaseURL:    os.Getenv("OVERPASS_BASE_URL"),
			Geocoder:   geocoder,
			HTTPClient: resilience.NewClient(overpassClientCfg),
			Logger:     log,
		}),
		HiddenStore: places.NewPostgresHiddenSpotStore(pool),
		Logger:      log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			BaseURL:  os.Getenv("OPENMETEO_BASE_URL"),
			Registry: registry,
			Logger:   log,
		}),
		Logger: log,
	})

	warmJob := worker.NewWarmJob(worker.WarmJobConfig{
		Config:  worker.DefaultWarmConfig(),
		Logger:  log,
		Places:  placesService,
		Routes:  routingService,
		Weather: weatherService,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscription != "" {
		// Pub/Sub-triggered mode
		pubsubHandler, psErr := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			WarmJob:          warmJob,
			Logger:           log,
		})
		if psErr != nil {
			log.Fatal().Err(psErr).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if recvErr := pubsubHandler.Start(ctx); recvErr != nil {
				log.Error().Err(recvErr).Msg("pubsub handler stopped")
				cancel()
			}
		}()
		log.Info().
			Str("project", projectID).
			Str("subscription", subscription).
			Msg("worker listening for pubsub messages")
	} else {
		// Interval mode for environments without Pub/Sub
		interval := 6 * time.Hour
		if raw := os.Getenv("WARM_INTERVAL"); raw != "" {
			if parsed, parseErr := time.ParseDuration(raw); parseErr == nil {
				interval = parsed
			} else {
				log.Warn().Str("value", raw).Msg("invalid WARM_INTERVAL, using default")
			}
		}

		go func() {
			log.Info().Dur("interval", interval).Msg("worker warming on interval")

			result := warmJob.Run(ctx)
			log.Info().Fields(warmJob.MetricsSnapshot()).
				Int("failed", result.Failed).
				Msg("initial warm completed")

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					result := warmJob.Run(ctx)
					log.Info().Fields(warmJob.MetricsSnapshot()).
						Int("failed", result.Failed).
						Msg("scheduled warm completed")
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
