// Package handler provides HTTP handlers for the TripWise API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/api/response"
	"github.com/tripwise/tripwise/internal/provider/resilience"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version    string
	buildTime  string
	db         Pinger
	registry   *resilience.Registry
	cacheStats func() []models.CacheStatus
}

// OpsConfig holds configuration for the ops handler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// DB is pinged by the readiness check. May be nil.
	DB Pinger

	// Registry exposes collaborator breaker states. May be nil.
	Registry *resilience.Registry

	// CacheStats reports the provider cache states. May be nil.
	CacheStats func() []models.CacheStatus
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{
		version:    cfg.Version,
		buildTime:  cfg.BuildTime,
		db:         cfg.DB,
		registry:   cfg.Registry,
		cacheStats: cfg.CacheStats,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider breaker and cache status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: h.subsystems(r.Context()),
		Providers:  []models.ProviderStatus{},
		Caches:     []models.CacheStatus{},
	}

	if h.registry != nil {
		for _, col := range h.registry.AllHealth() {
			provider := models.ProviderStatus{
				Provider:     col.Name,
				Status:       providerHealthStatus(col),
				CircuitState: col.CircuitState.String(),
			}
			if col.LastSuccessAt != nil {
				ts := models.Timestamp(*col.LastSuccessAt)
				provider.LastSuccessAt = &ts
			}
			if col.LastFailureAt != nil {
				ts := models.Timestamp(*col.LastFailureAt)
				provider.LastFailureAt = &ts
			}
			if col.LastError != "" {
				msg := col.LastError
				provider.Message = &msg
			}
			status.Providers = append(status.Providers, provider)

			if provider.Status != models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	if h.cacheStats != nil {
		status.Caches = h.cacheStats()
	}

	for _, sub := range status.Subsystems {
		if sub.Status != models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) subsystems(ctx context.Context) []models.SubsystemStatus {
	if h.db == nil {
		return []models.SubsystemStatus{}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	sub := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
	if err := h.db.Ping(pingCtx); err != nil {
		detail := err.Error()
		sub.Status = models.HealthStatusFail
		sub.Detail = &detail
	}
	return []models.SubsystemStatus{sub}
}

func providerHealthStatus(col *resilience.CollaboratorHealth) models.HealthStatus {
	switch col.CircuitState {
	case gobreaker.StateClosed:
		return models.HealthStatusOK
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusFail
	}
}
