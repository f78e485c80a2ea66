package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// CollaboratorHealth is a point-in-time health report for one collaborator,
// exposed through the ops status endpoint.
type CollaboratorHealth struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// IsHealthy reports whether the collaborator's breaker is closed.
func (h *CollaboratorHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks the resilient clients used for collaborator calls so their
// breaker state can be inspected centrally.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*trackedClient
}

type trackedClient struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*trackedClient)}
}

// Register adds a collaborator client under the given name.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = &trackedClient{client: client}
}

// RecordSuccess notes a successful collaborator call.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		now := time.Now()
		c.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed collaborator call.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		now := time.Now()
		c.lastFailureAt = &now
		if err != nil {
			c.lastError = err.Error()
		}
	}
}

// Health returns the health of one collaborator, or nil if unknown.
func (r *Registry) Health(name string) *CollaboratorHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[name]
	if !ok {
		return nil
	}
	return c.health(name)
}

// AllHealth returns health reports for every registered collaborator.
func (r *Registry) AllHealth() []*CollaboratorHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*CollaboratorHealth, 0, len(r.clients))
	for name, c := range r.clients {
		health = append(health, c.health(name))
	}
	return health
}

func (c *trackedClient) health(name string) *CollaboratorHealth {
	return &CollaboratorHealth{
		Name:          name,
		CircuitState:  c.client.BreakerState(),
		Counts:        c.client.BreakerCounts(),
		LastSuccessAt: c.lastSuccessAt,
		LastFailureAt: c.lastFailureAt,
		LastError:     c.lastError,
	}
}
