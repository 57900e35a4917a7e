package app

import (
	"context"
	"sync"
	"time"

	"github.com/nimyab/word-aligner/internal/server/ports"
	"github.com/nimyab/word-aligner/internal/similarity"
)

// HealthCheckerImpl aggregates health probes for all components.
type HealthCheckerImpl struct {
	probes []ports.HealthProbe
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker() *HealthCheckerImpl {
	return &HealthCheckerImpl{
		probes: make([]ports.HealthProbe, 0),
	}
}

// RegisterProbe adds a health probe.
func (h *HealthCheckerImpl) RegisterProbe(probe ports.HealthProbe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes = append(h.probes, probe)
}

// CheckAll returns health status for all components.
func (h *HealthCheckerImpl) CheckAll(ctx context.Context) []ports.ComponentHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make([]ports.ComponentHealth, 0, len(h.probes))
	for _, probe := range h.probes {
		results = append(results, probe.Check(ctx))
	}
	return results
}

// Ready reports whether every component is ready or disabled.
func (h *HealthCheckerImpl) Ready(ctx context.Context) bool {
	for _, health := range h.CheckAll(ctx) {
		if health.Status == ports.HealthStatusNotReady {
			return false
		}
	}
	return true
}

var _ ports.HealthChecker = (*HealthCheckerImpl)(nil)

// ProviderProbe checks the similarity provider with a minimal matrix
// request. The embedding cache keeps repeat probes off the upstream.
type ProviderProbe struct {
	provider similarity.Provider
	timeout  time.Duration
}

// NewProviderProbe creates a probe for the given provider.
func NewProviderProbe(provider similarity.Provider, timeout time.Duration) *ProviderProbe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProviderProbe{provider: provider, timeout: timeout}
}

// Check returns the health status of the similarity provider.
func (p *ProviderProbe) Check(ctx context.Context) ports.ComponentHealth {
	if p.provider == nil {
		return ports.ComponentHealth{
			Name:    "similarity_provider",
			Status:  ports.HealthStatusNotReady,
			Message: "no provider configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if _, err := p.provider.Matrix(ctx, []string{"ping"}, []string{"pong"}); err != nil {
		return ports.ComponentHealth{
			Name:    "similarity_provider",
			Status:  ports.HealthStatusNotReady,
			Message: err.Error(),
			Details: map[string]interface{}{
				"provider": p.provider.Name(),
			},
		}
	}

	return ports.ComponentHealth{
		Name:    "similarity_provider",
		Status:  ports.HealthStatusReady,
		Message: "provider answering",
		Details: map[string]interface{}{
			"provider":   p.provider.Name(),
			"latency_ms": time.Since(start).Milliseconds(),
		},
	}
}
