package ports

import "context"

// HealthStatus represents the state of a component.
type HealthStatus string

const (
	HealthStatusReady    HealthStatus = "ready"
	HealthStatusNotReady HealthStatus = "not_ready"
	HealthStatusDisabled HealthStatus = "disabled"
)

// ComponentHealth is the result of one probe.
type ComponentHealth struct {
	Name    string                 `json:"name"`
	Status  HealthStatus           `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthProbe checks one component.
type HealthProbe interface {
	Check(ctx context.Context) ComponentHealth
}

// HealthChecker aggregates probes for the health endpoint.
type HealthChecker interface {
	// CheckAll runs every registered probe.
	CheckAll(ctx context.Context) []ComponentHealth

	// Ready reports whether every component is ready or disabled.
	Ready(ctx context.Context) bool
}
