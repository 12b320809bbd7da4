package ports

import "context"

type (
	// DatabaseHealthChecker defines the interface for database health checks.
	DatabaseHealthChecker interface {
		// Ping checks if the database connection is alive.
		Ping(ctx context.Context) error
	}

	// BreakerStateReporter reports the storage circuit breaker state.
	BreakerStateReporter interface {
		BreakerState() string
	}

	// DependencyStatus represents the health status of a dependency.
	DependencyStatus struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message,omitempty"`
		Latency string `json:"latency,omitempty"`
		Breaker string `json:"breaker,omitempty"`
	}
)
