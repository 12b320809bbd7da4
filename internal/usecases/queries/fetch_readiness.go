package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/architeacher/device-admin/internal/config"
	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/pkg/decorator"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"

	storageDependency = "storage"
)

type (
	FetchReadinessQuery struct{}

	ReadinessResult struct {
		Status       string                            `json:"status"`
		Ready        bool                              `json:"ready"`
		Version      string                            `json:"version"`
		Uptime       string                            `json:"uptime"`
		Dependencies map[string]ports.DependencyStatus `json:"dependencies"`
	}

	FetchReadinessQueryHandler = decorator.QueryHandler[FetchReadinessQuery, *ReadinessResult]

	fetchReadinessQueryHandler struct {
		dbHealthChecker ports.DatabaseHealthChecker
		breaker         ports.BreakerStateReporter
		startTime       time.Time
	}
)

// NewFetchReadinessQueryHandler probes storage. breaker may be nil.
func NewFetchReadinessQueryHandler(
	dbHealthChecker ports.DatabaseHealthChecker,
	breaker ports.BreakerStateReporter,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchReadinessQueryHandler {
	return decorator.ApplyQueryDecorators[FetchReadinessQuery, *ReadinessResult](
		fetchReadinessQueryHandler{
			dbHealthChecker: dbHealthChecker,
			breaker:         breaker,
			startTime:       time.Now(),
		},
		log,
		metricsClient,
		tracerProvider,
	)
}

// Execute never fails: an unreachable store is reported in the result.
func (h fetchReadinessQueryHandler) Execute(ctx context.Context, _ FetchReadinessQuery) (*ReadinessResult, error) {
	start := time.Now()
	dbErr := h.dbHealthChecker.Ping(ctx)
	latency := time.Since(start)

	storage := ports.DependencyStatus{
		Healthy: dbErr == nil,
		Latency: fmt.Sprintf("%dms", latency.Milliseconds()),
	}

	if dbErr != nil {
		storage.Message = dbErr.Error()
	}

	if h.breaker != nil {
		storage.Breaker = h.breaker.BreakerState()
	}

	status := StatusOK
	if !storage.Healthy {
		status = StatusUnavailable
	}

	return &ReadinessResult{
		Status:       status,
		Ready:        storage.Healthy,
		Version:      config.ServiceVersion,
		Uptime:       time.Since(h.startTime).String(),
		Dependencies: map[string]ports.DependencyStatus{storageDependency: storage},
	}, nil
}
