package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/architeacher/device-admin/internal/adapters/tablestore"
	"github.com/architeacher/device-admin/internal/config"
	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/internal/usecases"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	cleanupFunc = func(ctx context.Context) error

	cleanupEntry struct {
		resource string
		fn       cleanupFunc
	}

	infrastructureDep struct {
		httpServer     *http.Server
		tracerProvider otelTrace.TracerProvider
		metricsClient  metrics.Client
		logger         logger.Logger
		dbPool         *pgxpool.Pool
		tableClient    *tablestore.Client
	}

	repositories struct {
		secretsRepo ports.SecretsRepository
		queryRepo   ports.DeviceListQueryRepository
		deviceTypes ports.DeviceTypeRepository
	}

	dependencies struct {
		config *config.ServiceConfig
		infra  infrastructureDep
		repos  repositories
		app    *usecases.Application

		// cleanups run on shutdown in reverse registration order.
		cleanups []cleanupEntry
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) addCleanup(resource string, fn cleanupFunc) {
	d.cleanups = append(d.cleanups, cleanupEntry{resource: resource, fn: fn})
}

// runCleanups releases resources last-acquired first.
func (d *dependencies) runCleanups(ctx context.Context) {
	for i := len(d.cleanups) - 1; i >= 0; i-- {
		entry := d.cleanups[i]

		if err := entry.fn(ctx); err != nil {
			d.infra.logger.Error().
				Err(err).
				Str("resource", entry.resource).
				Msg("failed to shutdown the resource gracefully")
		}
	}
}
