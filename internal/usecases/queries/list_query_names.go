package queries

import (
	"context"

	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/pkg/decorator"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	ListQueryNamesQuery struct{}

	ListQueryNamesQueryHandler = decorator.QueryHandler[ListQueryNamesQuery, []string]

	listQueryNamesQueryHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewListQueryNamesQueryHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListQueryNamesQueryHandler {
	return decorator.ApplyQueryDecorators[ListQueryNamesQuery, []string](
		listQueryNamesQueryHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listQueryNamesQueryHandler) Execute(ctx context.Context, _ ListQueryNamesQuery) ([]string, error) {
	return h.repository.ListNames(ctx)
}
