package queries

import (
	"context"

	"github.com/architeacher/device-admin/internal/domain/model"
	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/pkg/decorator"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	GetQueryByNameQuery struct {
		Name string
	}

	// GetQueryByNameQueryHandler yields a nil query when the name is unknown.
	GetQueryByNameQueryHandler = decorator.QueryHandler[GetQueryByNameQuery, *model.DeviceListQuery]

	getQueryByNameQueryHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewGetQueryByNameQueryHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetQueryByNameQueryHandler {
	return decorator.ApplyQueryDecorators[GetQueryByNameQuery, *model.DeviceListQuery](
		getQueryByNameQueryHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getQueryByNameQueryHandler) Execute(ctx context.Context, query GetQueryByNameQuery) (*model.DeviceListQuery, error) {
	return h.repository.GetByName(ctx, query.Name)
}
