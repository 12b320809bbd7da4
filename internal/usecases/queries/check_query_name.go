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
	CheckQueryNameQuery struct {
		Name string
	}

	CheckQueryNameQueryHandler = decorator.QueryHandler[CheckQueryNameQuery, bool]

	checkQueryNameQueryHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewCheckQueryNameQueryHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CheckQueryNameQueryHandler {
	return decorator.ApplyQueryDecorators[CheckQueryNameQuery, bool](
		checkQueryNameQueryHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h checkQueryNameQueryHandler) Execute(ctx context.Context, query CheckQueryNameQuery) (bool, error) {
	return h.repository.NameExists(ctx, query.Name)
}
