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
	ListRecentQueriesQuery struct {
		// Limit caps the result; zero or negative returns every query.
		Limit int
	}

	ListRecentQueriesQueryHandler = decorator.QueryHandler[ListRecentQueriesQuery, []*model.DeviceListQuery]

	listRecentQueriesQueryHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewListRecentQueriesQueryHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListRecentQueriesQueryHandler {
	return decorator.ApplyQueryDecorators[ListRecentQueriesQuery, []*model.DeviceListQuery](
		listRecentQueriesQueryHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listRecentQueriesQueryHandler) Execute(ctx context.Context, query ListRecentQueriesQuery) ([]*model.DeviceListQuery, error) {
	return h.repository.ListRecent(ctx, query.Limit)
}
