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
	ListDeviceTypesQuery struct{}

	GetDeviceTypeQuery struct {
		ID model.DeviceTypeID
	}

	ListDeviceTypesQueryHandler = decorator.QueryHandler[ListDeviceTypesQuery, []model.DeviceType]

	// GetDeviceTypeQueryHandler yields nil for an unknown ID.
	GetDeviceTypeQueryHandler = decorator.QueryHandler[GetDeviceTypeQuery, *model.DeviceType]

	listDeviceTypesQueryHandler struct {
		catalog ports.DeviceTypeRepository
	}

	getDeviceTypeQueryHandler struct {
		catalog ports.DeviceTypeRepository
	}
)

func NewListDeviceTypesQueryHandler(
	catalog ports.DeviceTypeRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListDeviceTypesQueryHandler {
	return decorator.ApplyQueryDecorators[ListDeviceTypesQuery, []model.DeviceType](
		listDeviceTypesQueryHandler{catalog: catalog},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listDeviceTypesQueryHandler) Execute(_ context.Context, _ ListDeviceTypesQuery) ([]model.DeviceType, error) {
	return h.catalog.ListAll(), nil
}

func NewGetDeviceTypeQueryHandler(
	catalog ports.DeviceTypeRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetDeviceTypeQueryHandler {
	return decorator.ApplyQueryDecorators[GetDeviceTypeQuery, *model.DeviceType](
		getDeviceTypeQueryHandler{catalog: catalog},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getDeviceTypeQueryHandler) Execute(_ context.Context, query GetDeviceTypeQuery) (*model.DeviceType, error) {
	return h.catalog.GetByID(query.ID), nil
}
