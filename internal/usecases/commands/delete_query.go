package commands

import (
	"context"

	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/pkg/decorator"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	DeleteQueryCommand struct {
		Name string
	}

	DeleteQueryCommandHandler = decorator.CommandHandler[DeleteQueryCommand, bool]

	deleteQueryCommandHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewDeleteQueryCommandHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) DeleteQueryCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteQueryCommand, bool](
		deleteQueryCommandHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteQueryCommandHandler) Handle(ctx context.Context, cmd DeleteQueryCommand) (bool, error) {
	return h.repository.Delete(ctx, cmd.Name)
}
