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
	TouchQueryCommand struct {
		Name string
	}

	TouchQueryCommandHandler = decorator.CommandHandler[TouchQueryCommand, bool]

	touchQueryCommandHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewTouchQueryCommandHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) TouchQueryCommandHandler {
	return decorator.ApplyCommandDecorators[TouchQueryCommand, bool](
		touchQueryCommandHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h touchQueryCommandHandler) Handle(ctx context.Context, cmd TouchQueryCommand) (bool, error) {
	return h.repository.Touch(ctx, cmd.Name)
}
