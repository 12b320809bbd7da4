package commands

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
	SaveQueryCommand struct {
		Query *model.DeviceListQuery
		// Force overwrites a query already stored under the same name.
		Force bool
		// ETag, when set, makes the write conditional on the stored version.
		ETag string
	}

	SaveQueryCommandHandler = decorator.CommandHandler[SaveQueryCommand, bool]

	saveQueryCommandHandler struct {
		repository ports.DeviceListQueryRepository
	}
)

func NewSaveQueryCommandHandler(
	repository ports.DeviceListQueryRepository,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) SaveQueryCommandHandler {
	return decorator.ApplyCommandDecorators[SaveQueryCommand, bool](
		saveQueryCommandHandler{repository: repository},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h saveQueryCommandHandler) Handle(ctx context.Context, cmd SaveQueryCommand) (bool, error) {
	if cmd.Query == nil {
		errs := model.NewValidationErrors()
		errs.Add("query", "query is required", "required")

		return false, errs
	}

	if err := cmd.Query.Validate(); err != nil {
		return false, err
	}

	opts := []ports.SaveOption{ports.WithConcurrencyMode(model.Optimistic(cmd.ETag))}
	if cmd.Force {
		opts = append(opts, ports.WithForce())
	}

	return h.repository.Save(ctx, cmd.Query, opts...)
}
