package usecases

import (
	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/internal/usecases/commands"
	"github.com/architeacher/device-admin/internal/usecases/queries"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		SaveQuery   commands.SaveQueryCommandHandler
		TouchQuery  commands.TouchQueryCommandHandler
		DeleteQuery commands.DeleteQueryCommandHandler
	}

	Queries struct {
		CheckQueryName    queries.CheckQueryNameQueryHandler
		GetQuery          queries.GetQueryByNameQueryHandler
		ListRecentQueries queries.ListRecentQueriesQueryHandler
		ListQueryNames    queries.ListQueryNamesQueryHandler
		ListDeviceTypes   queries.ListDeviceTypesQueryHandler
		GetDeviceType     queries.GetDeviceTypeQueryHandler
		FetchLiveness     queries.FetchLivenessQueryHandler
		FetchReadiness    queries.FetchReadinessQueryHandler
	}

	Application struct {
		Commands Commands
		Queries  Queries
	}
)

func NewApplication(
	queryRepo ports.DeviceListQueryRepository,
	deviceTypes ports.DeviceTypeRepository,
	dbHealthChecker ports.DatabaseHealthChecker,
	breaker ports.BreakerStateReporter,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) *Application {
	return &Application{
		Commands: Commands{
			SaveQuery:   commands.NewSaveQueryCommandHandler(queryRepo, log, metricsClient, tracerProvider),
			TouchQuery:  commands.NewTouchQueryCommandHandler(queryRepo, log, metricsClient, tracerProvider),
			DeleteQuery: commands.NewDeleteQueryCommandHandler(queryRepo, log, metricsClient, tracerProvider),
		},
		Queries: Queries{
			CheckQueryName:    queries.NewCheckQueryNameQueryHandler(queryRepo, log, metricsClient, tracerProvider),
			GetQuery:          queries.NewGetQueryByNameQueryHandler(queryRepo, log, metricsClient, tracerProvider),
			ListRecentQueries: queries.NewListRecentQueriesQueryHandler(queryRepo, log, metricsClient, tracerProvider),
			ListQueryNames:    queries.NewListQueryNamesQueryHandler(queryRepo, log, metricsClient, tracerProvider),
			ListDeviceTypes:   queries.NewListDeviceTypesQueryHandler(deviceTypes, log, metricsClient, tracerProvider),
			GetDeviceType:     queries.NewGetDeviceTypeQueryHandler(deviceTypes, log, metricsClient, tracerProvider),
			FetchLiveness:     queries.NewFetchLivenessQueryHandler(log, metricsClient, tracerProvider),
			FetchReadiness:    queries.NewFetchReadinessQueryHandler(dbHealthChecker, breaker, log, metricsClient, tracerProvider),
		},
	}
}
