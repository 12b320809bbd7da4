// Package decorator wraps CQRS handlers with logging, metrics and tracing.
// The logging decorator is outermost, so its duration covers the others.
package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Query   any
	Command any
	Result  any

	QueryHandler[Q Query, R Result] interface {
		Execute(ctx context.Context, query Q) (R, error)
	}

	CommandHandler[C Command, R any] interface {
		Handle(ctx context.Context, cmd C) (R, error)
	}
)

func ApplyQueryDecorators[Q Query, R Result](
	handler QueryHandler[Q, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) QueryHandler[Q, R] {
	return queryLoggingDecorator[Q, R]{
		base: queryMetricsDecorator[Q, R]{
			base: queryTracingDecorator[Q, R]{
				base:           handler,
				tracerProvider: tracerProvider,
			},
			client: metricsClient,
		},
		logger: log,
	}
}

func ApplyCommandDecorators[C Command, R any](
	handler CommandHandler[C, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CommandHandler[C, R] {
	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:           handler,
				tracerProvider: tracerProvider,
			},
			client: metricsClient,
		},
		logger: log,
	}
}

// generateActionName turns the dynamic type of a query or command value,
// e.g. "*queries.GetQueryByNameQuery", into its bare type name.
func generateActionName(action any) string {
	name := strings.TrimLeft(fmt.Sprintf("%T", action), "*")

	if index := strings.IndexByte(name, '['); index >= 0 {
		name = name[:index]
	}

	if index := strings.LastIndexByte(name, '.'); index >= 0 {
		name = name[index+1:]
	}

	return name
}
