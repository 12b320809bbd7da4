// Package otelmetrics implements metrics.Client on top of an OpenTelemetry meter.
package otelmetrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/architeacher/device-admin/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Client struct {
	meter    metric.Meter
	counters sync.Map
	shutdown func(ctx context.Context) error
}

// NewClient creates a client whose counters are registered lazily on first use.
// shutdown may be nil.
func NewClient(provider metric.MeterProvider, name string, shutdown func(ctx context.Context) error) *Client {
	return &Client{
		meter:    provider.Meter(name),
		shutdown: shutdown,
	}
}

func (c *Client) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	delta, ok := toInt64(value)
	if !ok {
		return
	}

	counter, err := c.counter(key)
	if err != nil {
		return
	}

	counter.Add(ctx, delta, metric.WithAttributes(attributes...))
}

func (c *Client) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (c *Client) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown(ctx)
}

func (c *Client) counter(key string) (metric.Int64Counter, error) {
	if existing, ok := c.counters.Load(key); ok {
		return existing.(metric.Int64Counter), nil
	}

	counter, err := metrics.RegisterInt64Counter(c.meter, metrics.Descriptor{Unit: "1"}, key)
	if err != nil {
		return nil, err
	}

	actual, _ := c.counters.LoadOrStore(key, counter)

	return actual.(metric.Int64Counter), nil
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
