package otelmetrics_test

import (
	"testing"

	"github.com/architeacher/device-admin/pkg/metrics/otelmetrics"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	var total int64

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)

			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}

func TestClient_Inc(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	client := otelmetrics.NewClient(provider, "test", provider.Shutdown)

	client.Inc(t.Context(), "queries.getquery.success", 1)
	client.Inc(t.Context(), "queries.getquery.success", int64(2), attribute.String("table", "query_list"))
	client.Inc(t.Context(), "queries.getquery.success", "not a number")

	require.Equal(t, int64(3), collectSum(t, reader, "queries.getquery.success"))
	require.NoError(t, client.Shutdown(t.Context()))
}

func TestClient_ShutdownWithoutProvider(t *testing.T) {
	t.Parallel()

	provider := sdkmetric.NewMeterProvider()
	client := otelmetrics.NewClient(provider, "test", nil)

	require.NoError(t, client.Shutdown(t.Context()))
	require.NotNil(t, client.Handler())
}
