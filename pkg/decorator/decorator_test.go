package decorator_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/architeacher/device-admin/pkg/decorator"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type (
	LookupThing struct{ Name string }
	RenameThing struct{ Name string }

	lookupHandler struct{ err error }
	renameHandler struct{ err error }

	recordingMetrics struct {
		mu     sync.Mutex
		counts map[string]int
	}
)

func (h lookupHandler) Execute(_ context.Context, q LookupThing) (string, error) {
	return "found " + q.Name, h.err
}

func (h renameHandler) Handle(_ context.Context, c RenameThing) (bool, error) {
	return h.err == nil, h.err
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counts: make(map[string]int)}
}

func (m *recordingMetrics) Inc(_ context.Context, key string, _ any, _ ...attribute.KeyValue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[key]++
}

func (m *recordingMetrics) Handler() http.Handler { return http.NotFoundHandler() }

func (m *recordingMetrics) Shutdown(context.Context) error { return nil }

func (m *recordingMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counts[key]
}

func TestApplyQueryDecorators(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		handlerErr    error
		expectedKey   string
		expectedState codes.Code
	}{
		{
			name:          "success is counted and traced",
			expectedKey:   "queries.lookupthing.success",
			expectedState: codes.Unset,
		},
		{
			name:          "failure is counted and marks the span",
			handlerErr:    errors.New("storage down"),
			expectedKey:   "queries.lookupthing.failure",
			expectedState: codes.Error,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			mc := newRecordingMetrics()

			var buf bytes.Buffer
			log := logger.NewWithWriter(logger.LogLevelDebug, logger.JSONLoggingFormat, &buf)

			handler := decorator.ApplyQueryDecorators[LookupThing, string](
				lookupHandler{err: tc.handlerErr}, log, mc, tp,
			)

			result, err := handler.Execute(t.Context(), LookupThing{Name: "a"})
			require.ErrorIs(t, err, tc.handlerErr)
			require.Equal(t, "found a", result)

			require.Equal(t, 1, mc.count(tc.expectedKey))
			require.Equal(t, 1, mc.count("queries.lookupthing.duration"))

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			require.Equal(t, "query.LookupThing", spans[0].Name())
			require.Equal(t, tc.expectedState, spans[0].Status().Code)

			require.Contains(t, buf.String(), `"query":"LookupThing"`)
		})
	}
}

func TestApplyCommandDecorators(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	mc := newRecordingMetrics()

	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.LogLevelDebug, logger.JSONLoggingFormat, &buf)

	handler := decorator.ApplyCommandDecorators[RenameThing, bool](renameHandler{}, log, mc, tp)

	ok, err := handler.Handle(t.Context(), RenameThing{Name: "b"})
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 1, mc.count("commands.renamething.success"))
	require.Len(t, recorder.Ended(), 1)
	require.Equal(t, "command.RenameThing", recorder.Ended()[0].Name())
	require.Contains(t, buf.String(), "command executed")
}

func TestApplyQueryDecorators_NilCollaborators(t *testing.T) {
	t.Parallel()

	handler := decorator.ApplyQueryDecorators[LookupThing, string](
		lookupHandler{}, logger.NewTestLogger(), nil, nil,
	)

	result, err := handler.Execute(t.Context(), LookupThing{Name: "c"})
	require.NoError(t, err)
	require.Equal(t, "found c", result)
}
