package http

import (
	"encoding/json"
	"net/http"

	"github.com/architeacher/device-admin/internal/usecases"
	"github.com/architeacher/device-admin/internal/usecases/queries"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	LivenessPath  = "/health/liveness"
	ReadinessPath = "/health/readiness"
)

// RouterConfig holds dependencies for the health router.
type RouterConfig struct {
	App            *usecases.Application
	Logger         logger.Logger
	TracerProvider otelTrace.TracerProvider
}

// NewRouter serves the liveness and readiness probes.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger.Component("http")

	router := chi.NewRouter()

	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestID())

	if cfg.TracerProvider != nil {
		router.Use(otelhttp.NewMiddleware("health", otelhttp.WithTracerProvider(cfg.TracerProvider)))
	}

	router.Use(accessLogger(log))

	handler := healthHandler{app: cfg.App, logger: log}

	router.Get(LivenessPath, handler.liveness)
	router.Get(ReadinessPath, handler.readiness)

	return router
}

type healthHandler struct {
	app    *usecases.Application
	logger logger.Logger
}

func (h healthHandler) liveness(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchLiveness.Execute(r.Context(), queries.FetchLivenessQuery{})
	if err != nil {
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": queries.StatusUnavailable})

		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

func (h healthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchReadiness.Execute(r.Context(), queries.FetchReadinessQuery{})
	if err != nil {
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": queries.StatusUnavailable})

		return
	}

	status := http.StatusOK
	if !result.Ready {
		status = http.StatusServiceUnavailable
	}

	h.writeJSON(w, r, status, result)
}

func (h healthHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log := h.logger.WithContext(r.Context())
		log.Error().Err(err).Msg("failed to write health response")
	}
}
