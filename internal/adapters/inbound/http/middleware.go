package http

import (
	"context"
	"net/http"
	"time"

	"github.com/architeacher/device-admin/pkg/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// requestID propagates the caller's request ID, or mints one, into the
// response header and the context read by logger.WithContext.
func requestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), logger.ContextKeyRequestID, id)
			w.Header().Set(RequestIDHeader, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			reqLogger := log.WithContext(r.Context())

			event := reqLogger.Debug()
			if wrapped.Status() >= http.StatusInternalServerError {
				event = reqLogger.Warn()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", wrapped.Status()).
				Int("bytes", wrapped.BytesWritten()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Send()
		})
	}
}
