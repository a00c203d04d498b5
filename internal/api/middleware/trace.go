package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/edu-api/internal/api/shared"
	"github.com/phrazzld/edu-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that adds a trace ID and a
// request-scoped logger carrying it to the request context. Apply it after
// chi's RequestID so the two IDs match.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
