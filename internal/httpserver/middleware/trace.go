package middleware

import (
	"net/http"

	"github.com/davidbz/shahsearch/internal/observability"
)

// Trace creates a middleware that injects trace ID and request ID into every request.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := observability.WithNewTrace(r.Context(), r.Header.Get("X-Request-Id"))

			w.Header().Set("X-Trace-Id", observability.GetTraceID(ctx))
			w.Header().Set("X-Request-Id", observability.GetRequestID(ctx))

			contextLogger := observability.FromContext(ctx)
			contextLogger.Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("remote_addr", r.RemoteAddr),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
