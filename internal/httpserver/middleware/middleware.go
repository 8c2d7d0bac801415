package middleware

import (
	"net/http"
	"time"

	"github.com/davidbz/shahsearch/internal/config"
	"github.com/davidbz/shahsearch/internal/observability"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middlewares into a single middleware.
// The first middleware is the outermost wrapper.
//
// Example:
//
//	chain := Chain(CORS(corsConfig), Trace(), AccessLog())
//	handler := chain(mux)
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// BuildMiddlewareChain composes the middleware chain for production.
// Order matters: CORS -> Trace -> AccessLog. Preflight requests stop at CORS.
func BuildMiddlewareChain(corsConfig *config.CORSConfig) Middleware {
	return Chain(
		CORS(corsConfig),
		Trace(),
		AccessLog(),
	)
}

// AccessLog logs the status and latency of every request that reaches the routes.
func AccessLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			observability.FromContext(r.Context()).Info("request completed",
				observability.Int("status", recorder.status),
				observability.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
