package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/shahsearch/internal/config"
)

// CORS creates a middleware that answers preflight requests using the
// github.com/rs/cors library. The search response itself always carries
// Access-Control-Allow-Origin: * regardless of this policy.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		// Return no-op middleware if config is nil.
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
