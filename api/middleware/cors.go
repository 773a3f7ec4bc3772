package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/supplyhub-backend/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://app.supplyhub.io",
	"https://partner.supplyhub.io",
}

// CORS applies the configured origin allow-list, or the built-in portals when none is set.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	maxAge := int(cfg.MaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = 300
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Refresh-Token", "Idempotency-Key", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           maxAge,
	}).Handler
}
