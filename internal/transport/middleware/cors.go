package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var anyWebOrigin = []string{"https://*", "http://*"}

// CORS allows the given origins. Preflight requests are answered here and do
// not reach the next handler.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = anyWebOrigin
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
