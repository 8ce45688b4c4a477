package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	errs "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/transport"
	"github.com/frahmantamala/checkout-service/pkg/logger"
)

// RecoveryMiddleware turns a panic into a 500. The panic value is logged
// together with the stack and never written to the client.
func RecoveryMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	writer := transport.NewBaseHandler(base)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log := base
					if l, ok := logger.FromContext(r.Context()); ok {
						log = l
					}
					log.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.Path,
						"stack", string(debug.Stack()))

					writer.WriteError(w, http.StatusInternalServerError, string(errs.ErrCodeServerError))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
