package rest

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/checkout-service/api"
	"github.com/frahmantamala/checkout-service/internal/checkout"
	"github.com/frahmantamala/checkout-service/internal/transport/middleware"
	"github.com/frahmantamala/checkout-service/internal/transport/swagger"
	"github.com/frahmantamala/checkout-service/pkg/logger"
)

const banner = "checkout service is running\n"

type RouterConfig struct {
	// Origins allowed by CORS. Empty allows any http or https origin.
	Origins []string
	// FrontendOrigin is where GET / redirects. Empty serves a banner.
	FrontendOrigin string
	// StaticDir is served for unmatched GET requests when it exists.
	StaticDir string

	RateLimiter *middleware.RateLimiter
	Checkout    *checkout.Handler
	Logger      *slog.Logger
	Now         func() time.Time
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, cfg)
	return router
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig) {
	if cfg.Logger == nil {
		cfg.Logger = logger.LoggerWrapper()
	}
	healthHandler := NewHealthHandler(cfg.Now)

	// Apply global middleware. CORS goes first so that preflight requests
	// are answered before anything else runs.
	router.Use(middleware.CORS(cfg.Origins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(cfg.Logger))
	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(cfg.RateLimiter.Middleware)

	router.Get("/", rootHandler(cfg.FrontendOrigin))

	// Serve the embedded OpenAPI document and the Swagger UI
	router.Get(swagger.SpecPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)

		if cfg.Checkout != nil {
			r.Post("/create-order", cfg.Checkout.CreateOrder)
			r.Post("/verify-payment", cfg.Checkout.VerifyPayment)
		}
	})

	if fs := staticFileServer(cfg.StaticDir, cfg.Logger); fs != nil {
		router.NotFound(fs.ServeHTTP)
	}
}

func rootHandler(frontendOrigin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if frontendOrigin != "" {
			http.Redirect(w, r, frontendOrigin, http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, banner)
	}
}

// staticFileServer returns nil when dir is unset or missing.
func staticFileServer(dir string, log *slog.Logger) http.Handler {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Info("static directory not found, static files disabled", "dir", dir)
		return nil
	}

	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
