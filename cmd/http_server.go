package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/checkout"
	"github.com/frahmantamala/checkout-service/internal/core/events"
	"github.com/frahmantamala/checkout-service/internal/paymentgateway"
	"github.com/frahmantamala/checkout-service/internal/transport"
	"github.com/frahmantamala/checkout-service/internal/transport/middleware"
	"github.com/frahmantamala/checkout-service/internal/transport/rest"
	"github.com/frahmantamala/checkout-service/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 30 * time.Second
	rateLimiterIdle = 10 * time.Minute
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle checkout API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	Router      *chi.Mux
	EventBus    *events.EventBus
	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if deps.RateLimiter.Enabled() {
		go deps.RateLimiter.Run(ctx, rateLimiterIdle)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(shutdownCtx); err != nil {
			deps.Logger.Error("Event handlers did not finish", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	creds := checkout.NewCredentials(config.Gateway.PublicID, config.Gateway.Secret)
	lg.Info("gateway credentials loaded",
		"credentials", creds,
		"key_id_present", config.Gateway.PublicID != "",
		"secret_present", config.Gateway.Secret != "")
	if !config.Gateway.HasCredentials() {
		lg.Error("gateway credentials missing: create-order will fail until GATEWAY_PUBLIC_ID and GATEWAY_SECRET are set")
	}

	client := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL: config.Gateway.BaseURL,
		KeyID:   config.Gateway.PublicID,
		Secret:  config.Gateway.Secret,
		Timeout: config.Gateway.Timeout,
	}, lg)

	eventBus := events.NewEventBus(lg)
	checkout.NewAuditLogger(lg).RegisterEventHandlers(eventBus)

	service := checkout.NewService(client, creds, lg, checkout.WithPublisher(eventBus))
	handler := checkout.NewHandler(transport.NewBaseHandler(lg), service)

	rateLimiter := middleware.NewRateLimiter(
		config.Server.RateLimit.RequestsPerSecond,
		config.Server.RateLimit.Burst,
		lg)

	router := rest.NewRouter(rest.RouterConfig{
		Origins:        config.Server.Origins(),
		FrontendOrigin: config.Server.FrontendOrigin,
		StaticDir:      config.Server.StaticDir,
		RateLimiter:    rateLimiter,
		Checkout:       handler,
		Logger:         lg,
	})

	return &Dependencies{
		Config:      config,
		Router:      router,
		EventBus:    eventBus,
		RateLimiter: rateLimiter,
		Logger:      lg,
	}, nil
}
