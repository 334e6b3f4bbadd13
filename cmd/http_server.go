package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/internal/auth"
	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/internal/transport/middleware"
	"github.com/frahmantamala/funcionarios/internal/transport/rest"
	"github.com/frahmantamala/funcionarios/internal/transport/swagger"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/frahmantamala/funcionarios/pkg/telemetry"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	Backend    *backendDeps
	Registry   *app.Registry
	Bus        *events.EventBus
	Router     *chi.Mux
	Translator *i18n.Translator
	Logger     *slog.Logger
	Shutdown   telemetry.ShutdownFunc
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go deps.Registry.Run(ctx)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "backend", deps.Config.Backend.Mode)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		stop()
		deps.Registry.Close()
		deps.Bus.Wait()
		if err := deps.Backend.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
		if err := deps.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Tracer shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger, deps.Translator)
	cfg := deps.Config

	openAPIPath := cfg.Server.OpenAPIPath
	if _, err := swagger.LoadSpec(context.Background(), openAPIPath); err != nil {
		deps.Logger.Warn("OpenAPI document unavailable, docs disabled", "path", openAPIPath, "error", err)
		openAPIPath = ""
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Auth:         auth.NewHandler(base, app.AuthService, app.NotificationService),
		Funcionario:  funcionario.NewHandler(base, app.FuncionarioStore, app.NotificationService),
		Notification: notification.NewHandler(base, app.NotificationService),
		Health: rest.NewHealthHandler(map[string]rest.Pinger{
			"backend": rest.PingerFunc(deps.Backend.Ping),
		}, func() map[string]any {
			return map[string]any{"clients": deps.Registry.Len()}
		}),
		Registry: deps.Registry,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.IdleTTL,
			Secure: cfg.Session.SecureCookie,
		},
		Translator:    deps.Translator,
		OpenAPIPath:   openAPIPath,
		AllowedOrigin: cfg.Server.AllowedOrigins,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Env, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	tracing := config.Observability.Tracing
	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:      tracing.Enabled,
		ServiceName:  tracing.ServiceName,
		SamplingRate: tracing.SamplingRate,
		Endpoint:     tracing.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	b, err := initBackend(config, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}

	tr := i18n.New(config.Locale)
	bus := events.NewEventBus(lg)
	registry := app.NewRegistry(app.Deps{
		Backend:    b.Factory,
		Translator: tr,
		Logger:     lg,
		Bus:        bus,
		Notification: notification.Config{
			ErrorTTL:   config.Notification.ErrorTTL,
			DefaultTTL: config.Notification.DefaultTTL,
		},
	}, app.RegistryConfig{
		IdleTTL:       config.Session.IdleTTL,
		SweepInterval: config.Session.SweepInterval,
	})

	return &Dependencies{
		Config:     config,
		Backend:    b,
		Registry:   registry,
		Bus:        bus,
		Router:     chi.NewRouter(),
		Translator: tr,
		Logger:     lg,
		Shutdown:   shutdown,
	}, nil
}
