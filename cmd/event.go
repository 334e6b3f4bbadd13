package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/internal/auth"
	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "events",
	Short: "Event bus commands",
	Long:  `Inspect the application events of one client context against the configured backend`,
}

var watchEventCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open a client context and print its events",
	Long: `Opens one client context, optionally signs in, and prints every event as a
JSON line. The session is re-checked on every interval until interrupted.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateWatchFlags(watchEmail, watchPassword, watchInterval)
	},
	Run: func(cmd *cobra.Command, args []string) {
		watchEvents()
	},
}

var (
	watchEmail    string
	watchPassword string
	watchInterval time.Duration
)

type eventLine struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func validateWatchFlags(email, password string, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}
	if password != "" && email == "" {
		return fmt.Errorf("--password requires --email")
	}
	return nil
}

func watchEvents() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env, cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	deps, err := initBackend(cfg, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize backend: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	bus := events.NewEventBus(lg)
	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	bus.Subscribe(events.AllEvents, func(ctx context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		return enc.Encode(eventLine{
			ID:         event.EventID(),
			Type:       event.EventType(),
			OccurredAt: event.OccurredAt(),
			Payload:    event.Payload(),
		})
	})

	registry := app.NewRegistry(app.Deps{
		Backend:    deps.Factory,
		Translator: i18n.New(cfg.Locale),
		Logger:     lg,
		Bus:        bus,
		Notification: notification.Config{
			ErrorTTL:   cfg.Notification.ErrorTTL,
			DefaultTTL: cfg.Notification.DefaultTTL,
		},
	}, app.RegistryConfig{})
	defer registry.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, _ := registry.Acquire(ctx, "")
	lg.Info("watching client context", "client_id", client.ID)

	if watchEmail != "" {
		if _, err := client.Auth.Login(ctx, auth.LoginDTO{Email: watchEmail, Password: watchPassword}); err != nil {
			lg.Error("sign in failed", "email", watchEmail, "error", err)
		}
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("stopping event watch")
			if client.Auth.IsAuthenticated() {
				client.Auth.Logout(context.Background())
			}
			bus.Wait()
			return
		case <-ticker.C:
			client.Auth.CheckAuth(ctx)
		}
	}
}

func init() {
	watchEventCmd.Flags().StringVar(&watchEmail, "email", "", "sign in with this e-mail before watching")
	watchEventCmd.Flags().StringVar(&watchPassword, "password", "", "password for --email")
	watchEventCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "how often the session is re-checked")

	eventCmd.AddCommand(watchEventCmd)

	rootCmd.AddCommand(eventCmd)
}
