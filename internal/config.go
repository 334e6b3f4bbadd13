package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendModeSupabase = "supabase"
	BackendModeLocal    = "local"
)

type Config struct {
	Env           string              `mapstructure:"env" env:"APP_ENV" envDefault:"development"`
	Locale        string              `mapstructure:"locale" env:"APP_LOCALE" envDefault:"pt-BR"`
	Server        ServerConfig        `mapstructure:"http_server" envPrefix:"HTTP_"`
	Backend       BackendConfig       `mapstructure:"backend" envPrefix:"BACKEND_"`
	Database      DatabaseConfig      `mapstructure:"database" envPrefix:"DB_"`
	Security      SecurityConfig      `mapstructure:"security" envPrefix:"SECURITY_"`
	Notification  NotificationConfig  `mapstructure:"notification" envPrefix:"NOTIFICATION_"`
	Session       SessionConfig       `mapstructure:"session" envPrefix:"SESSION_"`
	Observability ObservabilityConfig `mapstructure:"observability" envPrefix:"OBSERVABILITY_"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"PORT" envDefault:"8080"`
	BaseURL           string        `mapstructure:"base_url" env:"BASE_URL"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS" envDefault:"*"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"READ_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"IDLE_TIMEOUT" envDefault:"60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"WRITE_TIMEOUT" envDefault:"15s"`
	OpenAPIPath       string        `mapstructure:"openapi_path" env:"OPENAPI_PATH" envDefault:"./api/openapi.yml"`
}

// BackendConfig selects the remote backend. The API key is the publishable
// (anon) key of the hosted project and is not treated as a secret.
type BackendConfig struct {
	Mode        string        `mapstructure:"mode" env:"MODE" envDefault:"supabase"`
	URL         string        `mapstructure:"url" env:"URL"`
	APIKey      string        `mapstructure:"api_key" env:"API_KEY"`
	Timeout     time.Duration `mapstructure:"timeout" env:"TIMEOUT" envDefault:"10s"`
	AutoConfirm bool          `mapstructure:"auto_confirm" env:"AUTO_CONFIRM" envDefault:"true"`
	RequireAuth bool          `mapstructure:"require_auth" env:"REQUIRE_AUTH" envDefault:"true"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`
	Source          string        `mapstructure:"source" env:"SOURCE"`
}

type SecurityConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret" env:"JWT_SECRET"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" env:"ACCESS_TOKEN_DURATION" envDefault:"1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" env:"REFRESH_TOKEN_DURATION" envDefault:"168h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" env:"BCRYPT_COST" envDefault:"10"`
	MaxLoginAttempts     int           `mapstructure:"max_login_attempts" env:"MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	LoginAttemptWindow   time.Duration `mapstructure:"login_attempt_window" env:"LOGIN_ATTEMPT_WINDOW" envDefault:"5m"`
}

type NotificationConfig struct {
	ErrorTTL   time.Duration `mapstructure:"error_ttl" env:"ERROR_TTL" envDefault:"6s"`
	DefaultTTL time.Duration `mapstructure:"default_ttl" env:"DEFAULT_TTL" envDefault:"4s"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name" env:"COOKIE_NAME" envDefault:"fs_client"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl" env:"IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" env:"SWEEP_INTERVAL" envDefault:"1m"`
	SecureCookie  bool          `mapstructure:"secure_cookie" env:"SECURE_COOKIE" envDefault:"false"`
}

type ObservabilityConfig struct {
	Tracing TracingConfig `mapstructure:"tracing" envPrefix:"TRACING_"`
	Logging LoggingConfig `mapstructure:"logging" envPrefix:"LOGGING_"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled" env:"ENABLED" envDefault:"false"`
	ServiceName  string  `mapstructure:"service_name" env:"SERVICE_NAME" envDefault:"funcionarios"`
	SamplingRate float64 `mapstructure:"sampling_rate" env:"SAMPLING_RATE" envDefault:"1"`
	Endpoint     string  `mapstructure:"endpoint" env:"ENDPOINT"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL" envDefault:"info"`
	Format string `mapstructure:"format" env:"FORMAT" envDefault:"text"`
}

// LoadConfigFromEnv reads the whole configuration from environment variables,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Backend.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("backend config: %v", err))
	}

	if c.Backend.Mode == BackendModeLocal {
		if err := c.Database.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("database config: %v", err))
		}
		if err := c.Security.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("security config: %v", err))
		}
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notification config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *BackendConfig) Validate() error {
	switch c.Mode {
	case BackendModeSupabase:
		if c.URL == "" {
			return errors.New("url is required")
		}
		u, err := url.Parse(c.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid url %q", c.URL)
		}
		if c.APIKey == "" {
			return errors.New("api_key is required")
		}
	case BackendModeLocal:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.AccessTokenDuration <= 0 {
		return errors.New("access_token_duration must be positive")
	}
	if c.RefreshTokenDuration < c.AccessTokenDuration {
		return errors.New("refresh_token_duration must be >= access_token_duration")
	}
	return nil
}

func (c *NotificationConfig) Validate() error {
	if c.ErrorTTL <= 0 || c.DefaultTTL <= 0 {
		return errors.New("ttl values must be positive")
	}
	return nil
}
