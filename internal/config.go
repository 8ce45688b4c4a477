package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int             `mapstructure:"port" validate:"min=1,max=65535"`
	FrontendOrigin    string          `mapstructure:"frontend_origin" validate:"omitempty,url"`
	AllowedOrigins    string          `mapstructure:"allowed_origins"`
	StaticDir         string          `mapstructure:"static_dir"`
	ReadHeaderTimeout time.Duration   `mapstructure:"read_header_timeout" validate:"min=0"`
	ReadTimeout       time.Duration   `mapstructure:"read_timeout" validate:"min=0"`
	IdleTimeout       time.Duration   `mapstructure:"idle_timeout" validate:"min=0"`
	WriteTimeout      time.Duration   `mapstructure:"write_timeout" validate:"min=0"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst" validate:"min=0"`
}

// GatewayConfig holds the payment gateway credentials. PublicID and Secret are
// optional here: without them the server still starts and order creation
// fails fast.
type GatewayConfig struct {
	PublicID string        `mapstructure:"public_id"`
	Secret   string        `mapstructure:"secret"`
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"required,min=1s,max=2m"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

const (
	DefaultPort           = 3000
	DefaultGatewayBaseURL = "https://api.razorpay.com"
	DefaultGatewayTimeout = 15 * time.Second
)

// envBindings maps config keys to the environment variables operators set.
var envBindings = map[string]string{
	"gateway.public_id":                          "GATEWAY_PUBLIC_ID",
	"gateway.secret":                             "GATEWAY_SECRET",
	"gateway.base_url":                           "GATEWAY_BASE_URL",
	"gateway.timeout":                            "GATEWAY_TIMEOUT",
	"http_server.port":                           "PORT",
	"http_server.frontend_origin":                "FRONTEND_ORIGIN",
	"http_server.allowed_origins":                "ALLOWED_ORIGINS",
	"http_server.static_dir":                     "STATIC_DIR",
	"http_server.rate_limit.requests_per_second": "RATE_LIMIT_RPS",
	"http_server.rate_limit.burst":               "RATE_LIMIT_BURST",
	"observability.logging.level":                "LOG_LEVEL",
	"observability.logging.format":               "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", DefaultPort)
	v.SetDefault("http_server.frontend_origin", "")
	v.SetDefault("http_server.allowed_origins", "")
	v.SetDefault("http_server.static_dir", "public")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 30*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.rate_limit.requests_per_second", 10.0)
	v.SetDefault("http_server.rate_limit.burst", 20)

	v.SetDefault("gateway.public_id", "")
	v.SetDefault("gateway.secret", "")
	v.SetDefault("gateway.base_url", DefaultGatewayBaseURL)
	v.SetDefault("gateway.timeout", DefaultGatewayTimeout)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
}

// LoadConfig reads <path>/.env and <path>/config.yml when present, then
// overlays environment variables. Neither file is required.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Gateway.PublicID = strings.TrimSpace(cfg.Gateway.PublicID)
	cfg.Gateway.Secret = strings.TrimSpace(cfg.Gateway.Secret)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// ----------------- VALIDATION -----------------

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	// A write deadline shorter than the gateway call drops the connection
	// before the timeout response can be written. Zero means no deadline.
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Gateway.Timeout {
		errs = append(errs, fmt.Sprintf("http_server.write_timeout (%s) must exceed gateway.timeout (%s)",
			c.Server.WriteTimeout, c.Gateway.Timeout))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	for _, origin := range c.Origins() {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid allowed origin %s: scheme and host are required", origin)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins returns the frontend origin followed by any extra allowed origins,
// trimmed and de-duplicated. An empty result means no restriction was set.
func (c *ServerConfig) Origins() []string {
	seen := make(map[string]struct{})
	var origins []string

	add := func(origin string) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			return
		}
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}

	add(c.FrontendOrigin)
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		add(origin)
	}
	return origins
}

func (c *GatewayConfig) HasCredentials() bool {
	return c.PublicID != "" && c.Secret != ""
}
