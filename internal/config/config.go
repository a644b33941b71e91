// Package config loads the advisory configuration once at startup.
//
// Values come from the process environment, falling back to a .env file in
// the working directory. The environment always wins over the file.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrorType classifies configuration failures.
type ErrorType string

const (
	ErrParsing    ErrorType = "PARSING"
	ErrValidation ErrorType = "VALIDATION"
)

// Error is returned by Load and LoadServer.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Config is the configuration of one advisory run. It is read-only after Load.
type Config struct {
	Coordinates   string `envconfig:"LOCATION_COORDINATES" required:"true" validate:"required"`
	LocalTimezone string `envconfig:"LOCAL_TIMEZONE" required:"true" validate:"required,timezone"`
	WeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY" required:"true" validate:"required"`
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" required:"true" validate:"required"`
	ChatList      string `envconfig:"TELEGRAM_CHATS" required:"true" validate:"required"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Endpoint overrides, mainly for staging proxies.
	WeatherURL  string `envconfig:"OPENWEATHER_URL" validate:"omitempty,url"`
	TelegramURL string `envconfig:"TELEGRAM_API_URL" validate:"omitempty,url"`

	// Derived during Load.
	Latitude  float64        `ignored:"true" validate:"latitude"`
	Longitude float64        `ignored:"true" validate:"longitude"`
	Chats     []string       `ignored:"true" validate:"min=1,dive,required"`
	Location  *time.Location `ignored:"true" validate:"-"`
}

// ServerConfig holds the settings only the preview server needs.
type ServerConfig struct {
	Port          string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	BearerToken   string        `envconfig:"BEARER_TOKEN" required:"true" validate:"required"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	CacheTTL      time.Duration `envconfig:"FORECAST_CACHE_TTL" default:"10m" validate:"gt=0"`
	ShutdownGrace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"30s"`
}

// Load reads and validates the advisory configuration.
func Load() (*Config, error) {
	// A missing .env file is fine; existing variables are never overridden.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Type: ErrParsing, Message: "failed to process environment configuration", Err: err}
	}

	if err := cfg.derive(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}

	return &cfg, nil
}

// LoadServer reads and validates the preview server settings.
func LoadServer() (*ServerConfig, error) {
	_ = godotenv.Load()

	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Type: ErrParsing, Message: "failed to process server configuration", Err: err}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{Type: ErrValidation, Message: "server configuration validation failed", Err: err}
	}

	return &cfg, nil
}

// derive fills the parsed fields from their raw string forms.
func (c *Config) derive() error {
	if c.Coordinates != "" {
		lat, lon, err := parseCoordinates(c.Coordinates)
		if err != nil {
			return &Error{Type: ErrParsing, Message: "invalid LOCATION_COORDINATES", Err: err}
		}
		c.Latitude, c.Longitude = lat, lon
	}

	c.Chats = splitList(c.ChatList)

	if c.LocalTimezone != "" {
		loc, err := time.LoadLocation(c.LocalTimezone)
		if err != nil {
			return &Error{Type: ErrParsing, Message: "invalid LOCAL_TIMEZONE", Err: err}
		}
		c.Location = loc
	}

	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// parseCoordinates parses "lat,lon" in decimal degrees.
func parseCoordinates(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want \"latitude,longitude\", got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude: %w", err)
	}

	return lat, lon, nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
