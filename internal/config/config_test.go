package config_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/cycling-advice/internal/config"
)

func validEnv() map[string]string {
	return map[string]string{
		"LOCATION_COORDINATES": "44.8125, 20.4612",
		"LOCAL_TIMEZONE":       "Europe/Belgrade",
		"OPENWEATHER_API_KEY":  "owm-key",
		"TELEGRAM_TOKEN":       "123:abc",
		"TELEGRAM_CHATS":       "111, -222,,333",
	}
}

// setEnv applies env for the test and unsets every key listed in unset.
func setEnv(t *testing.T, env map[string]string, unset ...string) {
	t.Helper()
	for _, k := range []string{"LOG_LEVEL", "OPENWEATHER_URL", "TELEGRAM_API_URL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	for _, k := range unset {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Valid(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 44.8125, cfg.Latitude)
	assert.Equal(t, 20.4612, cfg.Longitude)
	assert.Equal(t, []string{"111", "-222", "333"}, cfg.Chats)
	assert.Equal(t, "owm-key", cfg.WeatherAPIKey)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Europe/Belgrade", cfg.Location.String())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	for _, key := range []string{
		"LOCATION_COORDINATES",
		"LOCAL_TIMEZONE",
		"OPENWEATHER_API_KEY",
		"TELEGRAM_TOKEN",
		"TELEGRAM_CHATS",
	} {
		t.Run(key, func(t *testing.T) {
			setEnv(t, validEnv(), key)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)

			var cfgErr *config.Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, config.ErrParsing, cfgErr.Type)
		})
	}
}

func TestLoad_EmptyRequiredKey(t *testing.T) {
	env := validEnv()
	env["OPENWEATHER_API_KEY"] = ""
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)

	var cfgErr *config.Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.ErrValidation, cfgErr.Type)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"coordinates without comma": {"LOCATION_COORDINATES": "44.8"},
		"coordinates not numeric":   {"LOCATION_COORDINATES": "north,east"},
		"latitude out of range":     {"LOCATION_COORDINATES": "91,20"},
		"longitude out of range":    {"LOCATION_COORDINATES": "44,181"},
		"unknown timezone":          {"LOCAL_TIMEZONE": "Mars/Olympus"},
		"only blank chats":          {"TELEGRAM_CHATS": " , ,"},
		"bad log level":             {"LOG_LEVEL": "chatty"},
		"bad weather url":           {"OPENWEATHER_URL": "not a url"},
	}

	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			env := validEnv()
			for k, v := range override {
				env[k] = v
			}
			setEnv(t, env)

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_LogLevel(t *testing.T) {
	env := validEnv()
	env["LOG_LEVEL"] = "debug"
	setEnv(t, env)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadServer(t *testing.T) {
	t.Setenv("BEARER_TOKEN", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("FORECAST_CACHE_TTL", "5m")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.BearerToken)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadServer_MissingToken(t *testing.T) {
	t.Setenv("BEARER_TOKEN", "")
	require.NoError(t, os.Unsetenv("BEARER_TOKEN"))

	_, err := config.LoadServer()
	require.Error(t, err)
}
