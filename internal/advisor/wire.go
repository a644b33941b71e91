package advisor

import (
	"log/slog"

	"github.com/neexbeast/cycling-advice/internal/config"
	"github.com/neexbeast/cycling-advice/internal/forecast"
	"github.com/neexbeast/cycling-advice/internal/notify"
)

// SettingsFrom extracts the flow settings from a loaded configuration.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Location:  cfg.Location,
		Chats:     cfg.Chats,
	}
}

// NewForecastClient builds the OpenWeatherMap client, honoring OPENWEATHER_URL.
func NewForecastClient(cfg *config.Config) *forecast.Client {
	if cfg.WeatherURL != "" {
		return forecast.NewClientWithURL(cfg.WeatherURL, cfg.WeatherAPIKey)
	}
	return forecast.NewClient(cfg.WeatherAPIKey)
}

// NewNotifier builds the Telegram notifier, honoring TELEGRAM_API_URL.
func NewNotifier(cfg *config.Config, log *slog.Logger) *notify.Notifier {
	client := notify.NewTelegramClient(cfg.TelegramToken)
	if cfg.TelegramURL != "" {
		client = notify.NewTelegramClientWithURL(cfg.TelegramURL, cfg.TelegramToken)
	}
	return notify.NewNotifier(client, log)
}
