// Package advisor runs the advisory flow: fetch the forecast, assess the
// daylight hours, render the message and deliver it.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neexbeast/cycling-advice/internal/advice"
	"github.com/neexbeast/cycling-advice/internal/forecast"
	"github.com/neexbeast/cycling-advice/internal/notify"
	"github.com/neexbeast/cycling-advice/internal/report"
)

// ForecastSource is satisfied by forecast.Client and the cached source.
type ForecastSource interface {
	Fetch(ctx context.Context, lat, lon float64) (*forecast.Forecast, error)
}

// Broadcaster is satisfied by notify.Notifier.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string, chats []string) []notify.Delivery
}

// Settings is the part of the configuration the flow depends on.
type Settings struct {
	Latitude  float64
	Longitude float64
	Location  *time.Location
	Chats     []string
}

// Advisory is a rendered assessment ready to be sent.
type Advisory struct {
	Assessment  advice.Assessment `json:"assessment"`
	Text        string            `json:"text"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Service builds and delivers advisories.
type Service struct {
	source   ForecastSource
	notifier Broadcaster
	settings Settings
	now      func() time.Time
	log      *slog.Logger
}

// NewService constructs a Service.
func NewService(source ForecastSource, notifier Broadcaster, settings Settings, log *slog.Logger) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &Service{source: source, notifier: notifier, settings: settings, now: time.Now, log: log}
}

// WithClock replaces the clock used for the report date (used in tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Prepare fetches the forecast and renders today's advisory without sending it.
func (s *Service) Prepare(ctx context.Context) (*Advisory, error) {
	f, err := s.source.Fetch(ctx, s.settings.Latitude, s.settings.Longitude)
	if err != nil {
		return nil, err
	}

	zone, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading forecast timezone %q: %w", f.Timezone, err)
	}

	a, err := advice.Evaluate(f)
	if err != nil {
		return nil, fmt.Errorf("evaluating forecast: %w", err)
	}

	now := s.now().In(s.settings.Location)
	s.log.Info("forecast assessed",
		"tier", a.Tier.Slug(),
		"feels_like", a.Metrics.FeelsLike.String(),
		"wind_speed", a.Metrics.WindSpeed.String(),
		"rain", a.Metrics.Rain.String(),
		"snow", a.Metrics.Snow.String(),
	)

	return &Advisory{
		Assessment:  a,
		Text:        report.Render(now, zone, a),
		GeneratedAt: now,
	}, nil
}

// Send delivers adv to every configured chat. Per-chat failures are reported
// in the result, never as an error.
func (s *Service) Send(ctx context.Context, adv *Advisory) []notify.Delivery {
	deliveries := s.notifier.Broadcast(ctx, adv.Text, s.settings.Chats)

	failed := 0
	for _, d := range deliveries {
		if !d.OK() {
			failed++
		}
	}
	s.log.Info("advisory delivered", "chats", len(deliveries), "failed", failed)

	return deliveries
}

// Run prepares today's advisory and sends it. Only a failure to prepare the
// advisory is returned.
func (s *Service) Run(ctx context.Context) ([]notify.Delivery, error) {
	adv, err := s.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, adv), nil
}
