package advisor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/cycling-advice/internal/advice"
	"github.com/neexbeast/cycling-advice/internal/advisor"
	"github.com/neexbeast/cycling-advice/internal/forecast"
	"github.com/neexbeast/cycling-advice/internal/notify"
)

// ---- mock implementations ----

type mockSource struct {
	fetchFn func(ctx context.Context, lat, lon float64) (*forecast.Forecast, error)
}

func (m *mockSource) Fetch(ctx context.Context, lat, lon float64) (*forecast.Forecast, error) {
	return m.fetchFn(ctx, lat, lon)
}

type mockBroadcaster struct {
	calls       int
	text        string
	chats       []string
	broadcastFn func(chats []string) []notify.Delivery
}

func (m *mockBroadcaster) Broadcast(_ context.Context, text string, chats []string) []notify.Delivery {
	m.calls++
	m.text = text
	m.chats = chats
	if m.broadcastFn != nil {
		return m.broadcastFn(chats)
	}
	out := make([]notify.Delivery, 0, len(chats))
	for _, c := range chats {
		out = append(out, notify.Delivery{ChatID: c})
	}
	return out
}

// ---- helpers ----

const sunrise = int64(1699946100) // 2023-11-14 07:15:00 UTC

func f64(v float64) *float64 { return &v }

func windyForecast() *forecast.Forecast {
	return &forecast.Forecast{
		Timezone: "UTC",
		Hourly:   []forecast.Hour{{DT: sunrise + 100, WindSpeed: f64(30)}},
		Daily:    []forecast.Day{{Sunrise: sunrise, Sunset: sunrise + 34230}},
	}
}

func settings() advisor.Settings {
	return advisor.Settings{Latitude: 44.8, Longitude: 20.4, Location: time.UTC, Chats: []string{"1", "2"}}
}

func fixedClock() time.Time { return time.Date(2023, 11, 14, 6, 0, 0, 0, time.UTC) }

func newService(src *mockSource, b *mockBroadcaster) *advisor.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return advisor.NewService(src, b, settings(), log).WithClock(fixedClock)
}

func TestPrepare(t *testing.T) {
	var gotLat, gotLon float64
	src := &mockSource{fetchFn: func(_ context.Context, lat, lon float64) (*forecast.Forecast, error) {
		gotLat, gotLon = lat, lon
		return windyForecast(), nil
	}}
	b := &mockBroadcaster{}

	adv, err := newService(src, b).Prepare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 44.8, gotLat)
	assert.Equal(t, 20.4, gotLon)
	assert.Equal(t, advice.NotRecommended, adv.Assessment.Tier)
	assert.Equal(t,
		"*Cycling Weather Conditions on 14/11/2023 between 07:15:00AM and 04:45:30PM*\n\n"+
			"Cycling not recommended due to extreme weather conditions.\n\n"+
			"Average Wind Speed: *30.0*km/h",
		adv.Text)
	assert.Zero(t, b.calls, "Prepare must not send anything")
}

func TestRun_SendsToAllChats(t *testing.T) {
	src := &mockSource{fetchFn: func(_ context.Context, _, _ float64) (*forecast.Forecast, error) {
		return windyForecast(), nil
	}}
	b := &mockBroadcaster{}

	deliveries, err := newService(src, b).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, b.calls)
	assert.Equal(t, []string{"1", "2"}, b.chats)
	assert.Contains(t, b.text, "Average Wind Speed: *30.0*km/h")
	require.Len(t, deliveries, 2)
}

func TestRun_DeliveryFailureIsNotAnError(t *testing.T) {
	src := &mockSource{fetchFn: func(_ context.Context, _, _ float64) (*forecast.Forecast, error) {
		return windyForecast(), nil
	}}
	b := &mockBroadcaster{broadcastFn: func(chats []string) []notify.Delivery {
		return []notify.Delivery{{ChatID: chats[0], Err: errors.New("blocked")}, {ChatID: chats[1]}}
	}}

	deliveries, err := newService(src, b).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.False(t, deliveries[0].OK())
	assert.True(t, deliveries[1].OK())
}

func TestRun_FetchFailureSendsNothing(t *testing.T) {
	src := &mockSource{fetchFn: func(_ context.Context, _, _ float64) (*forecast.Forecast, error) {
		return nil, &forecast.StatusError{StatusCode: 503}
	}}
	b := &mockBroadcaster{}

	_, err := newService(src, b).Run(context.Background())
	require.Error(t, err)

	var statusErr *forecast.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Zero(t, b.calls)
}

func TestPrepare_UnknownForecastTimezone(t *testing.T) {
	src := &mockSource{fetchFn: func(_ context.Context, _, _ float64) (*forecast.Forecast, error) {
		f := windyForecast()
		f.Timezone = "Nowhere/Special"
		return f, nil
	}}

	_, err := newService(src, &mockBroadcaster{}).Prepare(context.Background())
	require.Error(t, err)
}

func TestPrepare_NoDaylightWindow(t *testing.T) {
	src := &mockSource{fetchFn: func(_ context.Context, _, _ float64) (*forecast.Forecast, error) {
		return &forecast.Forecast{Timezone: "UTC"}, nil
	}}

	_, err := newService(src, &mockBroadcaster{}).Prepare(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, advice.ErrNoDaylight))
}
