// Package advice turns an hourly forecast into a cycling advisory.
//
// Rain and snow accumulate over the daylight window, feels-like temperature
// and wind speed are averaged over it. The tiers are decided against fixed
// thresholds, most severe first.
package advice

import (
	"errors"
	"fmt"

	"github.com/neexbeast/cycling-advice/internal/forecast"
)

// ErrNoDaylight is returned when a forecast carries no daily record.
var ErrNoDaylight = errors.New("forecast has no daylight window")

// Thresholds. Temperature in °C, wind in km/h, precipitation in mm.
const (
	TemperatureFloor  = 0.0
	ModerateWindSpeed = 15.0
	HighWindSpeed     = 25.0
	LightRain         = 1.0
	HeavyRain         = 3.0
	LightSnow         = 2.0
	HeavySnow         = 5.0
)

// Tier is the advisory outcome.
type Tier int

const (
	Favorable Tier = iota
	Caution
	NotRecommended
)

// String returns the sentence sent to recipients.
func (t Tier) String() string {
	switch t {
	case Favorable:
		return "Favorable cycling conditions."
	case Caution:
		return "Cycling possible with caution."
	case NotRecommended:
		return "Cycling not recommended due to extreme weather conditions."
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Slug returns a stable machine-readable name for the tier.
func (t Tier) Slug() string {
	switch t {
	case Favorable:
		return "favorable"
	case Caution:
		return "caution"
	case NotRecommended:
		return "not_recommended"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier as its slug.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.Slug()), nil
}

// Metrics are the four daylight aggregates the decision is based on.
type Metrics struct {
	FeelsLike Value `json:"feels_like"`
	WindSpeed Value `json:"wind_speed"`
	Rain      Value `json:"rain"`
	Snow      Value `json:"snow"`
}

// Assessment is the outcome of evaluating one forecast.
type Assessment struct {
	Window  Window  `json:"window"`
	Metrics Metrics `json:"metrics"`
	Tier    Tier    `json:"tier"`
}

// Classify picks the tier for m. Absent metrics never trigger a tier.
func Classify(m Metrics) Tier {
	temp, hasTemp := m.FeelsLike.Get()
	wind, hasWind := m.WindSpeed.Get()
	rain, hasRain := m.Rain.Get()
	snow, hasSnow := m.Snow.Get()

	switch {
	case hasWind && wind >= HighWindSpeed,
		hasRain && rain > HeavyRain,
		hasSnow && snow > HeavySnow:
		return NotRecommended
	case hasTemp && temp <= TemperatureFloor,
		hasRain && rain > LightRain,
		hasSnow && snow > LightSnow,
		hasWind && wind >= ModerateWindSpeed && wind < HighWindSpeed:
		return Caution
	default:
		return Favorable
	}
}

// DaylightWindow returns today's window, taken from the first daily record.
func DaylightWindow(f *forecast.Forecast) (Window, error) {
	if len(f.Daily) == 0 {
		return Window{}, ErrNoDaylight
	}
	return Window{Sunrise: f.Daily[0].Sunrise, Sunset: f.Daily[0].Sunset}, nil
}

// Evaluate aggregates f over its daylight window and classifies the result.
func Evaluate(f *forecast.Forecast) (Assessment, error) {
	w, err := DaylightWindow(f)
	if err != nil {
		return Assessment{}, err
	}

	var m Metrics
	for _, agg := range []struct {
		dst    *Value
		metric Metric
		mode   Mode
	}{
		{&m.Rain, Rain, Sum},
		{&m.Snow, Snow, Sum},
		{&m.FeelsLike, FeelsLike, Average},
		{&m.WindSpeed, WindSpeed, Average},
	} {
		v, err := Compute(f, agg.metric, agg.mode, w)
		if err != nil {
			return Assessment{}, fmt.Errorf("computing %s %s: %w", agg.mode, agg.metric, err)
		}
		*agg.dst = v
	}

	return Assessment{Window: w, Metrics: m, Tier: Classify(m)}, nil
}
