package advice

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/neexbeast/cycling-advice/internal/forecast"
)

var (
	// ErrUnsupportedMode is returned for an aggregation Mode outside Sum and Average.
	ErrUnsupportedMode = errors.New("unsupported aggregation mode")
	// ErrUnknownMetric is returned for a Metric the hourly record does not carry.
	ErrUnknownMetric = errors.New("unknown metric")
)

// Metric names an hourly forecast field.
type Metric string

const (
	Rain      Metric = "rain"
	Snow      Metric = "snow"
	FeelsLike Metric = "feels_like"
	WindSpeed Metric = "wind_speed"
)

// Mode selects how qualifying hourly values are combined.
type Mode int

const (
	Sum Mode = iota
	Average
)

func (m Mode) String() string {
	switch m {
	case Sum:
		return "sum"
	case Average:
		return "average"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Window is the daylight interval in Unix seconds, inclusive on both ends.
type Window struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}

// Contains reports whether ts lies within the window.
func (w Window) Contains(ts int64) bool {
	return w.Sunrise <= ts && ts <= w.Sunset
}

// accessor returns the reader for m. It reports false for an hour that does
// not carry the metric.
func (m Metric) accessor() (func(forecast.Hour) (float64, bool), error) {
	switch m {
	case Rain:
		return func(h forecast.Hour) (float64, bool) { return amountOf(h.Rain) }, nil
	case Snow:
		return func(h forecast.Hour) (float64, bool) { return amountOf(h.Snow) }, nil
	case FeelsLike:
		return func(h forecast.Hour) (float64, bool) { return floatOf(h.FeelsLike) }, nil
	case WindSpeed:
		return func(h forecast.Hour) (float64, bool) { return floatOf(h.WindSpeed) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
	}
}

func amountOf(a *forecast.Amount) (float64, bool) {
	if a == nil {
		return 0, false
	}
	return float64(*a), true
}

func floatOf(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Compute sums or averages metric m over the hourly records inside w.
// Records that do not report m are skipped. The result is rounded to two
// decimals, or None when no record qualifies.
func Compute(f *forecast.Forecast, m Metric, mode Mode, w Window) (Value, error) {
	if mode != Sum && mode != Average {
		return None(), fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	get, err := m.accessor()
	if err != nil {
		return None(), err
	}

	var total float64
	var count int
	for _, h := range f.Hourly {
		v, ok := get(h)
		if !ok || !w.Contains(h.DT) {
			continue
		}
		total += v
		count++
	}

	if count == 0 {
		return None(), nil
	}

	if mode == Average {
		total /= float64(count)
	}
	return Some(round2(total)), nil
}

// round2 rounds the exact binary value to two decimals. Exact ties go to the
// even digit.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
