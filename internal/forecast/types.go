package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Forecast is the subset of a One Call response used to build an advisory.
type Forecast struct {
	Timezone string `json:"timezone"`
	Hourly   []Hour `json:"hourly"`
	Daily    []Day  `json:"daily"`
}

// Hour is a single hourly forecast record. Every measurement is optional;
// a nil field means the provider did not report it for that hour.
type Hour struct {
	DT        int64    `json:"dt"`
	Rain      *Amount  `json:"rain,omitempty"`
	Snow      *Amount  `json:"snow,omitempty"`
	FeelsLike *float64 `json:"feels_like,omitempty"`
	WindSpeed *float64 `json:"wind_speed,omitempty"`
}

// Day carries the sunrise and sunset of one forecast day as Unix seconds.
type Day struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}

// Amount is a precipitation volume in millimetres.
//
// OpenWeatherMap reports hourly rain and snow as {"1h": 0.42}; older payloads
// and our own cache entries carry a bare number. Both decode to the same value.
type Amount float64

// UnmarshalJSON accepts either a number or an object with a "1h" key.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var volume struct {
			OneHour *float64 `json:"1h"`
		}
		if err := json.Unmarshal(b, &volume); err != nil {
			return fmt.Errorf("decoding precipitation object: %w", err)
		}
		if volume.OneHour == nil {
			return fmt.Errorf("precipitation object has no 1h volume")
		}
		*a = Amount(*volume.OneHour)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decoding precipitation amount: %w", err)
	}
	*a = Amount(v)
	return nil
}
