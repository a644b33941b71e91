package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const httpTimeout = 10 * time.Second

// DefaultURL is the OpenWeatherMap One Call endpoint.
const DefaultURL = "https://api.openweathermap.org/data/2.5/onecall"

// excluded blocks are never used and only inflate the response.
const excluded = "current,minutely"

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("forecast provider returned status %d", e.StatusCode)
}

// Client fetches hourly and daily forecasts from OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client with the given API key.
func NewClient(apiKey string) *Client {
	return NewClientWithURL(DefaultURL, apiKey)
}

// NewClientWithURL constructs a Client pointing at a custom base URL (for tests).
func NewClientWithURL(baseURL, apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, client: &http.Client{Timeout: httpTimeout}}
}

// Fetch retrieves the forecast for the given coordinates in metric units.
// A forecast without any daily record is rejected, since it has no daylight window.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Forecast, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("exclude", excluded)
	q.Set("appid", c.apiKey)

	var f Forecast
	if err := c.doGet(ctx, c.baseURL+"?"+q.Encode(), &f); err != nil {
		return nil, fmt.Errorf("fetching forecast for %g,%g: %w", lat, lon, err)
	}

	if len(f.Daily) == 0 {
		return nil, fmt.Errorf("forecast for %g,%g has no daily records", lat, lon)
	}

	return &f, nil
}

// doGet performs a GET request and decodes the JSON response into dst.
// Errors name the endpoint without its query, which carries the API key.
func (c *Client) doGet(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", c.baseURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("GET %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", c.baseURL, err)
	}

	return nil
}
