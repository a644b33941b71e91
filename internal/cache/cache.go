package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/cycling-advice/internal/forecast"
)

const defaultTTL = 10 * time.Minute

// Cache wraps a Redis client and provides typed get/set/delete for forecasts.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with the given TTL, or 10 minutes when ttl is zero.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// key returns the Redis key for the given coordinates.
func key(lat, lon float64) string {
	return "forecast:" + strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}

// Get retrieves a forecast from cache.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, lat, lon float64) (*forecast.Forecast, error) {
	val, err := c.client.Get(ctx, key(lat, lon)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for %s: %w", key(lat, lon), err)
	}

	var f forecast.Forecast
	if err := json.Unmarshal([]byte(val), &f); err != nil {
		return nil, fmt.Errorf("unmarshaling cached forecast %s: %w", key(lat, lon), err)
	}

	return &f, nil
}

// Set stores a forecast with the configured TTL.
func (c *Cache) Set(ctx context.Context, lat, lon float64, f *forecast.Forecast) error {
	if f == nil {
		return nil
	}

	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling forecast %s: %w", key(lat, lon), err)
	}

	if err := c.client.Set(ctx, key(lat, lon), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for %s: %w", key(lat, lon), err)
	}

	return nil
}

// Delete removes the cached forecast for the given coordinates.
func (c *Cache) Delete(ctx context.Context, lat, lon float64) error {
	if err := c.client.Del(ctx, key(lat, lon)).Err(); err != nil {
		return fmt.Errorf("cache delete for %s: %w", key(lat, lon), err)
	}
	return nil
}

// forecastSource is the interface satisfied by forecast.Client.
type forecastSource interface {
	Fetch(ctx context.Context, lat, lon float64) (*forecast.Forecast, error)
}

// forecastStore is the interface satisfied by Cache.
type forecastStore interface {
	Get(ctx context.Context, lat, lon float64) (*forecast.Forecast, error)
	Set(ctx context.Context, lat, lon float64, f *forecast.Forecast) error
}

// CachedSource serves forecasts from the cache and falls through to the
// provider on a miss. Cache errors are logged and bypassed.
type CachedSource struct {
	next  forecastSource
	store forecastStore
	log   *slog.Logger
}

// NewCachedSource wraps next with a read-through cache.
func NewCachedSource(next forecastSource, c forecastStore, log *slog.Logger) *CachedSource {
	return &CachedSource{next: next, store: c, log: log}
}

// Fetch implements advisor.ForecastSource.
func (s *CachedSource) Fetch(ctx context.Context, lat, lon float64) (*forecast.Forecast, error) {
	cached, err := s.store.Get(ctx, lat, lon)
	if err != nil {
		s.log.Warn("forecast cache get failed", "err", err)
	}
	if cached != nil {
		s.log.Debug("forecast cache hit", "lat", lat, "lon", lon)
		return cached, nil
	}

	f, err := s.next.Fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, lat, lon, f); err != nil {
		s.log.Warn("forecast cache set failed", "err", err)
	}

	return f, nil
}
