package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/neexbeast/cycling-advice/internal/advisor"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	service AdvisoryService
	cache   ForecastCache
	lat     float64
	lon     float64
	log     *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(service AdvisoryService, log *slog.Logger) *Handlers {
	return &Handlers{service: service, log: log}
}

// WithForecastCache sets the cache dropped by RefreshForecast and the
// coordinates its entry is keyed by. A nil cache leaves refresh as a plain rebuild.
func (h *Handlers) WithForecastCache(c ForecastCache, lat, lon float64) *Handlers {
	h.cache = c
	h.lat = lat
	h.lon = lon
	return h
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type deliveryResult struct {
	ChatID string `json:"chat_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

type sendResponse struct {
	Advisory   *advisor.Advisory `json:"advisory"`
	Deliveries []deliveryResult  `json:"deliveries"`
}

// GetAdvisory handles GET /api/v1/advisory.
// Builds today's advisory and returns it without sending.
func (h *Handlers) GetAdvisory(w http.ResponseWriter, r *http.Request) {
	adv, err := h.service.Prepare(r.Context())
	if err != nil {
		h.log.Error("prepare advisory failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to build advisory"})
		return
	}

	writeJSON(w, http.StatusOK, adv)
}

// SendAdvisory handles POST /api/v1/advisory/send.
// Builds today's advisory and delivers it to every configured chat.
// Per-chat failures are reported in the body; the status stays 200.
func (h *Handlers) SendAdvisory(w http.ResponseWriter, r *http.Request) {
	adv, err := h.service.Prepare(r.Context())
	if err != nil {
		h.log.Error("prepare advisory failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to build advisory"})
		return
	}

	deliveries := h.service.Send(r.Context(), adv)

	results := make([]deliveryResult, 0, len(deliveries))
	for _, d := range deliveries {
		res := deliveryResult{ChatID: d.ChatID, OK: d.OK()}
		if d.Err != nil {
			res.Error = d.Err.Error()
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, sendResponse{Advisory: adv, Deliveries: results})
}

// RefreshForecast handles POST /api/v1/forecast/refresh.
// Drops the cached forecast and rebuilds the advisory from a fresh fetch,
// which repopulates the cache. Nothing is sent.
func (h *Handlers) RefreshForecast(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Delete(r.Context(), h.lat, h.lon); err != nil {
			h.log.Error("cache delete failed", "lat", h.lat, "lon", h.lon, "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "failed to invalidate cached forecast"})
			return
		}
	}

	adv, err := h.service.Prepare(r.Context())
	if err != nil {
		h.log.Error("prepare advisory after refresh failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to build advisory"})
		return
	}

	writeJSON(w, http.StatusOK, adv)
}

// Pinger is satisfied by cache.Pinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks cache connectivity.
// A nil pinger means the server runs without a cache.
func HealthHandlerFunc(cache Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		cacheStatus := "disabled"

		if cache != nil {
			cacheStatus = "ok"
			if err := cache.Ping(ctx); err != nil {
				log.Error("health check: redis ping failed", "err", err)
				cacheStatus = "error"
				status = http.StatusServiceUnavailable
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"cache":  cacheStatus,
		})
	}
}
