package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/orderdesk/internal/analytics"
)

// AnalyticsHandler serves the analytics endpoints.
type AnalyticsHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(service *analytics.Service, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// Summary handles GET /api/analytics/summary?days=30.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	summary, err := h.service.Summarize(r.Context(), days)
	if err != nil {
		h.logger.Error("failed to compute summary", "error", err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Forecast handles GET /api/analytics/forecast?window=7&horizon=7.
func (h *AnalyticsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", 7)
	horizon := queryInt(r, "horizon", 7)
	forecast, err := h.service.ForecastRevenue(r.Context(), window, horizon)
	if err != nil {
		h.logger.Error("failed to compute forecast", "error", err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, forecast)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
