package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-collector/internal/lifecycle"
)

// Handler serves the ops endpoints of a scheduled collector.
type Handler struct {
	logger           *zap.Logger
	startTime        time.Time
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(logger *zap.Logger, startTime time.Time) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger, startTime: startTime}
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	run, hasRun := lifecycle.LastRun()
	result := computeHealthStatus(run, hasRun)

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		requestLogger(r, h.logger).Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	resp := map[string]interface{}{
		"status":        result.status,
		"service":       "weather-collector",
		"uptimeSeconds": int64(time.Since(h.startTime).Seconds()),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}
	if result.reason != "" {
		resp["reason"] = result.reason
	}
	if hasRun {
		resp["lastRun"] = run
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus evaluates, in order: shutting-down > no run yet > last run
// failed to write > last run fetched nothing > healthy.
func computeHealthStatus(run lifecycle.RunStatus, hasRun bool) healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if !hasRun {
		return healthResult{"starting", http.StatusOK, "no_completed_run"}
	}
	if run.Error != "" {
		return healthResult{"degraded", http.StatusServiceUnavailable, "output_write_failed"}
	}
	if run.Attempted > 0 && run.Succeeded == 0 {
		return healthResult{"degraded", http.StatusServiceUnavailable, "all_fetches_failed"}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
