package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// Runner executes one aggregation pass and reports how many events were
// published.
type Runner interface {
	Run(ctx context.Context, runID string) (int, error)
}

// HealthChecker verifies the publish target is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains all HTTP handlers of the trigger surface.
type Handler struct {
	runner Runner
	health HealthChecker
}

// NewHandler creates a new handler instance.
func NewHandler(runner Runner, health HealthChecker) *Handler {
	return &Handler{runner: runner, health: health}
}

// RunHandler triggers one aggregation run. The request carries no meaningful
// input; the response reports success and the published event count. A
// failed run answers 500 — the failure is logged here, not re-raised to the
// scheduler beyond the status code.
func (h *Handler) RunHandler(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New().String()

	log.Info().Str("run_id", runID).Msg("Aggregation run triggered")

	count, err := h.runner.Run(r.Context(), runID)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("Aggregation run failed")
		writeJSON(w, http.StatusInternalServerError, models.RunResult{
			OK:    false,
			RunID: runID,
			Error: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.RunResult{
		OK:     true,
		Events: count,
		RunID:  runID,
	})
}

// HealthCheckHandler reports whether the object store is reachable.
func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.health.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
