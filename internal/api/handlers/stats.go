package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	service *services.StatsService
	logger  *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(service *services.StatsService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  log.WithComponent("stats"),
	}
}

// Get handles GET /api/v1/stats?days=N
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	days := services.DefaultStatsDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	summary, err := h.service.Summary(r.Context(), days)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	respondJSON(w, http.StatusOK, summary)
}

// Rollup handles POST /api/v1/stats/rollup?day=YYYY-MM-DD (default: yesterday, UTC)
func (h *StatsHandler) Rollup(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC().AddDate(0, 0, -1)
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.Parse(models.DayLayout, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	rolled, err := h.service.Rollup(r.Context(), day)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	h.logger.Info().Str("day", rolled.Day).Int64("total", rolled.Total()).Msg("manual rollup completed")
	respondJSON(w, http.StatusOK, rolled)
}
