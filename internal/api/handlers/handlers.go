package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/krxsh13/ScamGuard/internal/domain/services"
	"github.com/krxsh13/ScamGuard/internal/domain/services/awareness"
	"github.com/krxsh13/ScamGuard/internal/extract"
	"github.com/krxsh13/ScamGuard/internal/streaming"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// DefaultMaxUploadBytes bounds request bodies when no limit is configured
const DefaultMaxUploadBytes int64 = 5 << 20

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Analysis  *AnalysisHandler
	Awareness *AwarenessHandler
	Stats     *StatsHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analysis       *services.AnalysisService
	Stats          *services.StatsService
	Hub            *streaming.WebSocketHub
	EventBus       *streaming.EventBus
	Checks         map[string]ReadinessCheck
	Version        string
	MaxUploadBytes int64
	Logger         *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Checks, deps.Logger),
		Analysis:  NewAnalysisHandler(deps.Analysis, deps.MaxUploadBytes, deps.Logger),
		Awareness: NewAwarenessHandler(deps.Logger),
		Stats:     NewStatsHandler(deps.Stats, deps.Logger),
		Streaming: NewStreamingHandler(deps.Hub, deps.EventBus, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrEmptyBatch),
		errors.Is(err, services.ErrBatchTooLarge),
		errors.Is(err, awareness.ErrAnswerCount):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTextTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extract.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, awareness.ErrTopicNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRollupUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondErr writes err with its mapped status. Internal errors are not echoed.
func respondErr(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}
