package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krxsh13/ScamGuard/internal/domain/services/awareness"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// AwarenessHandler serves the scam education catalogue and quiz
type AwarenessHandler struct {
	logger *logger.Logger
}

// NewAwarenessHandler creates a new awareness handler
func NewAwarenessHandler(log *logger.Logger) *AwarenessHandler {
	return &AwarenessHandler{logger: log.WithComponent("awareness-handler")}
}

// GradeRequest is the request body for quiz grading
type GradeRequest struct {
	Answers []int `json:"answers"`
}

// ListTopics handles GET /api/v1/awareness/topics
func (h *AwarenessHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics := awareness.Topics()
	respondJSON(w, http.StatusOK, map[string]any{
		"topics": topics,
		"count":  len(topics),
	})
}

// GetTopic handles GET /api/v1/awareness/topics/{id}
func (h *AwarenessHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := awareness.Topic(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, topic)
}

// Quiz handles GET /api/v1/awareness/quiz
func (h *AwarenessHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	questions := awareness.Questions()
	respondJSON(w, http.StatusOK, map[string]any{
		"questions": questions,
		"total":     len(questions),
	})
}

// Grade handles POST /api/v1/awareness/quiz/grade
func (h *AwarenessHandler) Grade(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := awareness.Grade(req.Answers)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	h.logger.Debug().Int("score", result.Score).Str("rating", result.Rating).Msg("quiz graded")
	respondJSON(w, http.StatusOK, result)
}
