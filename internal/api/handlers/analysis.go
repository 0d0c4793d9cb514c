package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// AnalysisHandler handles text and document analysis endpoints
type AnalysisHandler struct {
	service        *services.AnalysisService
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.AnalysisService, maxUploadBytes int64, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         log.WithComponent("analysis-handler"),
	}
}

// BatchRequest is the request body for batch analysis
type BatchRequest struct {
	Items []models.AnalysisRequest `json:"items"`
}

// Analyze handles POST /api/v1/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := h.decode(w, r, &req); err != nil {
		h.badBody(w, err)
		return
	}

	rec, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// AnalyzeBatch handles POST /api/v1/analyze/batch
func (h *AnalysisHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := h.decode(w, r, &req); err != nil {
		h.badBody(w, err)
		return
	}

	result, err := h.service.AnalyzeBatch(r.Context(), req.Items)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// AnalyzeDocument handles POST /api/v1/analyze/document with a multipart "file" field
func (h *AnalysisHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	// multipart framing needs headroom beyond the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+64<<10)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		respondError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes))
		return
	}

	rec, err := h.service.AnalyzeDocument(r.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	h.logger.Debug().
		Int("bytes", len(data)).
		Str("risk", rec.Result.Risk.String()).
		Msg("document analyzed")

	respondJSON(w, http.StatusOK, rec)
}

// Rules handles GET /api/v1/rules
func (h *AnalysisHandler) Rules(w http.ResponseWriter, r *http.Request) {
	rules := h.service.Engine().Rules()
	w.Header().Set("Cache-Control", "public, max-age=3600")
	respondJSON(w, http.StatusOK, map[string]any{
		"rules":         rules,
		"keyword_count": rules.KeywordCount(),
	})
}

func (h *AnalysisHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *AnalysisHandler) badBody(w http.ResponseWriter, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	h.logger.Debug().Err(err).Msg("invalid request body")
	respondError(w, http.StatusBadRequest, "invalid request body")
}
