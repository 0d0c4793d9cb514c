package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// ReadinessCheck probes one dependency
type ReadinessCheck func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	version   string
	checks    map[string]ReadinessCheck
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. checks holds the configured
// dependencies only.
func NewHealthHandler(version string, checks map[string]ReadinessCheck, log *logger.Logger) *HealthHandler {
	if version == "" {
		version = "dev"
	}
	return &HealthHandler{
		version:   version,
		checks:    checks,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - checks all configured dependencies
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"engine": "healthy"}
	status := http.StatusOK
	overallStatus := "ready"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			checks[name] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
			overallStatus = "not ready"
			continue
		}
		checks[name] = "healthy"
	}

	respondJSON(w, status, HealthResponse{
		Status:    overallStatus,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
