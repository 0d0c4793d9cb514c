package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxsh13/ScamGuard/internal/api/handlers"
	"github.com/krxsh13/ScamGuard/internal/config"
	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

const testAPIKey = "test-key"

type denyAllLimiter struct{}

func (denyAllLimiter) CheckRateLimit(context.Context, string, int64, time.Duration) (bool, int64, time.Time, error) {
	return false, 0, time.Now().Add(30 * time.Second), nil
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T, opts ...func(*config.Config, *handlers.Dependencies)) *testServer {
	t.Helper()
	log := logger.NewNop()

	cfg := config.Config{}
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.Auth.APIKeys = []string{testAPIKey}

	analysisCfg := services.DefaultAnalysisConfig()
	analysisCfg.MaxTextBytes = 1024

	analysis := services.NewAnalysisService(nil, analysisCfg, services.AnalysisDependencies{}, log)
	deps := handlers.Dependencies{
		Analysis:       analysis,
		Stats:          services.NewStatsService(nil, nil, analysis, nil, log),
		MaxUploadBytes: 64 << 10,
		Version:        "test",
		Logger:         log,
	}

	for _, o := range opts {
		o(&cfg, &deps)
	}

	var limiter denyAllLimiter
	router := NewRouter(cfg, handlers.NewHandlers(deps), limiter, log)
	return &testServer{handler: router.Setup()}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[handlers.HealthResponse](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Version)
}

func TestReadyReportsFailingDependency(t *testing.T) {
	srv := newTestServer(t, func(_ *config.Config, d *handlers.Dependencies) {
		d.Checks = map[string]handlers.ReadinessCheck{
			"redis":    func(context.Context) error { return nil },
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		}
	})

	rec := srv.do(t, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody[handlers.HealthResponse](t, rec)
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, "healthy", body.Checks["redis"])
	assert.Equal(t, "healthy", body.Checks["engine"])
	assert.Equal(t, "unhealthy: connection refused", body.Checks["postgres"])
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/analyze", models.AnalysisRequest{
		Text:    "You won a jackpot! Click here to verify your account now, urgent, expires soon, act now, limited time",
		Channel: models.ChannelSMS,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	record := decodeBody[models.AnalysisRecord](t, rec)
	assert.Equal(t, models.RiskHigh, record.Result.Risk)
	assert.Equal(t, models.ChannelSMS, record.Channel)
	assert.Equal(t, 16, record.Result.PatternScore)
	assert.Len(t, record.Result.Tips, 6)
}

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"blank text", models.AnalysisRequest{Text: "   "}, http.StatusBadRequest},
		{"text over limit", models.AnalysisRequest{Text: strings.Repeat("a", 2048)}, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/v1/analyze", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
		})
	}
}

func TestAnalyzeBatch(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/analyze/batch", handlers.BatchRequest{
		Items: []models.AnalysisRequest{
			{Text: "lottery"},
			{Text: ""},
			{Text: "see you at lunch"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	batch := decodeBody[models.BatchResult](t, rec)
	assert.Equal(t, 3, batch.TotalCount)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, map[string]int{"low": 1, "medium": 1, "high": 0}, batch.ByRisk)
	require.Len(t, batch.Results, 3)
	assert.NotEmpty(t, batch.Results[1].Error)
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/analyze/batch", handlers.BatchRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, field, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeDocument(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartUpload(t, "file", "letter.txt", []byte("Congratulations winner! Claim at http://prize.tk now"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/document", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	record := decodeBody[models.AnalysisRecord](t, rec)
	assert.Equal(t, models.ChannelDocument, record.Channel)
	assert.Equal(t, models.RiskHigh, record.Result.Risk)
	require.NotNil(t, record.Result.URLAnalysis)
	assert.True(t, record.Result.URLAnalysis.IsSuspicious)
}

func TestAnalyzeDocumentErrors(t *testing.T) {
	srv := newTestServer(t)

	send := func(field, name string, data []byte) *httptest.ResponseRecorder {
		body, contentType := multipartUpload(t, field, name, data)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/document", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, send("upload", "a.txt", []byte("hello")).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, send("file", "blank.txt", []byte("   \n")).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, send("file", "big.txt", bytes.Repeat([]byte("a"), 65<<10)).Code)
}

func TestRules(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		KeywordCount int `json:"keyword_count"`
		Rules        struct {
			Categories   []models.RuleCategory `json:"categories"`
			UrgencyWords []string              `json:"urgency_words"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 73, body.KeywordCount)
	assert.Len(t, body.Rules.Categories, 4)
	assert.Len(t, body.Rules.UrgencyWords, 7)
}

func TestAwareness(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/awareness/topics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, decodeBody[map[string]any](t, rec)["count"])

	rec = srv.do(t, http.MethodGet, "/api/v1/awareness/topics/sms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sms", decodeBody[models.ScamTopic](t, rec).ID)

	rec = srv.do(t, http.MethodGet, "/api/v1/awareness/topics/fax", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/awareness/quiz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "explanation")
}

func TestAwarenessGrade(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/awareness/quiz/grade", handlers.GradeRequest{Answers: []int{1, 2, 1, 2, 2}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[models.QuizResult](t, rec)
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, "excellent", result.Rating)

	rec = srv.do(t, http.MethodPost, "/api/v1/awareness/quiz/grade", handlers.GradeRequest{Answers: []int{1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/stats", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/analyze", models.AnalysisRequest{Text: "lottery"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/stats?days=3", nil, "Authorization", "Bearer "+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decodeBody[models.StatsSummary](t, rec)
	assert.Equal(t, services.StatsSourceNone, summary.Source)
	assert.Len(t, summary.Days, 3)
	assert.GreaterOrEqual(t, summary.SinceStart.Medium, int64(1))

	rec = srv.do(t, http.MethodGet, "/api/v1/stats?days=abc", nil, "Authorization", "Bearer "+testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsRollupUnavailable(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/stats/rollup", nil, "Authorization", "Bearer "+testAPIKey)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/stats/rollup?day=yesterday", nil, "Authorization", "Bearer "+testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamUnavailableWithoutHub(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/stream", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimiting(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config, _ *handlers.Dependencies) {
		c.RateLimit.Enabled = true
		c.RateLimit.RequestsPerMinute = 10
	})

	rec := srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodGet, "/health", nil)
	rec := srv.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scamguard_http_requests_total")
}
