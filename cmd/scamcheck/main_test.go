package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services/detection"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunLocalHumanReport(t *testing.T) {
	code, out, _ := runCLI(t, "",
		"You", "won", "a", "jackpot!", "Click", "here", "to", "verify", "your", "account", "now,",
		"urgent,", "expires", "soon,", "act", "now,", "limited", "time", "http://bit.ly/x")

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "HIGH RISK"))
	assert.Contains(t, out, "Detected patterns: urgent, limited time, act now, expires soon, won, jackpot (+1 more)")
	assert.Contains(t, out, "  - Suspicious URL pattern: bit.ly")
	assert.Contains(t, out, "Urgency: [####-] 4/5")
	assert.Contains(t, out, "Financial pressure detected")
}

func TestRunReadsStdin(t *testing.T) {
	code, out, _ := runCLI(t, "see you at lunch\n")

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "LOW RISK"))
	assert.NotContains(t, out, "Urgency:")
}

func TestRunJSON(t *testing.T) {
	code, out, _ := runCLI(t, "", "--json", "LOTTERY JACKPOT")
	require.Equal(t, 0, code)

	var res models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, detection.Analyze("LOTTERY JACKPOT"), res)
}

func TestRunUsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "   ")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "usage: scamcheck")

	code, _, _ = runCLI(t, "", "--bogus", "text")
	assert.Equal(t, 1, code)
}

func TestRunUrgencyBarIsCapped(t *testing.T) {
	code, out, _ := runCLI(t, "", "urgent immediate asap expire limited now quick")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Urgency: [#####] 5/5")
}

func TestRunRemote(t *testing.T) {
	var got models.AnalysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analyze", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.AnalysisRecord{
			Channel: got.Channel,
			Result:  detection.Analyze(got.Text),
		})
	}))
	defer srv.Close()

	code, out, errOut := runCLI(t, "", "--server", srv.URL+"/", "--channel", "SMS", "lottery")

	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "lottery", got.Text)
	assert.Equal(t, models.ChannelSMS, got.Channel)
	assert.True(t, strings.HasPrefix(out, "MEDIUM RISK"))
}

func TestRunRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"error":"text too large"}`))
	}))
	defer srv.Close()

	code, _, errOut := runCLI(t, "", "--server", srv.URL, "hello")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "server returned 413: text too large")
}

func TestRunRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	code, _, errOut := runCLI(t, "", "--server", url, "--timeout", "1s", "hello")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "request failed")
}
