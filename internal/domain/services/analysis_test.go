package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

const jackpotText = "You won a jackpot! Click here to verify your account now, urgent, expires soon, act now, limited time http://bit.ly/claim"

func newTestAnalysisService(deps AnalysisDependencies) *AnalysisService {
	return NewAnalysisService(nil, DefaultAnalysisConfig(), deps, logger.NewNop())
}

func TestAnalyzeProducesRecord(t *testing.T) {
	svc := newTestAnalysisService(AnalysisDependencies{})

	rec, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: jackpotText, Channel: "SMS"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID.String())
	assert.Equal(t, models.ChannelSMS, rec.Channel)
	assert.Equal(t, models.RiskHigh, rec.Result.Risk)
	assert.False(t, rec.AnalyzedAt.IsZero())
	assert.Equal(t, int64(1), svc.Processed().High)
}

func TestAnalyzeDefaultsChannel(t *testing.T) {
	svc := newTestAnalysisService(AnalysisDependencies{})

	rec, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "see you at lunch", Channel: "carrier-pigeon"})
	require.NoError(t, err)
	assert.Equal(t, models.ChannelText, rec.Channel)
	assert.Equal(t, models.RiskLow, rec.Result.Risk)
}

func TestAnalyzeValidation(t *testing.T) {
	svc := NewAnalysisService(nil, AnalysisConfig{MaxTextBytes: 16}, AnalysisDependencies{}, logger.NewNop())

	_, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "  \n\t"})
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Analyze(context.Background(), models.AnalysisRequest{Text: strings.Repeat("a", 17)})
	assert.ErrorIs(t, err, ErrTextTooLarge)

	_, err = svc.Analyze(context.Background(), models.AnalysisRequest{Text: strings.Repeat("a", 16)})
	assert.NoError(t, err)
}

func TestAnalyzeRecordsMetadataOnly(t *testing.T) {
	counter := newFakeCounter()
	audits := &fakeAudits{}
	pub := &fakePublisher{}
	svc := newTestAnalysisService(AnalysisDependencies{Counter: counter, Audits: audits, Publisher: pub})

	rec, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: jackpotText})
	require.NoError(t, err)

	require.Len(t, audits.audits, 1)
	audit := audits.audits[0]
	assert.Equal(t, rec.ID, audit.ID)
	assert.Equal(t, models.RiskHigh, audit.Risk)
	assert.Equal(t, 1, audit.URLCount)
	assert.True(t, audit.SuspiciousURLs)

	require.Len(t, pub.events, 1)
	assert.Equal(t, rec.ID.String(), pub.events[0].AnalysisID)
	assert.Equal(t, models.EventTypeAnalysisCompleted, pub.events[0].Type)

	day, err := counter.DailyVerdicts(context.Background(), rec.AnalyzedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), day.High)
}

func TestAnalyzeSurvivesSinkFailures(t *testing.T) {
	counter := newFakeCounter()
	counter.fail = true
	audits := &fakeAudits{fail: true}
	pub := &fakePublisher{}
	svc := newTestAnalysisService(AnalysisDependencies{Counter: counter, Audits: audits, Publisher: pub})

	rec, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "lottery"})
	require.NoError(t, err)
	assert.Equal(t, models.RiskMedium, rec.Result.Risk)
	assert.Len(t, pub.events, 1, "a failing sink must not stop the others")
}

func TestSinkFailureLogsAnalysisID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Format: "json", Output: &buf})
	svc := NewAnalysisService(nil, DefaultAnalysisConfig(), AnalysisDependencies{Audits: &fakeAudits{fail: true}}, log)

	rec, err := svc.Analyze(context.Background(), models.AnalysisRequest{Text: "lottery"})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, rec.ID.String(), entry["analysis_id"])
	assert.Equal(t, "audit", entry["sink"])
	assert.NotContains(t, buf.String(), "lottery")
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	svc := newTestAnalysisService(AnalysisDependencies{})

	reqs := []models.AnalysisRequest{
		{Text: jackpotText},
		{Text: ""},
		{Text: "lottery"},
		{Text: "see you at lunch"},
		{Text: "lottery jackpot", Channel: models.ChannelEmail},
	}
	batch, err := svc.AnalyzeBatch(context.Background(), reqs)
	require.NoError(t, err)

	require.Len(t, batch.Results, len(reqs))
	for i, item := range batch.Results {
		assert.Equal(t, i, item.Index)
	}
	assert.Equal(t, ErrEmptyText.Error(), batch.Results[1].Error)
	assert.Nil(t, batch.Results[1].Record)
	assert.Equal(t, models.RiskMedium, batch.Results[2].Record.Result.Risk)
	assert.Equal(t, models.ChannelEmail, batch.Results[4].Record.Channel)

	assert.Equal(t, 5, batch.TotalCount)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, map[string]int{"low": 1, "medium": 1, "high": 2}, batch.ByRisk)
}

func TestAnalyzeBatchLimits(t *testing.T) {
	svc := NewAnalysisService(nil, AnalysisConfig{MaxBatchSize: 2}, AnalysisDependencies{}, logger.NewNop())

	_, err := svc.AnalyzeBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = svc.AnalyzeBatch(context.Background(), make([]models.AnalysisRequest, 3))
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestAnalyzeBatchCancelledContext(t *testing.T) {
	svc := newTestAnalysisService(AnalysisDependencies{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := svc.AnalyzeBatch(ctx, []models.AnalysisRequest{{Text: "a"}, {Text: "b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Failed)
	assert.Equal(t, context.Canceled.Error(), batch.Results[0].Error)
}

func TestAnalyzeDocument(t *testing.T) {
	svc := newTestAnalysisService(AnalysisDependencies{})

	rec, err := svc.AnalyzeDocument(context.Background(), []byte("Congratulations winner, claim your prize"), "text/plain", "note.txt")
	require.NoError(t, err)
	assert.Equal(t, models.ChannelDocument, rec.Channel)
	assert.Equal(t, models.RiskHigh, rec.Result.Risk)

	_, err = svc.AnalyzeDocument(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "x.png")
	assert.Error(t, err)
}
