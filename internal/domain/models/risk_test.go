package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelText(t *testing.T) {
	for _, r := range RiskLevels {
		b, err := r.MarshalText()
		require.NoError(t, err)

		var back RiskLevel
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, r, back)
	}

	_, err := RiskLevel(7).MarshalText()
	assert.Error(t, err)
	assert.False(t, RiskLevel(3).Valid())
	assert.Equal(t, "RiskLevel(9)", RiskLevel(9).String())
}

func TestParseRiskLevel(t *testing.T) {
	r, err := ParseRiskLevel(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, r)

	_, err = ParseRiskLevel("critical")
	assert.Error(t, err)
}

func TestResultJSONOmitsAbsentFindings(t *testing.T) {
	res := AnalysisResult{Risk: RiskMedium, Tips: []string{"a"}, DetectedPatterns: []string{}}
	b, err := json.Marshal(res)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "medium", m["risk"])
	assert.NotContains(t, m, "url_analysis")
	assert.NotContains(t, m, "grammar_issues")

	res.URLAnalysis = &URLAnalysis{Issues: []string{}, Findings: []URLFinding{}}
	b, err = json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"url_analysis":{"is_suspicious":false`)
}

func TestDisplayUrgency(t *testing.T) {
	assert.Equal(t, 0, DisplayUrgency(-1))
	assert.Equal(t, 3, DisplayUrgency(3))
	assert.Equal(t, 5, DisplayUrgency(7))
}

func TestParseChannel(t *testing.T) {
	assert.Equal(t, ChannelSMS, ParseChannel("SMS"))
	assert.Equal(t, ChannelCall, ParseChannel("call"))
	assert.Equal(t, ChannelText, ParseChannel(""))
	assert.Equal(t, ChannelText, ParseChannel("fax"))
}

func TestAuditAndEventCarryNoText(t *testing.T) {
	rec := &AnalysisRecord{
		ID:         uuid.New(),
		Channel:    ChannelEmail,
		AnalyzedAt: time.Now(),
		Duration:   1500 * time.Microsecond,
		Result: AnalysisResult{
			Risk:             RiskHigh,
			DetectedPatterns: []string{"lottery", "winner"},
			PatternScore:     6,
			GrammarIssues:    []string{"dear customer"},
			UrgencyScore:     2,
			URLAnalysis: &URLAnalysis{
				IsSuspicious: true,
				Issues:       []string{"Unsecure HTTP connection"},
				Findings:     []URLFinding{{URL: "http://x.tk", IsSuspicious: true}},
			},
		},
	}

	audit := NewAnalysisAudit(rec)
	assert.Equal(t, 2, audit.PatternCount)
	assert.Equal(t, 1, audit.URLCount)
	assert.Equal(t, 1, audit.GrammarCount)
	assert.True(t, audit.SuspiciousURLs)
	assert.EqualValues(t, 1500, audit.DurationMicros)

	ev := NewAnalysisEvent(rec)
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "lottery")
	assert.NotContains(t, string(b), "x.tk")
	assert.Contains(t, string(b), `"risk":"high"`)
}

func TestDailyVerdicts(t *testing.T) {
	var d DailyVerdicts
	d.Add(RiskLow, 2)
	d.Add(RiskHigh, 1)
	d.Add(RiskMedium, 4)
	assert.EqualValues(t, 7, d.Total())
}
