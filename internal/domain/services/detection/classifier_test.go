package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		pattern, urgency int
		want             models.RiskLevel
	}{
		{0, 0, models.RiskLow},
		{2, 1, models.RiskLow},
		{3, 0, models.RiskMedium},
		{0, 2, models.RiskMedium},
		{5, 2, models.RiskMedium},
		{6, 0, models.RiskHigh},
		{0, 3, models.RiskHigh},
		{100, 100, models.RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.pattern, tt.urgency), "pattern=%d urgency=%d", tt.pattern, tt.urgency)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	for p := 0; p < 10; p++ {
		for u := 0; u < 6; u++ {
			base := Classify(p, u)
			assert.GreaterOrEqual(t, int(Classify(p+1, u)), int(base))
			assert.GreaterOrEqual(t, int(Classify(p, u+1)), int(base))
		}
	}
}

func TestNarrateHighCitesAtMostThreePatterns(t *testing.T) {
	explanation, tips := Narrate(models.RiskHigh, Signals{
		Patterns: []string{"a", "b", "c", "d", "e"},
		URLAnalysis: &models.URLAnalysis{
			IsSuspicious: true,
			Issues:       []string{"Unsecure HTTP connection"},
		},
	})

	assert.Equal(t,
		"This message shows multiple strong indicators of being a scam. We detected 5 suspicious patterns including a, b, c."+
			" The included links appear suspicious and should not be clicked.",
		explanation)
	assert.Equal(t, highRiskTips, tips)
}

func TestNarrateHighSkipsLinkSentenceForCleanURLs(t *testing.T) {
	explanation, _ := Narrate(models.RiskHigh, Signals{
		Patterns:    []string{"jackpot"},
		URLAnalysis: &models.URLAnalysis{Issues: []string{}},
	})

	assert.NotContains(t, explanation, "links")
}

func TestNarrateMediumWithoutUrgency(t *testing.T) {
	explanation, tips := Narrate(models.RiskMedium, Signals{Patterns: []string{"x", "y"}})

	assert.Equal(t,
		"This message has several warning signs that suggest it could be suspicious. We found 2 concerning patterns.",
		explanation)
	assert.Len(t, tips, 6)
}

func TestNarrateLowIgnoresSignals(t *testing.T) {
	explanation, tips := Narrate(models.RiskLow, Signals{
		Patterns:          []string{"urgent"},
		UrgencyScore:      1,
		FinancialPressure: true,
	})

	assert.Equal(t, lowRiskExplanation, explanation)
	assert.Equal(t, lowRiskTips, tips)
}
