package detection

import "github.com/krxsh13/ScamGuard/internal/domain/models"

// Verdict thresholds. Checked as ordered guards, high first.
const (
	HighPatternScore   = 6
	HighUrgencyScore   = 3
	MediumPatternScore = 3
	MediumUrgencyScore = 2
)

// Classify maps the pattern and urgency scores to a verdict
func Classify(patternScore, urgencyScore int) models.RiskLevel {
	switch {
	case patternScore >= HighPatternScore || urgencyScore >= HighUrgencyScore:
		return models.RiskHigh
	case patternScore >= MediumPatternScore || urgencyScore >= MediumUrgencyScore:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
