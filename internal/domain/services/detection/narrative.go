package detection

import (
	"fmt"
	"strings"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// Signals are the raw findings the narrative is built from
type Signals struct {
	Patterns          []string
	UrgencyScore      int
	FinancialPressure bool
	URLAnalysis       *models.URLAnalysis
}

// maxCitedPatterns bounds how many keywords the high-risk explanation names
const maxCitedPatterns = 3

const lowRiskExplanation = "This message appears to be relatively safe, but always stay vigilant."

var (
	highRiskTips = []string{
		"🚫 DO NOT click any links or provide personal information",
		"🚫 DO NOT send money, gift cards, or cryptocurrency",
		"🔍 Verify independently by contacting the organization directly",
		"📞 Report this message to authorities (FTC, FBI, etc.)",
		"💾 Save the message as evidence",
		"🔒 Update your passwords if you clicked any links",
	}

	mediumRiskTips = []string{
		"⚠️ Double-check the sender's identity independently",
		"🔍 Look for spelling and grammar mistakes",
		"⏰ Be suspicious of urgent requests",
		"🔗 Verify any claims through official channels",
		"❓ When in doubt, don't respond",
		"📱 Contact the organization directly if concerned",
	}

	lowRiskTips = []string{
		"✅ Continue to be cautious with personal information",
		"🔍 Verify sender identity for important requests",
		"🛡️ Keep your security software updated",
		"📚 Stay informed about current scam trends",
	}
)

// Narrate builds the explanation and tips for a verdict. It accepts any
// combination of signals, including a high verdict with no patterns (urgency
// alone can get there).
func Narrate(risk models.RiskLevel, s Signals) (string, []string) {
	switch risk {
	case models.RiskHigh:
		return highRiskExplanation(s), clone(highRiskTips)
	case models.RiskMedium:
		return mediumRiskExplanation(s), clone(mediumRiskTips)
	default:
		return lowRiskExplanation, clone(lowRiskTips)
	}
}

func highRiskExplanation(s Signals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This message shows multiple strong indicators of being a scam. We detected %d suspicious patterns", len(s.Patterns))
	if len(s.Patterns) > 0 {
		cited := s.Patterns
		if len(cited) > maxCitedPatterns {
			cited = cited[:maxCitedPatterns]
		}
		b.WriteString(" including ")
		b.WriteString(strings.Join(cited, ", "))
	}
	b.WriteString(".")

	if s.URLAnalysis != nil && s.URLAnalysis.IsSuspicious {
		b.WriteString(" The included links appear suspicious and should not be clicked.")
	}
	if s.FinancialPressure {
		b.WriteString(" This appears to be a financial scam attempting to pressure you into sending money.")
	}
	return b.String()
}

func mediumRiskExplanation(s Signals) string {
	explanation := fmt.Sprintf("This message has several warning signs that suggest it could be suspicious. We found %d concerning patterns.", len(s.Patterns))
	if s.UrgencyScore > 0 {
		explanation += fmt.Sprintf(" The message uses urgent language (%d urgency indicators), which is a common scam tactic.", s.UrgencyScore)
	}
	return explanation
}

func clone(tips []string) []string {
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
