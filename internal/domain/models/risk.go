package models

import (
	"fmt"
	"strings"
)

// RiskLevel is the engine's three-tier verdict.
type RiskLevel uint8

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// RiskLevels lists every verdict in ascending order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return fmt.Sprintf("RiskLevel(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the three defined verdicts.
func (r RiskLevel) Valid() bool {
	return r <= RiskHigh
}

// ParseRiskLevel parses "low", "medium" or "high" (case-insensitive).
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	default:
		return RiskLow, fmt.Errorf("unknown risk level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (r RiskLevel) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid risk level %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *RiskLevel) UnmarshalText(text []byte) error {
	level, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// Severity is the informational tag attached to a rule. It does not take part
// in scoring.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rule is a weighted group of lowercase keywords.
type Rule struct {
	Keywords []string `json:"keywords"`
	Severity Severity `json:"risk"`
	Weight   int      `json:"weight"`
}

// RuleCategory is a named, ordered group of rules.
type RuleCategory struct {
	Name  string `json:"category"`
	Rules []Rule `json:"patterns"`
}

// CategoryFinancial is the category whose matches raise FinancialPressure.
const CategoryFinancial = "Financial Scams"

// UrgencyDisplayCap bounds the urgency indicator shown to users.
const UrgencyDisplayCap = 5

// DisplayUrgency caps an urgency score for display. Classification always uses
// the raw score.
func DisplayUrgency(score int) int {
	if score > UrgencyDisplayCap {
		return UrgencyDisplayCap
	}
	if score < 0 {
		return 0
	}
	return score
}
