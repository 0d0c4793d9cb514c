// Package detection is the offline risk analysis engine. It scores free text
// against static keyword, urgency, phrasing and URL tables and explains the
// verdict. Every function here is pure; an Engine is safe for concurrent use.
package detection

import (
	"strings"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// Engine scores text against a fixed Ruleset
type Engine struct {
	rules Ruleset
}

var defaultEngine = New(defaultRuleset)

// New creates an engine over the given tables. The tables are not copied and
// must not be modified afterwards.
func New(rs Ruleset) *Engine {
	return &Engine{rules: rs}
}

// Default returns the engine built on DefaultRuleset
func Default() *Engine {
	return defaultEngine
}

// Rules returns the tables the engine scores against
func (e *Engine) Rules() Ruleset {
	return e.rules
}

// Analyze scores text. It never fails: empty or garbage input yields a low
// verdict with no findings.
func (e *Engine) Analyze(text string) models.AnalysisResult {
	normalized := strings.ToLower(text)

	patterns := MatchPatterns(normalized, e.rules.Categories)
	urgency := UrgencyScore(normalized, e.rules.UrgencyWords)
	grammar := GrammarFlags(normalized, e.rules.GrammarRedFlags)
	urls := AnalyzeURLs(ExtractURLs(text), e.rules)

	risk := Classify(patterns.Score, urgency)
	explanation, tips := Narrate(risk, Signals{
		Patterns:          patterns.Keywords,
		UrgencyScore:      urgency,
		FinancialPressure: patterns.FinancialPressure,
		URLAnalysis:       urls,
	})

	return models.AnalysisResult{
		Risk:              risk,
		Explanation:       explanation,
		Tips:              tips,
		DetectedPatterns:  patterns.Keywords,
		PatternScore:      patterns.Score,
		URLAnalysis:       urls,
		GrammarIssues:     grammar,
		UrgencyScore:      urgency,
		FinancialPressure: patterns.FinancialPressure,
	}
}

// Analyze scores text with the default engine
func Analyze(text string) models.AnalysisResult {
	return defaultEngine.Analyze(text)
}
