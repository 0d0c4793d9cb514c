package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLFinding is one URL extracted from the input and what was wrong with it
type URLFinding struct {
	URL          string   `json:"url"`
	Issues       []string `json:"issues"`
	IsSuspicious bool     `json:"is_suspicious"`
}

// URLAnalysis aggregates every URL found in a message. Issues is the flattened
// list across all URLs; Findings keeps per-URL attribution.
type URLAnalysis struct {
	IsSuspicious bool         `json:"is_suspicious"`
	Issues       []string     `json:"issues"`
	Findings     []URLFinding `json:"findings"`
}

// AnalysisResult is the engine output for one piece of text.
//
// URLAnalysis is nil when the text contains no URLs. GrammarIssues is nil when
// no red-flag phrasing was found; it is never an empty non-nil slice.
type AnalysisResult struct {
	Risk              RiskLevel    `json:"risk"`
	Explanation       string       `json:"explanation"`
	Tips              []string     `json:"tips"`
	DetectedPatterns  []string     `json:"detected_patterns"`
	PatternScore      int          `json:"pattern_score"`
	URLAnalysis       *URLAnalysis `json:"url_analysis,omitempty"`
	GrammarIssues     []string     `json:"grammar_issues,omitempty"`
	UrgencyScore      int          `json:"urgency_score"`
	FinancialPressure bool         `json:"financial_pressure"`
}

// HasURLs reports whether any URL was extracted
func (r *AnalysisResult) HasURLs() bool {
	return r.URLAnalysis != nil
}

// HasGrammarIssues reports whether red-flag phrasing was found
func (r *AnalysisResult) HasGrammarIssues() bool {
	return r.GrammarIssues != nil
}

// Channel describes where the analyzed text came from
type Channel string

const (
	ChannelText     Channel = "text"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelCall     Channel = "call"
	ChannelDocument Channel = "document"
)

// ParseChannel normalizes a client supplied channel. Empty or unknown values
// fall back to ChannelText.
func ParseChannel(s string) Channel {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelSMS, ChannelEmail, ChannelCall, ChannelDocument:
		return c
	default:
		return ChannelText
	}
}

// AnalysisRequest is a single request to the analysis service
type AnalysisRequest struct {
	Text    string  `json:"text"`
	Channel Channel `json:"channel,omitempty"`
}

// AnalysisRecord wraps an engine result with request metadata
type AnalysisRecord struct {
	ID         uuid.UUID      `json:"id"`
	Channel    Channel        `json:"channel"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
	Duration   time.Duration  `json:"duration_ns"`
	Result     AnalysisResult `json:"result"`
}

// BatchItemResult is the outcome for one item of a batch
type BatchItemResult struct {
	Index  int             `json:"index"`
	Record *AnalysisRecord `json:"record,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// BatchResult is the outcome of a batch analysis
type BatchResult struct {
	Results    []BatchItemResult `json:"results"`
	TotalCount int               `json:"total_count"`
	Failed     int               `json:"failed"`
	ByRisk     map[string]int    `json:"by_risk"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

// AnalysisAudit is the persisted trace of an analysis. It deliberately holds no
// submitted text, URLs or matched phrases.
type AnalysisAudit struct {
	ID                uuid.UUID `json:"id"`
	Channel           Channel   `json:"channel"`
	Risk              RiskLevel `json:"risk"`
	PatternScore      int       `json:"pattern_score"`
	PatternCount      int       `json:"pattern_count"`
	UrgencyScore      int       `json:"urgency_score"`
	FinancialPressure bool      `json:"financial_pressure"`
	URLCount          int       `json:"url_count"`
	SuspiciousURLs    bool      `json:"suspicious_urls"`
	GrammarCount      int       `json:"grammar_count"`
	DurationMicros    int64     `json:"duration_us"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewAnalysisAudit derives the audit trace from a record
func NewAnalysisAudit(rec *AnalysisRecord) *AnalysisAudit {
	a := &AnalysisAudit{
		ID:                rec.ID,
		Channel:           rec.Channel,
		Risk:              rec.Result.Risk,
		PatternScore:      rec.Result.PatternScore,
		PatternCount:      len(rec.Result.DetectedPatterns),
		UrgencyScore:      rec.Result.UrgencyScore,
		FinancialPressure: rec.Result.FinancialPressure,
		GrammarCount:      len(rec.Result.GrammarIssues),
		DurationMicros:    rec.Duration.Microseconds(),
		CreatedAt:         rec.AnalyzedAt,
	}
	if rec.Result.HasURLs() {
		a.URLCount = len(rec.Result.URLAnalysis.Findings)
		a.SuspiciousURLs = rec.Result.URLAnalysis.IsSuspicious
	}
	return a
}
