package detection

import (
	"regexp"
	"strings"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// urlPattern matches an http(s) scheme followed by any run of non-space
// characters. Trailing punctuation stays part of the token.
var urlPattern = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{FEFF}]+`)

const (
	issueUnsecureHTTP     = "Unsecure HTTP connection"
	issueSuspiciousDomain = "Suspicious domain name"
)

func issueForPattern(pattern string) string {
	return "Suspicious URL pattern: " + pattern
}

// ExtractURLs returns every URL token in text, in order of appearance.
// Malformed or partial URLs simply do not match.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// AnalyzeURLs checks each URL against the suspicious-substring list, the
// plain-http rule and the scam-domain list. It returns nil when urls is empty.
func AnalyzeURLs(urls []string, rs Ruleset) *models.URLAnalysis {
	if len(urls) == 0 {
		return nil
	}

	analysis := &models.URLAnalysis{
		Issues:   []string{},
		Findings: make([]models.URLFinding, 0, len(urls)),
	}

	for _, raw := range urls {
		finding := analyzeURL(raw, rs)
		analysis.Issues = append(analysis.Issues, finding.Issues...)
		analysis.Findings = append(analysis.Findings, finding)
	}
	analysis.IsSuspicious = len(analysis.Issues) > 0

	return analysis
}

func analyzeURL(raw string, rs Ruleset) models.URLFinding {
	lower := strings.ToLower(raw)
	finding := models.URLFinding{URL: raw, Issues: []string{}}

	for _, pattern := range rs.SuspiciousURLPatterns {
		if strings.Contains(lower, pattern) {
			finding.Issues = append(finding.Issues, issueForPattern(pattern))
		}
	}

	if strings.HasPrefix(lower, "http://") {
		finding.Issues = append(finding.Issues, issueUnsecureHTTP)
	}

	for _, domain := range rs.SuspiciousDomains {
		if strings.Contains(lower, domain) {
			finding.Issues = append(finding.Issues, issueSuspiciousDomain)
			break
		}
	}

	finding.IsSuspicious = len(finding.Issues) > 0
	return finding
}
