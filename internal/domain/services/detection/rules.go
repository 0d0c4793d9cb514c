package detection

import "github.com/krxsh13/ScamGuard/internal/domain/models"

// Ruleset holds the static tables the engine scores against. All keywords and
// patterns are lowercase.
type Ruleset struct {
	Categories []models.RuleCategory `json:"categories"`

	// SuspiciousURLPatterns are substrings flagged in any extracted URL:
	// shorteners, prefixes, scam-domain fragments and low-trust TLDs.
	SuspiciousURLPatterns []string `json:"suspicious_url_patterns"`

	// SuspiciousDomains are high-confidence scam-domain fragments. They may
	// overlap with SuspiciousURLPatterns; both issues are reported.
	SuspiciousDomains []string `json:"suspicious_domains"`

	GrammarRedFlags []string `json:"grammar_red_flags"`
	UrgencyWords    []string `json:"urgency_words"`
}

// defaultRuleset is built once and never mutated.
var defaultRuleset = Ruleset{
	Categories: []models.RuleCategory{
		{
			Name: models.CategoryFinancial,
			Rules: []models.Rule{
				{Keywords: []string{"urgent", "immediately", "limited time", "act now", "expires soon"}, Severity: models.SeverityMedium, Weight: 2},
				{Keywords: []string{"congratulations", "winner", "lottery", "prize", "won", "jackpot"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"verify account", "update payment", "suspended", "frozen account"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"government", "tax refund", "irs", "social security", "medicare"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"free money", "easy money", "guaranteed", "risk-free", "quick cash"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"bitcoin", "cryptocurrency", "investment opportunity", "crypto"}, Severity: models.SeverityMedium, Weight: 2},
				{Keywords: []string{"gift card", "prepaid card", "western union", "moneygram"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"inheritance", "unclaimed money", "found money", "legal fees"}, Severity: models.SeverityHigh, Weight: 3},
			},
		},
		{
			Name: "Tech Support Scams",
			Rules: []models.Rule{
				{Keywords: []string{"microsoft", "apple", "google", "tech support", "computer virus"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"remote access", "teamviewer", "anydesk", "fix computer"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"subscription", "renewal", "billing", "payment method"}, Severity: models.SeverityMedium, Weight: 2},
			},
		},
		{
			Name: "Phishing Attempts",
			Rules: []models.Rule{
				{Keywords: []string{"click here", "verify now", "secure link", "login required"}, Severity: models.SeverityMedium, Weight: 2},
				{Keywords: []string{"password", "username", "account details", "personal info"}, Severity: models.SeverityHigh, Weight: 3},
				{Keywords: []string{"unusual activity", "suspicious login", "security alert"}, Severity: models.SeverityMedium, Weight: 2},
			},
		},
		{
			Name: "Social Engineering",
			Rules: []models.Rule{
				{Keywords: []string{"friend in need", "emergency", "help needed", "urgent request"}, Severity: models.SeverityMedium, Weight: 2},
				{Keywords: []string{"romance", "dating", "love", "relationship"}, Severity: models.SeverityMedium, Weight: 2},
				{Keywords: []string{"job offer", "work from home", "easy job", "high salary"}, Severity: models.SeverityMedium, Weight: 2},
			},
		},
	},

	SuspiciousURLPatterns: []string{
		// shorteners
		"bit.ly", "tinyurl", "goo.gl", "t.co",
		// prefixes
		"secure-", "verify-", "update-", "login-",
		// scam domains
		"bank-verify", "account-secure", "payment-update",
		// TLDs
		".tk", ".ml", ".ga", ".cf", ".gq",
	},

	SuspiciousDomains: []string{"bank-verify", "account-secure"},

	GrammarRedFlags: []string{
		// generic greetings
		"dear customer", "dear sir", "dear madam",
		// stilted formality
		"kindly", "please kindly", "urgently",
		// passive account/payment phrasing
		"your account has been", "your payment is",
		// commands
		"click here to", "verify your", "update your",
	},

	UrgencyWords: []string{"urgent", "immediate", "asap", "expire", "limited", "now", "quick"},
}

// DefaultRuleset returns the reference tables. The returned value shares its
// backing arrays with the package default and must be treated as read-only.
func DefaultRuleset() Ruleset {
	return defaultRuleset
}

// KeywordCount returns the number of keywords across all rules
func (rs Ruleset) KeywordCount() int {
	n := 0
	for _, c := range rs.Categories {
		for _, r := range c.Rules {
			n += len(r.Keywords)
		}
	}
	return n
}
