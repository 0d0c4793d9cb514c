// Package awareness serves the scam education catalogue and the awareness quiz.
package awareness

import (
	"errors"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// ErrTopicNotFound is returned for an unknown topic id
var ErrTopicNotFound = errors.New("awareness topic not found")

var topics = []models.ScamTopic{
	{
		ID:          "phone",
		Title:       "Fake Phone Calls",
		Description: "Scammers pretending to be from banks, government, or tech support",
		Warning:     "They pressure you to share personal information or send money immediately",
		Examples: []string{
			"Calls claiming your bank account is frozen",
			"Tech support saying your computer is infected",
			"Government officials demanding immediate payment",
		},
		RedFlags: []string{
			"Caller ID can be fake - don't trust it",
			"Asking for passwords, PINs, or personal details",
			"Demanding immediate action or payment",
			"Threatening consequences if you don't comply",
		},
		Protection: []string{
			"Hang up and call the organization directly",
			"Never give personal information over the phone",
			"Take time to think - legitimate calls can wait",
			"Ask for a reference number and verify independently",
		},
	},
	{
		ID:          "sms",
		Title:       "Phishing SMS",
		Description: "Text messages trying to steal your personal information or money",
		Warning:     "Often claim urgent problems with your accounts or offer fake prizes",
		Examples: []string{
			"Bank KYC verification messages",
			"Fake lottery or prize notifications",
			"Account suspension warnings",
		},
		RedFlags: []string{
			"Links to suspicious websites",
			"Urgent language and time pressure",
			"Requests for personal information",
			"Poor spelling and grammar",
		},
		Protection: []string{
			"Never click links in suspicious texts",
			"Contact your bank directly if concerned",
			"Delete suspicious messages immediately",
			"Report scam texts to your mobile provider",
		},
	},
	{
		ID:          "email",
		Title:       "Phishing Emails",
		Description: "Fake emails designed to trick you into revealing sensitive information",
		Warning:     "Often look like they come from trusted companies or government agencies",
		Examples: []string{
			"Fake bank security alerts",
			"Fraudulent online shopping confirmations",
			"Government refund notifications",
		},
		RedFlags: []string{
			`Generic greetings like "Dear Customer"`,
			"Mismatched sender addresses",
			"Urgent threats about account closure",
			"Requests to update payment information",
		},
		Protection: []string{
			"Check sender email address carefully",
			"Don't click links - type URLs directly",
			"Use two-factor authentication",
			"Keep email software updated",
		},
	},
	{
		ID:          "links",
		Title:       "Malicious Links",
		Description: "Dangerous websites that steal information or install malware",
		Warning:     "Can look exactly like legitimate websites but steal your data",
		Examples: []string{
			"Fake banking login pages",
			"Counterfeit shopping websites",
			"Fraudulent social media login screens",
		},
		RedFlags: []string{
			"URLs that don't match the real company",
			"Missing security certificates (no https://)",
			"Poor website design or spelling errors",
			"Asking for unnecessary personal information",
		},
		Protection: []string{
			"Always type URLs directly into your browser",
			"Look for the padlock symbol in your browser",
			"Check the URL carefully for misspellings",
			"Use bookmarks for important websites",
		},
	},
}

// Topics returns the catalogue in display order
func Topics() []models.ScamTopic {
	out := make([]models.ScamTopic, len(topics))
	copy(out, topics)
	return out
}

// Topic looks up a single topic by id
func Topic(id string) (*models.ScamTopic, error) {
	for i := range topics {
		if topics[i].ID == id {
			t := topics[i]
			return &t, nil
		}
	}
	return nil, ErrTopicNotFound
}
