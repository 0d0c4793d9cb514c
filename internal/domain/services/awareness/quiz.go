package awareness

import (
	"errors"
	"fmt"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// ErrAnswerCount is returned when a submission does not answer every question exactly once
var ErrAnswerCount = errors.New("answer count does not match question count")

// Rating thresholds, in percent
const (
	excellentThreshold = 80
	goodThreshold      = 60
)

var questions = []models.QuizQuestion{
	{
		ID:       1,
		Question: "You receive a text saying 'Your bank account will be frozen in 24 hours. Click this link to verify: http://bank-verify.com'. What should you do?",
		Options: []string{
			"Click the link immediately to save my account",
			"Call my bank directly using the number on my bank card",
			"Forward the message to friends to warn them",
			"Reply to ask for more information",
		},
		Correct:     1,
		Explanation: "Always contact your bank directly using official contact information. Legitimate banks will never ask you to verify accounts through text message links.",
	},
	{
		ID:       2,
		Question: "You get a call saying 'Congratulations! You've won $50,000 in our lottery. To claim your prize, please pay a $500 processing fee.' This is:",
		Options: []string{
			"A legitimate lottery - I should pay the fee",
			"Suspicious, but I'll pay since the prize is large",
			"Definitely a scam - legitimate lotteries don't charge fees",
			"Real, but I should negotiate a lower fee",
		},
		Correct:     2,
		Explanation: "This is a classic lottery scam. You should never pay fees to claim prizes, especially for lotteries you didn't enter. Legitimate lotteries deduct fees from winnings, never charge upfront.",
	},
	{
		ID:       3,
		Question: "An email claims to be from 'Amazon' but the sender address is 'amazon-security@am4z0n.net'. This is:",
		Options: []string{
			"Legitimate - Amazon uses various email addresses",
			"A phishing attempt - the domain is fake",
			"Probably real since it mentions Amazon",
			"Safe to respond to for clarification",
		},
		Correct:     1,
		Explanation: "This is a phishing email. The domain 'am4z0n.net' is not Amazon's real domain (amazon.com). Scammers often use similar-looking domains to trick users.",
	},
	{
		ID:       4,
		Question: "What is the safest way to check if a suspicious email about your account is real?",
		Options: []string{
			"Click the links in the email to investigate",
			"Reply to the email asking if it's legitimate",
			"Log into your account directly through the official website",
			"Forward it to friends to see what they think",
		},
		Correct:     2,
		Explanation: "Always log into your accounts directly through official websites or apps, not through links in emails. This way you can check for real alerts or messages safely.",
	},
	{
		ID:       5,
		Question: "A caller says they're from Microsoft and your computer is infected. They want to help you fix it remotely. You should:",
		Options: []string{
			"Let them help since Microsoft made my computer",
			"Ask them to call back later when it's more convenient",
			"Hang up immediately - this is a tech support scam",
			"Give them access but watch what they do",
		},
		Correct:     2,
		Explanation: "Microsoft (and other tech companies) never call customers unsolicited about computer problems. This is a common tech support scam designed to steal money or install malware.",
	},
}

// Questions returns the quiz. The answer key is not serialized.
func Questions() []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(questions))
	copy(out, questions)
	return out
}

// Grade scores one answer per question, in question order. An answer outside
// the option range is graded as wrong.
func Grade(answers []int) (*models.QuizResult, error) {
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), len(questions))
	}

	result := &models.QuizResult{
		Total:   len(questions),
		Answers: make([]models.QuizAnswerFeedback, 0, len(questions)),
	}

	for i, q := range questions {
		correct := answers[i] == q.Correct
		if correct {
			result.Score++
		}
		result.Answers = append(result.Answers, models.QuizAnswerFeedback{
			QuestionID:    q.ID,
			Selected:      answers[i],
			CorrectOption: q.Correct,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}

	result.Percentage = float64(result.Score) / float64(result.Total) * 100
	result.Rating, result.Message = rate(result.Percentage)

	return result, nil
}

func rate(percentage float64) (string, string) {
	switch {
	case percentage >= excellentThreshold:
		return "excellent", "Excellent! You have strong scam awareness."
	case percentage >= goodThreshold:
		return "good", "Good job! Review the explanations to improve further."
	default:
		return "keep_learning", "Keep learning! Understanding these concepts will protect you better."
	}
}
