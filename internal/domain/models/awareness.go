package models

// ScamTopic is an educational entry describing one family of scams
type ScamTopic struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Warning     string   `json:"warning"`
	Examples    []string `json:"examples"`
	RedFlags    []string `json:"red_flags"`
	Protection  []string `json:"protection"`
}

// QuizQuestion is a multiple-choice awareness question. Correct and
// Explanation are withheld from the public view.
type QuizQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"-"`
	Explanation string   `json:"-"`
}

// QuizAnswerFeedback grades a single answer
type QuizAnswerFeedback struct {
	QuestionID    int    `json:"question_id"`
	Selected      int    `json:"selected"`
	CorrectOption int    `json:"correct_option"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// QuizResult is the graded outcome of a quiz submission
type QuizResult struct {
	Score      int                  `json:"score"`
	Total      int                  `json:"total"`
	Percentage float64              `json:"percentage"`
	Rating     string               `json:"rating"`
	Message    string               `json:"message"`
	Answers    []QuizAnswerFeedback `json:"answers"`
}
