package detection

import "strings"

// UrgencyScore counts the distinct vocabulary words present in the lowercase
// text. Repeats in the text do not add to the score.
func UrgencyScore(normalized string, vocabulary []string) int {
	score := 0
	seen := make(map[string]struct{}, len(vocabulary))
	for _, word := range vocabulary {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		if strings.Contains(normalized, word) {
			score++
		}
	}
	return score
}
