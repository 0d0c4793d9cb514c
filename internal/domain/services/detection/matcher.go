package detection

import (
	"strings"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// PatternMatch is the pattern matcher output
type PatternMatch struct {
	// Keywords holds every matched keyword once, in category-then-rule
	// declaration order of first discovery.
	Keywords          []string
	Score             int
	FinancialPressure bool
}

// MatchPatterns scans lowercase text against every rule. Matching is plain
// substring containment, so partial-word hits ("won" in "wonderful") count.
// Each rule adds weight × number of its keywords found.
func MatchPatterns(normalized string, categories []models.RuleCategory) PatternMatch {
	match := PatternMatch{Keywords: []string{}}
	seen := make(map[string]struct{})

	for _, category := range categories {
		for _, rule := range category.Rules {
			found := 0
			for _, keyword := range rule.Keywords {
				if !strings.Contains(normalized, keyword) {
					continue
				}
				found++
				if _, dup := seen[keyword]; !dup {
					seen[keyword] = struct{}{}
					match.Keywords = append(match.Keywords, keyword)
				}
			}
			if found == 0 {
				continue
			}

			match.Score += rule.Weight * found
			if category.Name == models.CategoryFinancial {
				match.FinancialPressure = true
			}
		}
	}

	return match
}
