package detection

import "strings"

// GrammarFlags returns the red-flag phrases found in the lowercase text, in
// list order. It returns nil, not an empty slice, when nothing matched.
func GrammarFlags(normalized string, redFlags []string) []string {
	var found []string
	for _, flag := range redFlags {
		if strings.Contains(normalized, flag) {
			found = append(found, flag)
		}
	}
	return found
}
