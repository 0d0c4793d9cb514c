package streaming

import (
	"fmt"
	"slices"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

// DefaultSubjectPrefix roots every subject published by ScamGuard
const DefaultSubjectPrefix = "scamguard"

// SubjectFor returns the NATS subject for an event:
// <prefix>.analysis.completed.<risk>
func SubjectFor(prefix string, event *models.AnalysisEvent) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	switch event.Type {
	case models.EventTypeAnalysisCompleted:
		return fmt.Sprintf("%s.analysis.completed.%s", prefix, event.Risk)
	default:
		return fmt.Sprintf("%s.analysis.%s", prefix, event.Type)
	}
}

// SubjectWildcard matches every analysis subject under prefix
func SubjectWildcard(prefix string) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return prefix + ".analysis.>"
}

// Subscription filters the events a stream client receives
type Subscription struct {
	// MinRisk drops events below the given verdict (nil = all)
	MinRisk *models.RiskLevel `json:"min_risk,omitempty"`

	// Filter by source channel (empty = all)
	Channels []models.Channel `json:"channels,omitempty"`

	// Only events with suspicious links
	SuspiciousURLsOnly bool `json:"suspicious_urls_only,omitempty"`
}

// Matches checks if an event passes the subscription filters. Rollup
// events have no verdict and are always delivered.
func (s *Subscription) Matches(event *models.AnalysisEvent) bool {
	if s == nil || event.Type == models.EventTypeStatsRolledUp {
		return true
	}
	if s.MinRisk != nil && event.Risk < *s.MinRisk {
		return false
	}
	if len(s.Channels) > 0 && !slices.Contains(s.Channels, event.Channel) {
		return false
	}
	if s.SuspiciousURLsOnly && !event.SuspiciousURLs {
		return false
	}
	return true
}
