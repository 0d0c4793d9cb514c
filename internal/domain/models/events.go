package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of analysis event
type EventType string

const (
	EventTypeAnalysisCompleted EventType = "analysis_completed"
	EventTypeStatsRolledUp     EventType = "stats_rolled_up"
)

// AnalysisEvent is published after every analysis and after each daily
// rollup. Like AnalysisAudit it carries verdict metadata only.
type AnalysisEvent struct {
	ID                string    `json:"id"`
	Type              EventType `json:"type"`
	Timestamp         time.Time `json:"timestamp"`
	AnalysisID        string    `json:"analysis_id"`
	Channel           Channel   `json:"channel"`
	Risk              RiskLevel `json:"risk"`
	PatternScore      int       `json:"pattern_score"`
	UrgencyScore      int       `json:"urgency_score"`
	FinancialPressure bool      `json:"financial_pressure"`
	SuspiciousURLs    bool      `json:"suspicious_urls"`
	// Rollup holds the stored totals of a stats_rolled_up event
	Rollup *DailyVerdicts `json:"rollup,omitempty"`
	// Origin identifies the publishing instance so relayed events are not
	// delivered twice
	Origin string `json:"origin,omitempty"`
}

// NewAnalysisEvent builds the completion event for a record
func NewAnalysisEvent(rec *AnalysisRecord) *AnalysisEvent {
	ev := &AnalysisEvent{
		ID:                uuid.New().String(),
		Type:              EventTypeAnalysisCompleted,
		Timestamp:         rec.AnalyzedAt,
		AnalysisID:        rec.ID.String(),
		Channel:           rec.Channel,
		Risk:              rec.Result.Risk,
		PatternScore:      rec.Result.PatternScore,
		UrgencyScore:      rec.Result.UrgencyScore,
		FinancialPressure: rec.Result.FinancialPressure,
	}
	if rec.Result.HasURLs() {
		ev.SuspiciousURLs = rec.Result.URLAnalysis.IsSuspicious
	}
	return ev
}

// NewRollupEvent builds the event announcing a stored daily rollup
func NewRollupEvent(d DailyVerdicts, at time.Time) *AnalysisEvent {
	return &AnalysisEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeStatsRolledUp,
		Timestamp: at.UTC(),
		Rollup:    &d,
	}
}
