package models

import "time"

// DayLayout is the date format used for per-day stats keys and rows
const DayLayout = "2006-01-02"

// DailyVerdicts counts verdicts for one UTC day
type DailyVerdicts struct {
	Day    string `json:"day"`
	Low    int64  `json:"low"`
	Medium int64  `json:"medium"`
	High   int64  `json:"high"`
}

// Total returns the number of analyses for the day
func (d DailyVerdicts) Total() int64 {
	return d.Low + d.Medium + d.High
}

// Add increments the counter matching risk
func (d *DailyVerdicts) Add(risk RiskLevel, n int64) {
	switch risk {
	case RiskLow:
		d.Low += n
	case RiskMedium:
		d.Medium += n
	case RiskHigh:
		d.High += n
	}
}

// StatsSummary is returned by the stats endpoint
type StatsSummary struct {
	Days        []DailyVerdicts `json:"days"`
	Totals      DailyVerdicts   `json:"totals"`
	SinceStart  DailyVerdicts   `json:"since_start"`
	Source      string          `json:"source"`
	GeneratedAt time.Time       `json:"generated_at"`
}
