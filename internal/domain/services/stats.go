package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/metrics"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// ErrRollupUnavailable is returned when rollups are requested without both
// the counter store and the rollup repository configured
var ErrRollupUnavailable = errors.New("rollup requires redis and postgres")

const (
	DefaultStatsDays = 7
	MaxStatsDays     = 90
)

// Stats sources reported in a summary
const (
	StatsSourceRedis    = "redis"
	StatsSourcePostgres = "postgres"
	StatsSourceMixed    = "redis+postgres"
	StatsSourceNone     = "none"
)

// VerdictReader reads per-day verdict counters
type VerdictReader interface {
	DailyVerdicts(ctx context.Context, day time.Time) (models.DailyVerdicts, error)
}

// RollupRepository stores durable per-day verdict totals
type RollupRepository interface {
	UpsertDaily(ctx context.Context, d models.DailyVerdicts) error
	ListDaily(ctx context.Context, from, to time.Time) ([]models.DailyVerdicts, error)
}

// ProcessCounter reports verdicts produced by the running process
type ProcessCounter interface {
	Processed() models.DailyVerdicts
}

// StatsService reports verdict volumes. Nothing it reads or writes holds
// submitted text.
type StatsService struct {
	counters  VerdictReader
	rollups   RollupRepository
	process   ProcessCounter
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewStatsService creates a new StatsService. Any collaborator may be nil.
func NewStatsService(counters VerdictReader, rollups RollupRepository, process ProcessCounter, publisher EventPublisher, log *logger.Logger) *StatsService {
	return &StatsService{
		counters:  counters,
		rollups:   rollups,
		process:   process,
		publisher: publisher,
		logger:    log.WithComponent("stats"),
		now:       time.Now,
	}
}

// Summary returns per-day verdict counts for the last n days, oldest first.
// A day with live Redis counts uses them; any other day is filled from the
// Postgres rollups, which outlive the counter TTL.
func (s *StatsService) Summary(ctx context.Context, n int) (*models.StatsSummary, error) {
	if n <= 0 {
		n = DefaultStatsDays
	}
	if n > MaxStatsDays {
		n = MaxStatsDays
	}

	today := truncateDay(s.now())
	days := make([]time.Time, n)
	for i := range days {
		days[i] = today.AddDate(0, 0, i-n+1)
	}

	summary := &models.StatsSummary{
		Days:        emptyDays(days),
		GeneratedAt: s.now().UTC(),
	}
	filled := make([]bool, n)

	live := s.fromCounters(ctx, days, summary.Days, filled)

	stored := false
	if slices.Contains(filled, false) {
		found, err := s.fromRollups(ctx, days, summary.Days, filled)
		switch {
		case err == nil:
			stored = found > 0 || !live
		case !errors.Is(err, ErrRollupUnavailable):
			s.logger.Warn().Err(err).Msg("failed to read verdict rollups")
		}
	}

	switch {
	case live && stored:
		summary.Source = StatsSourceMixed
	case live:
		summary.Source = StatsSourceRedis
	case stored:
		summary.Source = StatsSourcePostgres
	default:
		summary.Source = StatsSourceNone
	}

	for _, d := range summary.Days {
		summary.Totals.Low += d.Low
		summary.Totals.Medium += d.Medium
		summary.Totals.High += d.High
	}
	if s.process != nil {
		summary.SinceStart = s.process.Processed()
	}

	return summary, nil
}

// Rollup copies one day's live counters into the durable store
func (s *StatsService) Rollup(ctx context.Context, day time.Time) (*models.DailyVerdicts, error) {
	if s.counters == nil || s.rollups == nil {
		return nil, ErrRollupUnavailable
	}

	d, err := s.counters.DailyVerdicts(ctx, truncateDay(day))
	if err != nil {
		metrics.RollupsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("read counters for %s: %w", day.Format(models.DayLayout), err)
	}
	if err := s.rollups.UpsertDaily(ctx, d); err != nil {
		metrics.RollupsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("upsert rollup for %s: %w", d.Day, err)
	}

	metrics.RollupsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("day", d.Day).
		Int64("total", d.Total()).
		Msg("verdict counters rolled up")

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysis(ctx, models.NewRollupEvent(d, s.now())); err != nil {
			s.logger.Warn().Err(err).Str("day", d.Day).Msg("failed to publish rollup event")
		}
	}

	return &d, nil
}

// fromCounters copies every day with a non-zero live count into rows. It
// reports whether Redis was readable; on error rows are left untouched.
func (s *StatsService) fromCounters(ctx context.Context, days []time.Time, rows []models.DailyVerdicts, filled []bool) bool {
	if s.counters == nil {
		return false
	}
	live := make([]models.DailyVerdicts, len(days))
	for i, day := range days {
		d, err := s.counters.DailyVerdicts(ctx, day)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read verdict counters, falling back to rollups")
			return false
		}
		live[i] = d
	}
	for i, d := range live {
		if d.Total() > 0 {
			rows[i], filled[i] = d, true
		}
	}
	return true
}

// fromRollups fills the days not yet filled from stored rollups and returns
// how many it supplied
func (s *StatsService) fromRollups(ctx context.Context, days []time.Time, rows []models.DailyVerdicts, filled []bool) (int, error) {
	if s.rollups == nil {
		return 0, ErrRollupUnavailable
	}
	stored, err := s.rollups.ListDaily(ctx, days[0], days[len(days)-1])
	if err != nil {
		return 0, err
	}

	byDay := make(map[string]models.DailyVerdicts, len(stored))
	for _, d := range stored {
		byDay[d.Day] = d
	}

	found := 0
	for i := range rows {
		if filled[i] {
			continue
		}
		if d, ok := byDay[rows[i].Day]; ok {
			rows[i], filled[i] = d, true
			found++
		}
	}
	return found, nil
}

func emptyDays(days []time.Time) []models.DailyVerdicts {
	rows := make([]models.DailyVerdicts, len(days))
	for i, day := range days {
		rows[i].Day = day.Format(models.DayLayout)
	}
	return rows
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
