package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// DefaultRollupSchedule runs the rollup shortly after midnight UTC
const DefaultRollupSchedule = "0 5 0 * * *"

// Roller rolls one day of verdict counters into durable storage
type Roller interface {
	Rollup(ctx context.Context, day time.Time) error
}

// RollerFunc adapts a function to Roller
type RollerFunc func(ctx context.Context, day time.Time) error

// Rollup calls f(ctx, day)
func (f RollerFunc) Rollup(ctx context.Context, day time.Time) error {
	return f(ctx, day)
}

// Scheduler runs the daily verdict rollup on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	roller  Roller
	spec    string
	timeout time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

// NewScheduler creates a new Scheduler. Specs use the six-field format with
// seconds; an empty spec selects DefaultRollupSchedule.
func NewScheduler(roller Roller, spec string, log *logger.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultRollupSchedule
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		roller:  roller,
		spec:    spec,
		timeout: time.Minute,
		logger:  log.WithComponent("scheduler"),
		now:     time.Now,
	}
}

// ValidateSchedule checks a six-field cron spec
func ValidateSchedule(spec string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Start registers the rollup job and starts the cron runner
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("schedule rollup: %w", err)
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.spec).Msg("scheduler started")
	return nil
}

// RunOnce rolls up yesterday's counters
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	yesterday := s.now().UTC().AddDate(0, 0, -1)
	if err := s.roller.Rollup(ctx, yesterday); err != nil {
		s.logger.Error().Err(err).Msg("scheduled rollup failed")
	}
}

// Stop stops the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}
