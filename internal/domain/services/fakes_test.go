package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

var errSinkDown = errors.New("sink down")

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]*models.DailyVerdicts
	fail   bool
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]*models.DailyVerdicts)}
}

func (f *fakeCounter) IncrVerdict(_ context.Context, day time.Time, risk models.RiskLevel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSinkDown
	}
	key := day.UTC().Format(models.DayLayout)
	d, ok := f.counts[key]
	if !ok {
		d = &models.DailyVerdicts{Day: key}
		f.counts[key] = d
	}
	d.Add(risk, 1)
	return nil
}

func (f *fakeCounter) DailyVerdicts(_ context.Context, day time.Time) (models.DailyVerdicts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.DailyVerdicts{}, errSinkDown
	}
	key := day.UTC().Format(models.DayLayout)
	if d, ok := f.counts[key]; ok {
		return *d, nil
	}
	return models.DailyVerdicts{Day: key}, nil
}

type fakeAudits struct {
	mu     sync.Mutex
	audits []*models.AnalysisAudit
	fail   bool
}

func (f *fakeAudits) InsertAudit(_ context.Context, a *models.AnalysisAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSinkDown
	}
	f.audits = append(f.audits, a)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.AnalysisEvent
}

func (f *fakePublisher) PublishAnalysis(_ context.Context, e *models.AnalysisEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

type fakeRollups struct {
	mu   sync.Mutex
	rows map[string]models.DailyVerdicts
	fail bool
}

func newFakeRollups() *fakeRollups {
	return &fakeRollups{rows: make(map[string]models.DailyVerdicts)}
}

func (f *fakeRollups) UpsertDaily(_ context.Context, d models.DailyVerdicts) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSinkDown
	}
	f.rows[d.Day] = d
	return nil
}

func (f *fakeRollups) ListDaily(_ context.Context, from, to time.Time) ([]models.DailyVerdicts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errSinkDown
	}
	lo, hi := from.Format(models.DayLayout), to.Format(models.DayLayout)
	var out []models.DailyVerdicts
	for day, d := range f.rows {
		if day >= lo && day <= hi {
			out = append(out, d)
		}
	}
	return out, nil
}
