package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services/detection"
	"github.com/krxsh13/ScamGuard/internal/extract"
	"github.com/krxsh13/ScamGuard/internal/metrics"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

var (
	ErrEmptyText     = errors.New("text is required")
	ErrTextTooLarge  = errors.New("text exceeds maximum size")
	ErrEmptyBatch    = errors.New("batch contains no items")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// VerdictCounter keeps per-day verdict counters
type VerdictCounter interface {
	IncrVerdict(ctx context.Context, day time.Time, risk models.RiskLevel) error
}

// AuditRepository persists the metadata-only trace of an analysis
type AuditRepository interface {
	InsertAudit(ctx context.Context, audit *models.AnalysisAudit) error
}

// EventPublisher fans analysis events out to subscribers
type EventPublisher interface {
	PublishAnalysis(ctx context.Context, event *models.AnalysisEvent) error
}

// AnalysisConfig bounds what the service accepts
type AnalysisConfig struct {
	MaxTextBytes      int
	MaxBatchSize      int
	BatchConcurrency  int
	SideEffectTimeout time.Duration
}

// DefaultAnalysisConfig returns the limits used when none are configured
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaxTextBytes:      64 * 1024,
		MaxBatchSize:      100,
		BatchConcurrency:  5,
		SideEffectTimeout: 2 * time.Second,
	}
}

// AnalysisService runs the engine and records verdict metadata. Counter,
// audit and event sinks are optional and best effort: a failing sink is
// logged and never fails the analysis.
type AnalysisService struct {
	engine    *detection.Engine
	cfg       AnalysisConfig
	counter   VerdictCounter
	audits    AuditRepository
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time

	processed [models.RiskHigh + 1]atomic.Int64
}

// AnalysisDependencies are the optional collaborators of AnalysisService
type AnalysisDependencies struct {
	Counter   VerdictCounter
	Audits    AuditRepository
	Publisher EventPublisher
}

// NewAnalysisService creates a new AnalysisService. A nil engine selects the
// default rule tables.
func NewAnalysisService(engine *detection.Engine, cfg AnalysisConfig, deps AnalysisDependencies, log *logger.Logger) *AnalysisService {
	if engine == nil {
		engine = detection.Default()
	}
	def := DefaultAnalysisConfig()
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = def.MaxBatchSize
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = def.BatchConcurrency
	}
	if cfg.SideEffectTimeout <= 0 {
		cfg.SideEffectTimeout = def.SideEffectTimeout
	}

	return &AnalysisService{
		engine:    engine,
		cfg:       cfg,
		counter:   deps.Counter,
		audits:    deps.Audits,
		publisher: deps.Publisher,
		logger:    log.WithComponent("analysis"),
		now:       time.Now,
	}
}

// Engine returns the engine the service scores with
func (s *AnalysisService) Engine() *detection.Engine {
	return s.engine
}

// Analyze scores a single text
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRecord, error) {
	if err := s.validate(req.Text); err != nil {
		return nil, err
	}

	start := s.now()
	result := s.engine.Analyze(req.Text)

	rec := &models.AnalysisRecord{
		ID:         uuid.New(),
		Channel:    models.ParseChannel(string(req.Channel)),
		AnalyzedAt: start.UTC(),
		Duration:   s.now().Sub(start),
		Result:     result,
	}

	s.record(ctx, rec)
	return rec, nil
}

// AnalyzeBatch scores many texts with bounded concurrency. Results keep input
// order; an invalid item fails alone.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, reqs []models.AnalysisRequest) (*models.BatchResult, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(reqs), s.cfg.MaxBatchSize)
	}

	batch := &models.BatchResult{
		Results:    make([]models.BatchItemResult, len(reqs)),
		TotalCount: len(reqs),
		ByRisk:     make(map[string]int, len(models.RiskLevels)),
		AnalyzedAt: s.now().UTC(),
	}
	for _, r := range models.RiskLevels {
		batch.ByRisk[r.String()] = 0
	}

	sem := make(chan struct{}, s.cfg.BatchConcurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(idx int, r models.AnalysisRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item := models.BatchItemResult{Index: idx}
			if err := ctx.Err(); err != nil {
				item.Error = err.Error()
				batch.Results[idx] = item
				return
			}

			rec, err := s.Analyze(ctx, r)
			if err != nil {
				s.logger.Debug().Err(err).Int("index", idx).Msg("batch item rejected")
				item.Error = err.Error()
			} else {
				item.Record = rec
			}
			batch.Results[idx] = item
		}(i, req)
	}

	wg.Wait()

	for _, item := range batch.Results {
		if item.Record == nil {
			batch.Failed++
			continue
		}
		batch.ByRisk[item.Record.Result.Risk.String()]++
	}

	metrics.BatchSize.Observe(float64(len(reqs)))
	s.logger.Info().
		Int("total", batch.TotalCount).
		Int("failed", batch.Failed).
		Int("high", batch.ByRisk[models.RiskHigh.String()]).
		Msg("batch analyzed")

	return batch, nil
}

// AnalyzeDocument extracts the text of an uploaded document and scores it
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, data []byte, contentType, fileName string) (*models.AnalysisRecord, error) {
	text, err := extract.Text(ctx, data, contentType, fileName)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, models.AnalysisRequest{Text: text, Channel: models.ChannelDocument})
}

// Processed returns the verdicts produced by this process since start
func (s *AnalysisService) Processed() models.DailyVerdicts {
	var d models.DailyVerdicts
	for _, r := range models.RiskLevels {
		d.Add(r, s.processed[r].Load())
	}
	return d
}

func (s *AnalysisService) validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if s.cfg.MaxTextBytes > 0 && len(text) > s.cfg.MaxTextBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTextTooLarge, len(text), s.cfg.MaxTextBytes)
	}
	return nil
}

// record fans verdict metadata out to the optional sinks. The submitted text
// never leaves this function's caller.
func (s *AnalysisService) record(ctx context.Context, rec *models.AnalysisRecord) {
	s.processed[rec.Result.Risk].Add(1)
	metrics.ObserveAnalysis(rec)

	log := s.logger.WithAnalysisID(rec.ID.String())
	log.Debug().
		Str("channel", string(rec.Channel)).
		Str("risk", rec.Result.Risk.String()).
		Int("pattern_score", rec.Result.PatternScore).
		Int("urgency_score", rec.Result.UrgencyScore).
		Dur("duration", rec.Duration).
		Msg("text analyzed")

	if s.counter == nil && s.audits == nil && s.publisher == nil {
		return
	}

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SideEffectTimeout)
	defer cancel()

	if s.counter != nil {
		if err := s.counter.IncrVerdict(sideCtx, rec.AnalyzedAt, rec.Result.Risk); err != nil {
			s.sideEffectFailed(log, "counter", err)
		}
	}
	if s.audits != nil {
		if err := s.audits.InsertAudit(sideCtx, models.NewAnalysisAudit(rec)); err != nil {
			s.sideEffectFailed(log, "audit", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishAnalysis(sideCtx, models.NewAnalysisEvent(rec)); err != nil {
			s.sideEffectFailed(log, "event", err)
		}
	}
}

func (s *AnalysisService) sideEffectFailed(log *logger.Logger, sink string, err error) {
	metrics.SideEffectFailures.WithLabelValues(sink).Inc()
	log.Warn().Err(err).
		Str("sink", sink).
		Msg("failed to record analysis")
}
