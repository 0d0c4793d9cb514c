package repository

import (
	"context"
	"fmt"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/infrastructure/database"
)

// AuditRepository persists analysis audit rows. Rows hold verdict metadata
// only; there is no column for submitted text.
type AuditRepository struct {
	db database.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db database.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertAudit stores one audit row. Re-inserting the same id is a no-op.
func (r *AuditRepository) InsertAudit(ctx context.Context, a *models.AnalysisAudit) error {
	query := `
		INSERT INTO analysis_audit (
			id, channel, risk, pattern_score, pattern_count, urgency_score,
			financial_pressure, url_count, suspicious_urls, grammar_count,
			duration_us, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		a.ID, string(a.Channel), a.Risk.String(), a.PatternScore, a.PatternCount, a.UrgencyScore,
		a.FinancialPressure, a.URLCount, a.SuspiciousURLs, a.GrammarCount,
		a.DurationMicros, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis audit: %w", err)
	}
	return nil
}
