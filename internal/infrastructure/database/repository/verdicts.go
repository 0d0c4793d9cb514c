package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/infrastructure/database"
)

// VerdictRepository stores rolled-up per-day verdict totals
type VerdictRepository struct {
	db database.DBTX
}

// NewVerdictRepository creates a new verdict repository
func NewVerdictRepository(db database.DBTX) *VerdictRepository {
	return &VerdictRepository{db: db}
}

// UpsertDaily writes a day's totals, replacing any earlier rollup of that day
func (r *VerdictRepository) UpsertDaily(ctx context.Context, d models.DailyVerdicts) error {
	day, err := time.Parse(models.DayLayout, d.Day)
	if err != nil {
		return fmt.Errorf("invalid rollup day %q: %w", d.Day, err)
	}

	query := `
		INSERT INTO verdict_daily (day, low, medium, high, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (day) DO UPDATE SET
			low = EXCLUDED.low,
			medium = EXCLUDED.medium,
			high = EXCLUDED.high,
			updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, day, d.Low, d.Medium, d.High); err != nil {
		return fmt.Errorf("failed to upsert verdict rollup: %w", err)
	}
	return nil
}

// ListDaily returns stored rollups between from and to inclusive, oldest first
func (r *VerdictRepository) ListDaily(ctx context.Context, from, to time.Time) ([]models.DailyVerdicts, error) {
	query := `
		SELECT day, low, medium, high
		FROM verdict_daily
		WHERE day BETWEEN $1 AND $2
		ORDER BY day`

	rows, err := r.db.Query(ctx, query, from.UTC().Truncate(24*time.Hour), to.UTC().Truncate(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to list verdict rollups: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.DailyVerdicts, error) {
		var (
			day time.Time
			d   models.DailyVerdicts
		)
		if err := row.Scan(&day, &d.Low, &d.Medium, &d.High); err != nil {
			return d, err
		}
		d.Day = day.Format(models.DayLayout)
		return d, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan verdict rollups: %w", err)
	}
	return out, nil
}
