package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/infrastructure/database"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// newTestDB starts a throwaway Postgres and applies the migrations
func newTestDB(t *testing.T) *database.PostgresDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("scamguard"),
		postgres.WithUsername("scamguard"),
		postgres.WithPassword("scamguard"),
		postgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if container != nil {
			assert.NoError(t, container.Terminate(context.Background()))
		}
	})
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(ctx, dsn, database.PoolOptions{}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestRepositories(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db.Pool())
	ctx := context.Background()

	t.Run("audit insert is idempotent", func(t *testing.T) {
		audit := &models.AnalysisAudit{
			ID:             uuid.New(),
			Channel:        models.ChannelSMS,
			Risk:           models.RiskHigh,
			PatternScore:   16,
			PatternCount:   7,
			UrgencyScore:   4,
			URLCount:       1,
			SuspiciousURLs: true,
			CreatedAt:      time.Now().UTC(),
		}
		require.NoError(t, repos.Audits.InsertAudit(ctx, audit))
		require.NoError(t, repos.Audits.InsertAudit(ctx, audit))

		var count int
		require.NoError(t, db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM analysis_audit WHERE id = $1`, audit.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("daily rollups upsert and list", func(t *testing.T) {
		require.NoError(t, repos.Verdicts.UpsertDaily(ctx, models.DailyVerdicts{Day: "2026-03-09", Low: 1}))
		require.NoError(t, repos.Verdicts.UpsertDaily(ctx, models.DailyVerdicts{Day: "2026-03-09", Low: 5, High: 2}))
		require.NoError(t, repos.Verdicts.UpsertDaily(ctx, models.DailyVerdicts{Day: "2026-03-10", Medium: 3}))
		require.NoError(t, repos.Verdicts.UpsertDaily(ctx, models.DailyVerdicts{Day: "2026-02-01", High: 9}))

		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		rows, err := repos.Verdicts.ListDaily(ctx, from, to)
		require.NoError(t, err)

		assert.Equal(t, []models.DailyVerdicts{
			{Day: "2026-03-09", Low: 5, High: 2},
			{Day: "2026-03-10", Medium: 3},
		}, rows)
	})

	t.Run("invalid day rejected", func(t *testing.T) {
		assert.Error(t, repos.Verdicts.UpsertDaily(ctx, models.DailyVerdicts{Day: "yesterday"}))
	})
}
