package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// PostgresMonthlyStatsStore implements the store.MonthlyStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMonthlyStatsStore struct {
	db store.DBTX
}

// NewPostgresMonthlyStatsStore creates a new PostgreSQL implementation of the
// MonthlyStatsStore interface.
func NewPostgresMonthlyStatsStore(db store.DBTX) *PostgresMonthlyStatsStore {
	return &PostgresMonthlyStatsStore{db: db}
}

// Ensure PostgresMonthlyStatsStore implements store.MonthlyStatsStore interface
var _ store.MonthlyStatsStore = (*PostgresMonthlyStatsStore)(nil)

// Upsert implements store.MonthlyStatsStore.Upsert. Insert and overwrite are
// one statement, so concurrent aggregation passes for the same (user, month)
// key resolve last-writer-wins with no partially mixed row.
func (s *PostgresMonthlyStatsStore) Upsert(ctx context.Context, stats *domain.MonthlyStats) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO application_stats (
			user_id, month, total_applications, applied_count,
			screening_count, interview_count, offer_count, rejected_count,
			avg_response_days, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, month) DO UPDATE SET
			total_applications = EXCLUDED.total_applications,
			applied_count = EXCLUDED.applied_count,
			screening_count = EXCLUDED.screening_count,
			interview_count = EXCLUDED.interview_count,
			offer_count = EXCLUDED.offer_count,
			rejected_count = EXCLUDED.rejected_count,
			avg_response_days = EXCLUDED.avg_response_days,
			created_at = EXCLUDED.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		stats.UserID,
		stats.Month,
		stats.TotalApplications,
		stats.AppliedCount,
		stats.ScreeningCount,
		stats.InterviewCount,
		stats.OfferCount,
		stats.RejectedCount,
		stats.AvgResponseDays,
		stats.CreatedAt,
	)
	if err != nil {
		log.Error("failed to upsert monthly stats",
			"user_id", stats.UserID,
			"month", stats.Month,
			"error", err)
		return MapError(err)
	}

	return nil
}

// ListByUser implements store.MonthlyStatsStore.ListByUser
func (s *PostgresMonthlyStatsStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MonthlyStats, error) {
	query := `
		SELECT user_id, month, total_applications, applied_count,
			screening_count, interview_count, offer_count, rejected_count,
			avg_response_days, created_at
		FROM application_stats
		WHERE user_id = $1
		ORDER BY month DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var results []*domain.MonthlyStats
	for rows.Next() {
		var stats domain.MonthlyStats
		if err := rows.Scan(
			&stats.UserID,
			&stats.Month,
			&stats.TotalApplications,
			&stats.AppliedCount,
			&stats.ScreeningCount,
			&stats.InterviewCount,
			&stats.OfferCount,
			&stats.RejectedCount,
			&stats.AvgResponseDays,
			&stats.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly stats row: %w", err)
		}
		stats.Month = stats.Month.UTC()
		stats.CreatedAt = stats.CreatedAt.UTC()
		results = append(results, &stats)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return results, nil
}
