package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// MonthlyStatsStore defines the interface for monthly aggregate persistence.
// Rows are keyed by (user, month); the aggregator always writes whole rows.
type MonthlyStatsStore interface {
	// Upsert inserts the row or, on (user_id, month) conflict, overwrites
	// every non-key column in a single atomic statement. Concurrent upserts
	// for the same key resolve last-writer-wins.
	Upsert(ctx context.Context, stats *domain.MonthlyStats) error

	// ListByUser retrieves all aggregate rows for the user,
	// ordered by month descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MonthlyStats, error)
}
