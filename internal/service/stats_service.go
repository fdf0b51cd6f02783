package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// StatsService recomputes and serves per-user monthly aggregates. Every
// recomputation is a full pass over the month's applications followed by one
// atomic upsert, so repeated and concurrent calls for the same user are safe:
// the row is a deterministic function of record state at call time.
type StatsService struct {
	applications store.ApplicationStore
	stats        store.MonthlyStatsStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	applications store.ApplicationStore,
	stats store.MonthlyStatsStore,
	log *slog.Logger,
) *StatsService {
	if log == nil {
		log = slog.Default()
	}
	return &StatsService{
		applications: applications,
		stats:        stats,
		logger:       log.With(slog.String("component", "stats_service")),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// UpdateMonthlyStats recomputes the current-month row for the user and
// upserts it. A user with no applications this month is a no-op: no row is
// written or cleared.
func (s *StatsService) UpdateMonthlyStats(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	monthStart := domain.MonthStart(now)

	apps, err := s.applications.ListByUserSince(ctx, userID, monthStart)
	if err != nil {
		return NewServiceError("stats", "update_monthly", "failed to load applications", err)
	}

	if len(apps) == 0 {
		log.Debug("no applications this month, skipping stats update",
			slog.String("user_id", userID.String()))
		return nil
	}

	row := ComputeMonthlyStats(userID, monthStart, apps, now)

	if err := s.stats.Upsert(ctx, row); err != nil {
		return NewServiceError("stats", "update_monthly", "failed to upsert stats row", err)
	}

	log.Debug("updated monthly stats",
		slog.String("user_id", userID.String()),
		slog.Time("month", monthStart),
		slog.Int("total", row.TotalApplications))
	return nil
}

// GetUserStats returns all aggregate rows for the user, newest month first.
func (s *StatsService) GetUserStats(ctx context.Context, userID uuid.UUID) ([]*domain.MonthlyStats, error) {
	rows, err := s.stats.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("stats", "get_user_stats", "failed to list stats rows", err)
	}
	return rows, nil
}

// ComputeMonthlyStats derives one aggregate row from the given applications.
// It is a pure function of its inputs: per-status counts over all
// applications, and avg response days as the mean of
// (last_updated - applied_date) over applications that have moved past
// "applied" - zero when none have.
func ComputeMonthlyStats(
	userID uuid.UUID,
	month time.Time,
	apps []*domain.Application,
	now time.Time,
) *domain.MonthlyStats {
	row := &domain.MonthlyStats{
		UserID:            userID,
		Month:             month,
		TotalApplications: len(apps),
		CreatedAt:         now,
	}

	var respondedDays float64
	var respondedCount int

	for _, app := range apps {
		switch app.Status {
		case domain.ApplicationStatusApplied:
			row.AppliedCount++
		case domain.ApplicationStatusScreening:
			row.ScreeningCount++
		case domain.ApplicationStatusInterview:
			row.InterviewCount++
		case domain.ApplicationStatusOffer:
			row.OfferCount++
		case domain.ApplicationStatusRejected:
			row.RejectedCount++
		}

		if app.Status != domain.ApplicationStatusApplied {
			respondedDays += app.LastUpdated.Sub(app.AppliedDate).Hours() / 24
			respondedCount++
		}
	}

	if respondedCount > 0 {
		row.AvgResponseDays = respondedDays / float64(respondedCount)
	}

	return row
}
