package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// StatsRefresher triggers recomputation of a user's current-month aggregate.
// Refresh failures are logged, never surfaced: aggregates are derived data
// and must not fail the write that triggered them.
type StatsRefresher interface {
	UpdateMonthlyStats(ctx context.Context, userID uuid.UUID) error
}

// ApplicationService provides application record operations. All reads and
// mutations are scoped to the owning user at the store level.
type ApplicationService struct {
	applications store.ApplicationStore
	stats        StatsRefresher
	logger       *slog.Logger
}

// NewApplicationService creates a new ApplicationService. The stats
// refresher may be nil, in which case aggregate refresh is skipped.
func NewApplicationService(
	applications store.ApplicationStore,
	stats StatsRefresher,
	log *slog.Logger,
) *ApplicationService {
	if log == nil {
		log = slog.Default()
	}
	return &ApplicationService{
		applications: applications,
		stats:        stats,
		logger:       log.With(slog.String("component", "application_service")),
	}
}

// CreateApplication validates and persists a new application, then refreshes
// the owner's monthly aggregate.
func (s *ApplicationService) CreateApplication(ctx context.Context, app *domain.Application) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := app.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.applications.Create(ctx, app); err != nil {
		log.Error("failed to create application",
			slog.String("error", err.Error()),
			slog.String("user_id", app.UserID.String()))
		return NewServiceError("application", "create", "failed to save application", err)
	}

	s.refreshStats(ctx, app.UserID)

	log.Info("created application",
		slog.String("application_id", app.ID.String()),
		slog.String("company", app.Company))
	return nil
}

// GetApplication retrieves an application owned by the given user.
func (s *ApplicationService) GetApplication(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Application, error) {
	app, err := s.applications.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications retrieves the user's applications matching the filters.
func (s *ApplicationService) ListApplications(
	ctx context.Context,
	userID uuid.UUID,
	filters store.ApplicationFilters,
) ([]*domain.Application, error) {
	apps, err := s.applications.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, NewServiceError("application", "list", "failed to list applications", err)
	}
	return apps, nil
}

// UpdateApplication overwrites the mutable descriptive fields of an owned
// application. Status is not touched here; use UpdateStatus.
func (s *ApplicationService) UpdateApplication(ctx context.Context, app *domain.Application) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := app.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.applications.UpdateFields(ctx, app); err != nil {
		return err
	}

	log.Debug("updated application fields", slog.String("application_id", app.ID.String()))
	return nil
}

// UpdateStatus sets a new status on an owned application. The status write,
// last_updated refresh, and the single appended timeline entry happen in one
// store statement; the timeline only ever grows through here and through
// creation. Returns the updated application.
func (s *ApplicationService) UpdateStatus(
	ctx context.Context,
	id, userID uuid.UUID,
	status domain.ApplicationStatus,
) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := domain.NewStatusChangeEntry(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.applications.UpdateStatus(ctx, id, userID, status, entry); err != nil {
		return nil, err
	}

	s.refreshStats(ctx, userID)

	log.Info("updated application status",
		slog.String("application_id", id.String()),
		slog.String("status", string(status)))

	return s.applications.FindOwned(ctx, id, userID)
}

// DeleteApplication removes an owned application and refreshes the owner's
// monthly aggregate.
func (s *ApplicationService) DeleteApplication(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.applications.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.refreshStats(ctx, userID)

	log.Info("deleted application", slog.String("application_id", id.String()))
	return nil
}

func (s *ApplicationService) refreshStats(ctx context.Context, userID uuid.UUID) {
	if s.stats == nil {
		return
	}
	if err := s.stats.UpdateMonthlyStats(ctx, userID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to refresh monthly stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
	}
}
