package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/events"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// Mailer delivers follow-up reminder emails. Delivery failures are logged,
// not surfaced: the sweep's bookkeeping must not depend on SMTP health.
type Mailer interface {
	SendFollowUpReminder(ctx context.Context, to string, app *domain.Application) error
}

// FollowUpService runs the periodic sweep over stale applications: those
// still in applied or screening status past the configured age that haven't
// been reminded yet. Each hit is marked, recorded as a notification, mailed,
// and announced on the event bus. The mark is a conditional flip, so
// overlapping sweeps never double-notify.
type FollowUpService struct {
	applications  store.ApplicationStore
	notifications store.NotificationStore
	users         store.UserStore
	mailer        Mailer
	emitter       events.EventEmitter
	staleAfter    time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewFollowUpService creates a new FollowUpService. The mailer and emitter
// may be nil; marking and notification records still happen without them.
func NewFollowUpService(
	applications store.ApplicationStore,
	notifications store.NotificationStore,
	users store.UserStore,
	mailer Mailer,
	emitter events.EventEmitter,
	staleAfterDays int,
	log *slog.Logger,
) *FollowUpService {
	if log == nil {
		log = slog.Default()
	}
	if staleAfterDays <= 0 {
		staleAfterDays = 7
	}
	return &FollowUpService{
		applications:  applications,
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		emitter:       emitter,
		staleAfter:    time.Duration(staleAfterDays) * 24 * time.Hour,
		logger:        log.With(slog.String("component", "follow_up_service")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RunSweep processes every follow-up candidate once. It returns the number
// of reminders sent and the first persistent error encountered; per-item
// failures don't stop the sweep.
func (s *FollowUpService) RunSweep(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := s.now().Add(-s.staleAfter)

	candidates, err := s.applications.FindFollowUpCandidates(ctx, cutoff)
	if err != nil {
		return 0, NewServiceError("follow_up", "sweep", "failed to find candidates", err)
	}

	if len(candidates) == 0 {
		log.Debug("no follow-up candidates")
		return 0, nil
	}

	log.Info("running follow-up sweep",
		slog.Int("candidate_count", len(candidates)),
		slog.Time("cutoff", cutoff))

	sent := 0
	var firstErr error
	for _, app := range candidates {
		ok, err := s.remind(ctx, app)
		if err != nil {
			log.Error("failed to process follow-up candidate",
				slog.String("error", err.Error()),
				slog.String("application_id", app.ID.String()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			sent++
		}
	}

	log.Info("follow-up sweep finished", slog.Int("reminders_sent", sent))
	return sent, firstErr
}

// remind handles one candidate. Returns false with no error when another
// sweep got there first.
func (s *FollowUpService) remind(ctx context.Context, app *domain.Application) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	flipped, err := s.applications.MarkFollowUpSent(ctx, app.ID, app.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to mark follow-up sent: %w", err)
	}
	if !flipped {
		return false, nil
	}

	message := fmt.Sprintf("Time to follow up on your application for %s at %s",
		app.Position, app.Company)

	notification, err := domain.NewNotification(app.UserID, app.ID, domain.NotificationTypeFollowUp, message)
	if err != nil {
		return false, fmt.Errorf("failed to build notification: %w", err)
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return false, fmt.Errorf("failed to save notification: %w", err)
	}

	s.deliver(ctx, app)
	s.announce(ctx, app)

	log.Debug("sent follow-up reminder",
		slog.String("application_id", app.ID.String()),
		slog.String("user_id", app.UserID.String()))
	return true, nil
}

func (s *FollowUpService) deliver(ctx context.Context, app *domain.Application) {
	if s.mailer == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, app.UserID)
	if err != nil {
		log.Error("failed to load user for reminder email",
			slog.String("error", err.Error()),
			slog.String("user_id", app.UserID.String()))
		return
	}

	if err := s.mailer.SendFollowUpReminder(ctx, user.Email, app); err != nil {
		log.Error("failed to send reminder email",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID.String()))
	}
}

func (s *FollowUpService) announce(ctx context.Context, app *domain.Application) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(events.EventTypeFollowUpDue, events.FollowUpDuePayload{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		Company:       app.Company,
		Position:      app.Position,
		AppliedDate:   app.AppliedDate,
	})
	if err != nil {
		log.Error("failed to build follow-up event", slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit follow-up event", slog.String("error", err.Error()))
	}
}

// ListNotifications returns the user's notification history, newest first.
func (s *FollowUpService) ListNotifications(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("follow_up", "list_notifications", "failed to list notifications", err)
	}
	return notifications, nil
}
