package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/events"
)

func followUpCandidate(userID uuid.UUID) *domain.Application {
	return &domain.Application{
		ID:          uuid.New(),
		UserID:      userID,
		Company:     "Acme Corp",
		Position:    "Backend Engineer",
		Status:      domain.ApplicationStatusApplied,
		AppliedDate: time.Now().UTC().AddDate(0, 0, -10),
	}
}

func TestFollowUpServiceRunSweep(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)

	t.Run("uses the configured staleness cutoff", func(t *testing.T) {
		t.Parallel()

		var gotCutoff time.Time
		apps := &mockApplicationStore{
			findFollowUpCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*domain.Application, error) {
				gotCutoff = cutoff
				return nil, nil
			},
		}

		svc := NewFollowUpService(apps, &mockNotificationStore{}, &mockUserStore{}, nil, nil, 7, nil)
		svc.now = func() time.Time { return now }

		sent, err := svc.RunSweep(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Equal(t, now.AddDate(0, 0, -7), gotCutoff)
	})

	t.Run("reminds each candidate once", func(t *testing.T) {
		t.Parallel()

		candidate := followUpCandidate(userID)
		apps := &mockApplicationStore{
			findFollowUpCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*domain.Application, error) {
				return []*domain.Application{candidate}, nil
			},
		}
		notifications := &mockNotificationStore{}
		mailer := &mockMailer{}
		emitter := &mockEmitter{}

		svc := NewFollowUpService(apps, notifications, &mockUserStore{}, mailer, emitter, 7, nil)

		sent, err := svc.RunSweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, sent)

		require.Len(t, notifications.created, 1)
		n := notifications.created[0]
		assert.Equal(t, userID, n.UserID)
		assert.Equal(t, candidate.ID, n.ApplicationID)
		assert.Equal(t, domain.NotificationTypeFollowUp, n.Type)
		assert.Equal(t,
			"Time to follow up on your application for Backend Engineer at Acme Corp",
			n.Message)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "user@example.com", mailer.sent[0])

		require.Len(t, emitter.emitted, 1)
		assert.Equal(t, events.EventTypeFollowUpDue, emitter.emitted[0].Type)
	})

	t.Run("lost flip race skips the candidate silently", func(t *testing.T) {
		t.Parallel()

		apps := &mockApplicationStore{
			findFollowUpCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*domain.Application, error) {
				return []*domain.Application{followUpCandidate(userID)}, nil
			},
			markFollowUpSentFn: func(ctx context.Context, id, owner uuid.UUID) (bool, error) {
				return false, nil
			},
		}
		notifications := &mockNotificationStore{}

		svc := NewFollowUpService(apps, notifications, &mockUserStore{}, nil, nil, 7, nil)

		sent, err := svc.RunSweep(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Empty(t, notifications.created)
	})

	t.Run("one failing candidate does not stop the sweep", func(t *testing.T) {
		t.Parallel()

		bad := followUpCandidate(userID)
		good := followUpCandidate(userID)

		apps := &mockApplicationStore{
			findFollowUpCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*domain.Application, error) {
				return []*domain.Application{bad, good}, nil
			},
			markFollowUpSentFn: func(ctx context.Context, id, owner uuid.UUID) (bool, error) {
				if id == bad.ID {
					return false, errors.New("deadlock detected")
				}
				return true, nil
			},
		}
		notifications := &mockNotificationStore{}

		svc := NewFollowUpService(apps, notifications, &mockUserStore{}, nil, nil, 7, nil)

		sent, err := svc.RunSweep(context.Background())
		assert.Error(t, err, "first persistent error is reported")
		assert.Equal(t, 1, sent)
		assert.Len(t, notifications.created, 1)
	})

	t.Run("mailer failure does not undo the reminder", func(t *testing.T) {
		t.Parallel()

		apps := &mockApplicationStore{
			findFollowUpCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*domain.Application, error) {
				return []*domain.Application{followUpCandidate(userID)}, nil
			},
		}
		mailer := &mockMailer{
			sendFn: func(ctx context.Context, to string, app *domain.Application) error {
				return errors.New("smtp unreachable")
			},
		}

		svc := NewFollowUpService(apps, &mockNotificationStore{}, &mockUserStore{}, mailer, nil, 7, nil)

		sent, err := svc.RunSweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})
}
