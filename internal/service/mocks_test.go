package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/events"
	"github.com/jobtrail/jobtrail-api/internal/store"
	"github.com/jobtrail/jobtrail-api/internal/task"
)

var errMockNotConfigured = errors.New("mock function not configured")

// mockApplicationStore implements store.ApplicationStore with function
// fields so each test defines only the behavior it needs.
type mockApplicationStore struct {
	createFn                 func(ctx context.Context, app *domain.Application) error
	findOwnedFn              func(ctx context.Context, id, userID uuid.UUID) (*domain.Application, error)
	listByUserFn             func(ctx context.Context, userID uuid.UUID, filters store.ApplicationFilters) ([]*domain.Application, error)
	listByUserSinceFn        func(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Application, error)
	updateFieldsFn           func(ctx context.Context, app *domain.Application) error
	updateStatusFn           func(ctx context.Context, id, userID uuid.UUID, status domain.ApplicationStatus, entry domain.TimelineEntry) error
	setAISuggestionsFn       func(ctx context.Context, id, userID uuid.UUID, suggestions *domain.AISuggestions) error
	setCoverLetterFn         func(ctx context.Context, id, userID uuid.UUID, coverLetter string) error
	deleteFn                 func(ctx context.Context, id, userID uuid.UUID) error
	findFollowUpCandidatesFn func(ctx context.Context, cutoff time.Time) ([]*domain.Application, error)
	markFollowUpSentFn       func(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

func (m *mockApplicationStore) Create(ctx context.Context, app *domain.Application) error {
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	return nil
}

func (m *mockApplicationStore) FindOwned(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Application, error) {
	if m.findOwnedFn != nil {
		return m.findOwnedFn(ctx, id, userID)
	}
	return nil, errMockNotConfigured
}

func (m *mockApplicationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filters store.ApplicationFilters,
) ([]*domain.Application, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, filters)
	}
	return nil, nil
}

func (m *mockApplicationStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.Application, error) {
	if m.listByUserSinceFn != nil {
		return m.listByUserSinceFn(ctx, userID, since)
	}
	return nil, nil
}

func (m *mockApplicationStore) UpdateFields(ctx context.Context, app *domain.Application) error {
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, app)
	}
	return nil
}

func (m *mockApplicationStore) UpdateStatus(
	ctx context.Context,
	id, userID uuid.UUID,
	status domain.ApplicationStatus,
	entry domain.TimelineEntry,
) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, userID, status, entry)
	}
	return nil
}

func (m *mockApplicationStore) SetAISuggestions(
	ctx context.Context,
	id, userID uuid.UUID,
	suggestions *domain.AISuggestions,
) error {
	if m.setAISuggestionsFn != nil {
		return m.setAISuggestionsFn(ctx, id, userID, suggestions)
	}
	return nil
}

func (m *mockApplicationStore) SetCoverLetter(
	ctx context.Context,
	id, userID uuid.UUID,
	coverLetter string,
) error {
	if m.setCoverLetterFn != nil {
		return m.setCoverLetterFn(ctx, id, userID, coverLetter)
	}
	return nil
}

func (m *mockApplicationStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockApplicationStore) FindFollowUpCandidates(
	ctx context.Context,
	cutoff time.Time,
) ([]*domain.Application, error) {
	if m.findFollowUpCandidatesFn != nil {
		return m.findFollowUpCandidatesFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockApplicationStore) MarkFollowUpSent(
	ctx context.Context,
	id, userID uuid.UUID,
) (bool, error) {
	if m.markFollowUpSentFn != nil {
		return m.markFollowUpSentFn(ctx, id, userID)
	}
	return true, nil
}

func (m *mockApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore {
	return m
}

// mockStatsStore implements store.MonthlyStatsStore.
type mockStatsStore struct {
	upsertFn     func(ctx context.Context, stats *domain.MonthlyStats) error
	listByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.MonthlyStats, error)

	upserts []*domain.MonthlyStats
}

func (m *mockStatsStore) Upsert(ctx context.Context, stats *domain.MonthlyStats) error {
	m.upserts = append(m.upserts, stats)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, stats)
	}
	return nil
}

func (m *mockStatsStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MonthlyStats, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

// mockNotificationStore implements store.NotificationStore.
type mockNotificationStore struct {
	createFn     func(ctx context.Context, notification *domain.Notification) error
	listByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	created []*domain.Notification
}

func (m *mockNotificationStore) Create(
	ctx context.Context,
	notification *domain.Notification,
) error {
	m.created = append(m.created, notification)
	if m.createFn != nil {
		return m.createFn(ctx, notification)
	}
	return nil
}

func (m *mockNotificationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

// mockUserStore implements store.UserStore.
type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.User{ID: id, Email: "user@example.com", Name: "Jordan Applicant"}, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// mockResumeStore implements store.ResumeStore.
type mockResumeStore struct {
	createFn     func(ctx context.Context, resume *domain.Resume) error
	getOwnedFn   func(ctx context.Context, id, userID uuid.UUID) (*domain.Resume, error)
	listByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error)
	deleteFn     func(ctx context.Context, id, userID uuid.UUID) error

	created []*domain.Resume
}

func (m *mockResumeStore) Create(ctx context.Context, resume *domain.Resume) error {
	m.created = append(m.created, resume)
	if m.createFn != nil {
		return m.createFn(ctx, resume)
	}
	return nil
}

func (m *mockResumeStore) GetOwned(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Resume, error) {
	if m.getOwnedFn != nil {
		return m.getOwnedFn(ctx, id, userID)
	}
	return nil, store.ErrResumeNotFound
}

func (m *mockResumeStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Resume, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockResumeStore) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (m *mockResumeStore) SetDefault(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

func (m *mockResumeStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockResumeStore) WithTx(tx *sql.Tx) store.ResumeStore { return m }

// mockTaskStore implements task.TaskStore for job status tests.
type mockTaskStore struct {
	getTaskInfoFn func(ctx context.Context, taskID uuid.UUID) (*task.TaskInfo, error)
}

func (m *mockTaskStore) SaveTask(ctx context.Context, t task.Task) error { return nil }

func (m *mockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	return nil
}

func (m *mockTaskStore) CompleteTaskWithResult(
	ctx context.Context,
	taskID uuid.UUID,
	result []byte,
) error {
	return nil
}

func (m *mockTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return nil, nil
}

func (m *mockTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]task.Task, error) {
	return nil, nil
}

func (m *mockTaskStore) GetTaskInfo(
	ctx context.Context,
	taskID uuid.UUID,
) (*task.TaskInfo, error) {
	if m.getTaskInfoFn != nil {
		return m.getTaskInfoFn(ctx, taskID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) task.TaskStore { return m }

// mockSubmitter implements TaskSubmitter.
type mockSubmitter struct {
	submitFn func(ctx context.Context, t task.Task) error

	submitted []task.Task
}

func (m *mockSubmitter) Submit(ctx context.Context, t task.Task) error {
	m.submitted = append(m.submitted, t)
	if m.submitFn != nil {
		return m.submitFn(ctx, t)
	}
	return nil
}

// mockMailer implements Mailer.
type mockMailer struct {
	sendFn func(ctx context.Context, to string, app *domain.Application) error

	sent []string
}

func (m *mockMailer) SendFollowUpReminder(
	ctx context.Context,
	to string,
	app *domain.Application,
) error {
	m.sent = append(m.sent, to)
	if m.sendFn != nil {
		return m.sendFn(ctx, to, app)
	}
	return nil
}

// mockEmitter implements events.EventEmitter.
type mockEmitter struct {
	emitted []*events.Event
}

func (m *mockEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.emitted = append(m.emitted, event)
	return nil
}
