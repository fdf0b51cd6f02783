package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/generation"
)

// coverLetterResult is the polling payload stored for a completed
// generate_cover_letter task.
type coverLetterResult struct {
	CoverLetter string `json:"coverLetter"`
}

// CoverLetterTask implements the Task interface for drafting a cover letter.
// All prompt material travels in the payload; the applicant's name is the
// only enrichment looked up at execution time.
type CoverLetterTask struct {
	id         uuid.UUID
	userID     uuid.UUID
	payload    CoverLetterPayload
	reconciler ResultReconciler
	users      UserDirectory
	generator  Generator
	logger     *slog.Logger
	status     TaskStatus
	result     []byte
}

// NewCoverLetterTask creates a new cover letter task with a fresh ID.
func NewCoverLetterTask(
	userID uuid.UUID,
	payload CoverLetterPayload,
	reconciler ResultReconciler,
	users UserDirectory,
	generator Generator,
	logger *slog.Logger,
) (*CoverLetterTask, error) {
	return newCoverLetterTask(uuid.New(), userID, payload, reconciler, users, generator, logger)
}

func newCoverLetterTask(
	id, userID uuid.UUID,
	payload CoverLetterPayload,
	reconciler ResultReconciler,
	users UserDirectory,
	generator Generator,
	logger *slog.Logger,
) (*CoverLetterTask, error) {
	if reconciler == nil {
		return nil, ErrNilReconciler
	}
	if users == nil {
		return nil, ErrNilUserService
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	return &CoverLetterTask{
		id:         id,
		userID:     userID,
		payload:    payload,
		reconciler: reconciler,
		users:      users,
		generator:  generator,
		logger:     logger.With("task_type", TaskTypeCoverLetter, "task_id", id),
		status:     TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *CoverLetterTask) ID() uuid.UUID {
	return t.id
}

// UserID returns the owner of the job
func (t *CoverLetterTask) UserID() uuid.UUID {
	return t.userID
}

// Type returns the task type identifier
func (t *CoverLetterTask) Type() string {
	return TaskTypeCoverLetter
}

// Payload returns the task data as a byte slice
func (t *CoverLetterTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *CoverLetterTask) Status() TaskStatus {
	return t.status
}

// Result returns the serialized cover letter after a successful Execute.
func (t *CoverLetterTask) Result() []byte {
	return t.result
}

// Execute drafts the letter and - when the payload names an application -
// hands it to the reconciler for an ownership-conditioned write.
func (t *CoverLetterTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting cover letter task",
		"company", t.payload.Company,
		"position", t.payload.Position)

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// The applicant name is cosmetic prompt material; a lookup failure
	// should not sink the whole job.
	applicantName := ""
	if user, err := t.users.GetUser(ctx, t.userID); err != nil {
		t.logger.Warn("failed to load applicant profile, generating without name", "error", err)
	} else {
		applicantName = user.Name
	}

	letter, err := t.generator.GenerateCoverLetter(ctx, generation.CoverLetterRequest{
		ResumeText:     t.payload.ResumeSummary,
		JobDescription: t.payload.JobDescription,
		Company:        t.payload.Company,
		Position:       t.payload.Position,
		ApplicantName:  applicantName,
	})
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to generate cover letter", "error", err)
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}

	if t.payload.ApplicationID != nil {
		if err := t.reconciler.ApplyCoverLetter(ctx, *t.payload.ApplicationID, t.userID, letter); err != nil {
			t.status = TaskStatusFailed
			t.logger.Error("failed to apply cover letter to application", "error", err)
			return fmt.Errorf("failed to apply cover letter: %w", err)
		}
	}

	result, err := json.Marshal(coverLetterResult{CoverLetter: letter})
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to marshal cover letter result: %w", err)
	}
	t.result = result

	t.status = TaskStatusCompleted
	t.logger.Info("cover letter task completed", "letter_length", len(letter))
	return nil
}
