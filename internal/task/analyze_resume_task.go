package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/generation"
)

// Dependency validation errors shared by the concrete tasks.
var (
	ErrNilReconciler    = errors.New("result reconciler cannot be nil")
	ErrNilResumeService = errors.New("resume service cannot be nil")
	ErrNilUserService   = errors.New("user service cannot be nil")
	ErrNilGenerator     = errors.New("generator cannot be nil")
	ErrNilLogger        = errors.New("logger cannot be nil")
)

// ResultReconciler applies generated output onto application records.
// Implementations perform ownership-conditioned single-statement writes that
// never touch the record's status, timeline, or last_updated, and treat a
// missing owned record as a no-op rather than an error.
type ResultReconciler interface {
	ApplyAnalysis(ctx context.Context, applicationID, userID uuid.UUID, analysis *domain.AnalysisResult) error
	ApplyCoverLetter(ctx context.Context, applicationID, userID uuid.UUID, letter string) error
}

// ResumeService provides the resume reads tasks need. A lookup for a resume
// the user does not own fails the same way a missing resume does.
type ResumeService interface {
	GetResume(ctx context.Context, id, userID uuid.UUID) (*domain.Resume, error)
}

// UserDirectory resolves task owners to profile details used in prompts.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Generator produces AI-derived content. Satisfied by generation.Generator.
type Generator interface {
	AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*domain.AnalysisResult, error)
	GenerateCoverLetter(ctx context.Context, req generation.CoverLetterRequest) (string, error)
}

// AnalyzeResumeTask implements the Task interface for comparing resume text
// against a job description.
type AnalyzeResumeTask struct {
	id         uuid.UUID
	userID     uuid.UUID
	payload    AnalyzeResumePayload
	reconciler ResultReconciler
	resumes    ResumeService
	generator  Generator
	logger     *slog.Logger
	status     TaskStatus
	result     []byte
}

// NewAnalyzeResumeTask creates a new resume analysis task with a fresh ID.
func NewAnalyzeResumeTask(
	userID uuid.UUID,
	payload AnalyzeResumePayload,
	reconciler ResultReconciler,
	resumes ResumeService,
	generator Generator,
	logger *slog.Logger,
) (*AnalyzeResumeTask, error) {
	return newAnalyzeResumeTask(uuid.New(), userID, payload, reconciler, resumes, generator, logger)
}

// newAnalyzeResumeTask builds a task with an explicit ID, used when
// rehydrating persisted rows so the job ID clients hold stays valid.
func newAnalyzeResumeTask(
	id, userID uuid.UUID,
	payload AnalyzeResumePayload,
	reconciler ResultReconciler,
	resumes ResumeService,
	generator Generator,
	logger *slog.Logger,
) (*AnalyzeResumeTask, error) {
	if reconciler == nil {
		return nil, ErrNilReconciler
	}
	if resumes == nil {
		return nil, ErrNilResumeService
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

	return &AnalyzeResumeTask{
		id:         id,
		userID:     userID,
		payload:    payload,
		reconciler: reconciler,
		resumes:    resumes,
		generator:  generator,
		logger:     logger.With("task_type", TaskTypeAnalyzeResume, "task_id", id),
		status:     TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *AnalyzeResumeTask) ID() uuid.UUID {
	return t.id
}

// UserID returns the owner of the job
func (t *AnalyzeResumeTask) UserID() uuid.UUID {
	return t.userID
}

// Type returns the task type identifier
func (t *AnalyzeResumeTask) Type() string {
	return TaskTypeAnalyzeResume
}

// Payload returns the task data as a byte slice
func (t *AnalyzeResumeTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *AnalyzeResumeTask) Status() TaskStatus {
	return t.status
}

// Result returns the serialized analysis after a successful Execute.
func (t *AnalyzeResumeTask) Result() []byte {
	return t.result
}

// Execute resolves the resume text, generates the analysis, and - when the
// payload names an application - hands the result to the reconciler. Any
// failure leaves application records untouched.
func (t *AnalyzeResumeTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting resume analysis task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	resumeText, err := t.resolveResumeText(ctx)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to resolve resume text", "error", err)
		return err
	}

	analysis, err := t.generator.AnalyzeResume(ctx, resumeText, t.payload.JobDescription)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to generate analysis", "error", err)
		return fmt.Errorf("failed to generate analysis: %w", err)
	}

	if t.payload.ApplicationID != nil {
		if err := t.reconciler.ApplyAnalysis(ctx, *t.payload.ApplicationID, t.userID, analysis); err != nil {
			t.status = TaskStatusFailed
			t.logger.Error("failed to apply analysis to application", "error", err)
			return fmt.Errorf("failed to apply analysis: %w", err)
		}
	}

	result, err := json.Marshal(analysis)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	t.result = result

	t.status = TaskStatusCompleted
	t.logger.Info("resume analysis task completed", "match_score", analysis.MatchScore)
	return nil
}

// resolveResumeText prefers direct text from the payload, falling back to an
// ownership-checked resume lookup. Empty resolved text is a validation
// failure either way.
func (t *AnalyzeResumeTask) resolveResumeText(ctx context.Context) (string, error) {
	if text := strings.TrimSpace(t.payload.ResumeText); text != "" {
		return text, nil
	}

	resume, err := t.resumes.GetResume(ctx, *t.payload.ResumeID, t.userID)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve resume: %w", err)
	}

	text := strings.TrimSpace(resume.ExtractedText)
	if text == "" {
		return "", fmt.Errorf("%w: resume %s has no extracted text", domain.ErrEmptyContent, resume.ID)
	}

	return text, nil
}
