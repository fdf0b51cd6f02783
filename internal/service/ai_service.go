package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
	"github.com/jobtrail/jobtrail-api/internal/task"
)

// TaskSubmitter accepts tasks for durable background execution. Satisfied by
// *task.TaskRunner.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// AIService enqueues AI jobs and serves job status polling. Payloads are
// validated before anything is persisted: an invalid request never produces
// a job handle.
type AIService struct {
	factory *task.TaskFactory
	runner  TaskSubmitter
	tasks   task.TaskStore
	logger  *slog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(
	factory *task.TaskFactory,
	runner TaskSubmitter,
	tasks task.TaskStore,
	log *slog.Logger,
) *AIService {
	if log == nil {
		log = slog.Default()
	}
	return &AIService{
		factory: factory,
		runner:  runner,
		tasks:   tasks,
		logger:  log.With(slog.String("component", "ai_service")),
	}
}

// EnqueueAnalyzeResume validates the payload, persists a new analyze_resume
// task, and returns its job ID. The returned ID is durable: it remains
// pollable even if the process restarts immediately.
func (s *AIService) EnqueueAnalyzeResume(
	ctx context.Context,
	userID uuid.UUID,
	payload task.AnalyzeResumePayload,
) (uuid.UUID, error) {
	if err := payload.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	t, err := s.factory.NewAnalyzeResumeTask(userID, payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.submit(ctx, t)
}

// EnqueueCoverLetter validates the payload, persists a new
// generate_cover_letter task, and returns its job ID.
func (s *AIService) EnqueueCoverLetter(
	ctx context.Context,
	userID uuid.UUID,
	payload task.CoverLetterPayload,
) (uuid.UUID, error) {
	if err := payload.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	t, err := s.factory.NewCoverLetterTask(userID, payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.submit(ctx, t)
}

// GetJobStatus returns the persisted state of a job owned by the user. A job
// owned by another user is indistinguishable from a missing one.
func (s *AIService) GetJobStatus(
	ctx context.Context,
	jobID, userID uuid.UUID,
) (*task.TaskInfo, error) {
	info, err := s.tasks.GetTaskInfo(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, NewServiceError("ai", "get_job_status", "failed to load job", err)
	}

	if info.UserID != userID {
		return nil, ErrJobNotFound
	}

	return info, nil
}

func (s *AIService) submit(ctx context.Context, t task.Task) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.runner.Submit(ctx, t); err != nil {
		log.Error("failed to submit task",
			slog.String("error", err.Error()),
			slog.String("task_type", t.Type()))
		return uuid.Nil, NewServiceError("ai", "enqueue", "failed to submit task", err)
	}

	log.Info("enqueued AI job",
		slog.String("job_id", t.ID().String()),
		slog.String("task_type", t.Type()))
	return t.ID(), nil
}
