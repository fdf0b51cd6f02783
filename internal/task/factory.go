package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// TaskFactory creates and rehydrates the concrete task types, bundling the
// shared dependencies so callers only supply per-job data.
type TaskFactory struct {
	reconciler ResultReconciler
	resumes    ResumeService
	users      UserDirectory
	generator  Generator
	logger     *slog.Logger
}

// NewTaskFactory creates a new factory for AI job tasks.
func NewTaskFactory(
	reconciler ResultReconciler,
	resumes ResumeService,
	users UserDirectory,
	generator Generator,
	logger *slog.Logger,
) *TaskFactory {
	return &TaskFactory{
		reconciler: reconciler,
		resumes:    resumes,
		users:      users,
		generator:  generator,
		logger:     logger.With("component", "task_factory"),
	}
}

// NewAnalyzeResumeTask creates a fresh analyze_resume task for the user.
func (f *TaskFactory) NewAnalyzeResumeTask(userID uuid.UUID, payload AnalyzeResumePayload) (Task, error) {
	return NewAnalyzeResumeTask(userID, payload, f.reconciler, f.resumes, f.generator, f.logger)
}

// NewCoverLetterTask creates a fresh generate_cover_letter task for the user.
func (f *TaskFactory) NewCoverLetterTask(userID uuid.UUID, payload CoverLetterPayload) (Task, error) {
	return NewCoverLetterTask(userID, payload, f.reconciler, f.users, f.generator, f.logger)
}

// Reconstruct rebuilds a task from a persisted row, preserving its original
// ID so job polling keeps working across restarts.
func (f *TaskFactory) Reconstruct(id, userID uuid.UUID, taskType string, payload []byte) (Task, error) {
	switch taskType {
	case TaskTypeAnalyzeResume:
		var p AnalyzeResumePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analyze_resume payload: %w", err)
		}
		return newAnalyzeResumeTask(id, userID, p, f.reconciler, f.resumes, f.generator, f.logger)

	case TaskTypeCoverLetter:
		var p CoverLetterPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generate_cover_letter payload: %w", err)
		}
		return newCoverLetterTask(id, userID, p, f.reconciler, f.users, f.generator, f.logger)

	default:
		return nil, fmt.Errorf("unknown task type %q", taskType)
	}
}
