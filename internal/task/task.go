package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeAnalyzeResume is the task type for comparing a resume against
	// a job description.
	TaskTypeAnalyzeResume = "analyze_resume"

	// TaskTypeCoverLetter is the task type for drafting a cover letter.
	TaskTypeCoverLetter = "generate_cover_letter"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier. It doubles as the job ID
	// clients poll for results.
	ID() uuid.UUID

	// UserID returns the owner of the job. All reads and writes performed
	// during Execute are scoped to this user.
	UserID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// ResultProvider is implemented by tasks that produce a durable result for
// clients to poll. The runner persists the result alongside the completed
// status.
type ResultProvider interface {
	// Result returns the serialized task output. Only meaningful after a
	// successful Execute.
	Result() []byte
}

// TaskInfo is the persisted view of a task row, used for job status polling.
type TaskInfo struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Type         string
	Status       TaskStatus
	ErrorMessage string
	Result       json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task to the database with pending status
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// CompleteTaskWithResult marks a task completed and stores its result
	// payload in the same statement.
	CompleteTaskWithResult(ctx context.Context, taskID uuid.UUID, result []byte) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only returns tasks that have been in this
	// state longer than the specified duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// GetTaskInfo retrieves the persisted state of a single task.
	GetTaskInfo(ctx context.Context, taskID uuid.UUID) (*TaskInfo, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
