package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
	"github.com/jobtrail/jobtrail-api/internal/task"
)

// TaskHydrator rebuilds an executable task from its persisted row. The task
// factory satisfies this; it is an interface here so the store doesn't
// depend on concrete task wiring.
type TaskHydrator interface {
	Reconstruct(id, userID uuid.UUID, taskType string, payload []byte) (task.Task, error)
}

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db       store.DBTX
	hydrator TaskHydrator
}

// NewPostgresTaskStore creates a new PostgresTaskStore. The hydrator is used
// to turn recovered rows back into runnable tasks; it may be nil only when
// the store is used solely for writes and polling.
func NewPostgresTaskStore(db store.DBTX, hydrator TaskHydrator) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:       db,
		hydrator: hydrator,
	}
}

// Ensure PostgresTaskStore implements task.TaskStore interface
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask persists a task to the database
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (id, user_id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.UserID(),
		t.Type(),
		t.Payload(),
		t.Status(),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save task",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		return fmt.Errorf("failed to save task to database: %w", MapError(err))
	}

	return nil
}

// UpdateTaskStatus updates the status of a task in the database
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, errorMsg, time.Now().UTC(), taskID)
	if err != nil {
		log.Error("failed to update task status",
			"task_id", taskID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update task status: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Task not found, treat as no-op.
		log.Warn("no task found with ID to update status", "task_id", taskID)
	}

	return nil
}

// CompleteTaskWithResult marks a task completed and stores its result in the
// same statement.
func (s *PostgresTaskStore) CompleteTaskWithResult(
	ctx context.Context,
	taskID uuid.UUID,
	result []byte,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, result = $2, error_message = '', updated_at = $3
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, task.TaskStatusCompleted, result, time.Now().UTC(), taskID)
	if err != nil {
		log.Error("failed to complete task with result",
			"task_id", taskID,
			"error", err)
		return fmt.Errorf("failed to complete task with result: %w", MapError(err))
	}

	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *PostgresTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// GetTaskInfo retrieves the persisted state of a single task for polling.
func (s *PostgresTaskStore) GetTaskInfo(ctx context.Context, taskID uuid.UUID) (*task.TaskInfo, error) {
	query := `
		SELECT id, user_id, type, status, error_message, result, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var info task.TaskInfo
	var errorMessage sql.NullString
	var result []byte

	err := s.db.QueryRowContext(ctx, query, taskID).Scan(
		&info.ID,
		&info.UserID,
		&info.Type,
		&info.Status,
		&errorMessage,
		&result,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	info.ErrorMessage = errorMessage.String
	info.Result = result
	info.CreatedAt = info.CreatedAt.UTC()
	info.UpdatedAt = info.UpdatedAt.UTC()

	return &info, nil
}

// WithTx implements task.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:       tx,
		hydrator: s.hydrator,
	}
}

// getTasksByStatus is a helper method to get tasks by status with an
// optional age filter. Rows are rehydrated through the task factory so the
// returned tasks are executable and keep their original IDs.
func (s *PostgresTaskStore) getTasksByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.Task, error) {
	log := logger.FromContext(ctx)

	if s.hydrator == nil {
		return nil, fmt.Errorf("task store has no hydrator configured")
	}

	var query string
	var args []interface{}

	if olderThan > 0 {
		query = `
			SELECT id, user_id, type, payload
			FROM tasks
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []interface{}{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, user_id, type, payload
			FROM tasks
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []interface{}{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status", "status", status, "error", err)
		return nil, fmt.Errorf("failed to query tasks by status: %w", MapError(err))
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var id, userID uuid.UUID
		var taskType string
		var payload []byte

		if err := rows.Scan(&id, &userID, &taskType, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		t, err := s.hydrator.Reconstruct(id, userID, taskType, payload)
		if err != nil {
			// A row we can't rebuild shouldn't block recovery of the rest.
			log.Error("failed to reconstruct task, skipping",
				"task_id", id,
				"task_type", taskType,
				"error", err)
			continue
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}
