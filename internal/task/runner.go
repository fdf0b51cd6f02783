package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TaskRunnerConfig controls the worker pool and the stuck-task sweep.
type TaskRunnerConfig struct {
	// WorkerCount is the number of concurrent task workers.
	WorkerCount int

	// QueueSize is the in-memory queue capacity between Submit and workers.
	QueueSize int

	// StuckTaskAge is how long a task may sit in processing before the sweep
	// assumes its worker died and resets it.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval is the sweep period. Zero means 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns production defaults.
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner executes background tasks on a worker pool. Every task is
// persisted before it is queued, so an accepted job survives a process crash
// and is requeued by Recover on the next start.
type TaskRunner struct {
	store      TaskStore
	queue      chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TaskRunner{
		store:      store,
		queue:      make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler replaces the default failure logger.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit persists the task and hands it to the worker pool. Once Submit
// returns nil the job is durable: even if the process dies before a worker
// picks it up, Recover requeues it on the next start.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if !r.enqueue(task) {
		// The pending row is already saved, so Recover picks it up on the
		// next restart. The stuck-task sweep does not: it only watches
		// processing rows.
		return fmt.Errorf("task queue is full, try again later")
	}
	return nil
}

// Start requeues unfinished work and launches the workers and the sweep.
func (r *TaskRunner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop cancels the workers and waits for in-flight tasks to finish.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.queue)
}

// Recover requeues every pending task and flips interrupted processing tasks
// back to pending before requeueing them.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	interrupted, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(interrupted))

	for _, t := range pending {
		r.requeue(ctx, t, "")
	}
	for _, t := range interrupted {
		r.requeue(ctx, t, "Reset after recovery")
	}
	return nil
}

// enqueue offers the task to the queue without blocking.
func (r *TaskRunner) enqueue(t Task) bool {
	select {
	case r.queue <- t:
		return true
	default:
		return false
	}
}

// requeue resets the task to pending (when reason is non-empty) and offers
// it to the queue. Failures are logged; the durable row keeps the job alive.
func (r *TaskRunner) requeue(ctx context.Context, t Task, reason string) {
	if reason != "" {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, reason); err != nil {
			r.logger.Error("failed to reset task to pending",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			return
		}
	}
	if !r.enqueue(t) {
		r.logger.Error("failed to requeue task, queue is full",
			"task_id", t.ID(),
			"task_type", t.Type())
	}
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case t, ok := <-r.queue:
			if !ok {
				return
			}
			r.runTask(t, id)
		}
	}
}

// runTask executes one task and records its terminal status, including the
// result payload for tasks that produce one.
func (r *TaskRunner) runTask(t Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"task_id", t.ID(),
		"task_type", t.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to mark task processing", "error", err)
		return
	}

	log.Info("processing task")

	if err := t.Execute(ctx); err != nil {
		log.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to mark task failed", "error", updateErr)
		}
		r.errHandler(t, err)
		return
	}

	log.Info("task completed")

	if provider, ok := t.(ResultProvider); ok && len(provider.Result()) > 0 {
		if err := r.store.CompleteTaskWithResult(ctx, t.ID(), provider.Result()); err != nil {
			log.Error("failed to persist task result", "error", err)
		}
		return
	}

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to mark task completed", "error", err)
	}
}

// stuckTaskMonitor periodically resets tasks that have been processing for
// longer than StuckTaskAge and puts them back on the queue.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("stuck task check failed", "error", err)
				continue
			}
			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck tasks", "count", len(stuck))
			for _, t := range stuck {
				r.requeue(ctx, t, "Reset after being stuck in processing state")
			}
		}
	}
}
