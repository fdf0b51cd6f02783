package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jobtrail/jobtrail-api/internal/config"
	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/events"
	"github.com/jobtrail/jobtrail-api/internal/platform/gemini"
	"github.com/jobtrail/jobtrail-api/internal/platform/mailer"
	"github.com/jobtrail/jobtrail-api/internal/platform/postgres"
	"github.com/jobtrail/jobtrail-api/internal/service"
	"github.com/jobtrail/jobtrail-api/internal/service/auth"
	"github.com/jobtrail/jobtrail-api/internal/store"
	"github.com/jobtrail/jobtrail-api/internal/task"
)

// userDirectory adapts store.UserStore to the lookup tasks need for prompt
// personalization.
type userDirectory struct {
	users store.UserStore
}

func (d *userDirectory) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return d.users.GetByID(ctx, id)
}

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore         store.UserStore
	applicationStore  store.ApplicationStore
	resumeStore       store.ResumeStore
	statsStore        store.MonthlyStatsStore
	notificationStore store.NotificationStore
	taskStore         task.TaskStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        task.Generator

	// Domain services
	applicationService *service.ApplicationService
	resumeService      *service.ResumeService
	statsService       *service.StatsService
	aiService          *service.AIService
	followUpService    *service.FollowUpService

	// Event system
	eventEmitter events.EventEmitter

	// Background processing
	taskRunner *task.TaskRunner
	scheduler  *cron.Cron
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores. The task store comes later; it needs the task
	// factory to rehydrate persisted jobs.
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
	app.applicationStore = postgres.NewPostgresApplicationStore(db)
	app.resumeStore = postgres.NewPostgresResumeStore(db)
	app.statsStore = postgres.NewPostgresMonthlyStatsStore(db)
	app.notificationStore = postgres.NewPostgresNotificationStore(db)

	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully")

	// Initialize event emitter with an audit handler so every follow-up-due
	// event leaves a structured log line regardless of mail delivery.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, event *events.Event) error {
		if event.Type != events.EventTypeFollowUpDue {
			return nil
		}
		var payload events.FollowUpDuePayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return err
		}
		logger.Info("follow-up due",
			"application_id", payload.ApplicationID,
			"company", payload.Company,
			"position", payload.Position,
			"applied_date", payload.AppliedDate)
		return nil
	}))
	app.eventEmitter = emitter

	// Initialize domain services
	app.statsService = service.NewStatsService(app.applicationStore, app.statsStore, logger)
	app.applicationService = service.NewApplicationService(
		app.applicationStore,
		app.statsService,
		logger,
	)
	app.resumeService = service.NewResumeService(db, app.resumeStore, logger)

	// Wire the task pipeline: reconciler and factory first, then the task
	// store (which rehydrates rows through the factory), then the runner.
	reconciler := service.NewResultReconciler(app.applicationStore, logger)
	taskFactory := task.NewTaskFactory(
		reconciler,
		app.resumeService,
		&userDirectory{users: app.userStore},
		app.generator,
		logger,
	)
	app.taskStore = postgres.NewPostgresTaskStore(db, taskFactory)

	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	app.aiService = service.NewAIService(taskFactory, app.taskRunner, app.taskStore, logger)

	// Follow-up reminders go out by email when SMTP is configured;
	// otherwise the sweep still records notifications and emits events.
	var reminderMailer service.Mailer
	if cfg.FollowUp.SMTPAddr != "" {
		reminderMailer = mailer.NewSMTPMailer(cfg.FollowUp.SMTPAddr, cfg.FollowUp.SMTPFrom, logger)
	}

	app.followUpService = service.NewFollowUpService(
		app.applicationStore,
		app.notificationStore,
		app.userStore,
		reminderMailer,
		app.eventEmitter,
		cfg.FollowUp.StaleAfterDays,
		logger,
	)

	if cfg.FollowUp.Enabled {
		if err := app.setupFollowUpSchedule(); err != nil {
			return nil, fmt.Errorf("failed to schedule follow-up sweep: %w", err)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// Start also recovers any tasks left pending or processing by a previous
// run, so enqueued jobs survive restarts.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:              app.config.Task.QueueSize,
		WorkerCount:            app.config.Task.WorkerCount,
		StuckTaskAge:           time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
		StuckTaskCheckInterval: time.Duration(app.config.Task.StuckCheckIntMinutes) * time.Minute,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// setupFollowUpSchedule registers the daily follow-up sweep with the cron
// scheduler and starts it.
func (app *application) setupFollowUpSchedule() error {
	app.scheduler = cron.New()

	_, err := app.scheduler.AddFunc(app.config.FollowUp.Schedule, func() {
		ctx := context.Background()
		sent, err := app.followUpService.RunSweep(ctx)
		if err != nil {
			app.logger.Error("follow-up sweep finished with errors",
				"error", err, "reminders_sent", sent)
			return
		}
		app.logger.Info("follow-up sweep completed", "reminders_sent", sent)
	})
	if err != nil {
		return fmt.Errorf("invalid follow-up schedule %q: %w", app.config.FollowUp.Schedule, err)
	}

	app.scheduler.Start()
	app.logger.Info("follow-up sweep scheduled", "schedule", app.config.FollowUp.Schedule)
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
