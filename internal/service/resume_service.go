package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// ResumeService provides resume record operations, including the
// one-default-per-user invariant enforced by SetDefaultResume.
type ResumeService struct {
	db      *sql.DB
	resumes store.ResumeStore
	logger  *slog.Logger
}

// NewResumeService creates a new ResumeService. The *sql.DB is needed for
// the set-default transaction.
func NewResumeService(db *sql.DB, resumes store.ResumeStore, log *slog.Logger) *ResumeService {
	if log == nil {
		log = slog.Default()
	}
	return &ResumeService{
		db:      db,
		resumes: resumes,
		logger:  log.With(slog.String("component", "resume_service")),
	}
}

// CreateResume validates and persists a new resume record. New resumes are
// never the default.
func (s *ResumeService) CreateResume(ctx context.Context, resume *domain.Resume) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := resume.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.resumes.Create(ctx, resume); err != nil {
		log.Error("failed to create resume",
			slog.String("error", err.Error()),
			slog.String("user_id", resume.UserID.String()))
		return NewServiceError("resume", "create", "failed to save resume", err)
	}

	log.Info("created resume",
		slog.String("resume_id", resume.ID.String()),
		slog.String("file_name", resume.FileName))
	return nil
}

// GetResume retrieves a resume owned by the given user.
func (s *ResumeService) GetResume(ctx context.Context, id, userID uuid.UUID) (*domain.Resume, error) {
	return s.resumes.GetOwned(ctx, id, userID)
}

// ListResumes retrieves the user's resumes, newest upload first.
func (s *ResumeService) ListResumes(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error) {
	resumes, err := s.resumes.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("resume", "list", "failed to list resumes", err)
	}
	return resumes, nil
}

// SetDefaultResume promotes one owned resume to be the user's default. The
// demotion of all siblings and the promotion run in a single transaction, so
// at most one resume per user is ever the default.
func (s *ResumeService) SetDefaultResume(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txResumes := s.resumes.WithTx(tx)

		if err := txResumes.ClearDefault(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear existing default: %w", err)
		}

		// SetDefault is ownership-conditioned; a miss rolls back the clear.
		if err := txResumes.SetDefault(ctx, id, userID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("set default resume",
		slog.String("resume_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// DeleteResume removes an owned resume.
func (s *ResumeService) DeleteResume(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.resumes.Delete(ctx, id, userID); err != nil {
		return err
	}

	log.Info("deleted resume", slog.String("resume_id", id.String()))
	return nil
}
