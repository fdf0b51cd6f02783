package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// ResumeStore defines the interface for resume record persistence.
type ResumeStore interface {
	// Create saves a new resume.
	// Returns validation errors from the domain Resume if data is invalid.
	Create(ctx context.Context, resume *domain.Resume) error

	// GetOwned retrieves the resume only when it is owned by userID.
	// Returns ErrResumeNotFound otherwise.
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Resume, error)

	// ListByUser retrieves the user's resumes, newest upload first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error)

	// ClearDefault unsets is_default on every resume the user owns.
	// Used inside the set-default transaction before promoting one sibling.
	ClearDefault(ctx context.Context, userID uuid.UUID) error

	// SetDefault marks the resume as the user's default, conditioned on
	// ownership. Returns ErrResumeNotFound if no owned record matches.
	SetDefault(ctx context.Context, id, userID uuid.UUID) error

	// Delete removes the resume, conditioned on ownership.
	// Returns ErrResumeNotFound if no owned record matches.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// WithTx returns a new ResumeStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ResumeStore
}
