package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	// Create validates the user, hashes the plaintext password, and inserts
	// the row. Returns ErrEmailExists when the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns the user or ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns the user or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to the caller-managed transaction.
	WithTx(tx *sql.Tx) UserStore
}
