package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// ApplicationFilters narrows ListByUser results. Zero values mean "no filter".
type ApplicationFilters struct {
	Status   domain.ApplicationStatus
	Platform string
	Company  string

	// SortBy names the sort column ("applied_date" or "last_updated").
	// Empty sorts by applied_date. Descending controls direction;
	// the default is newest first.
	SortBy     string
	Descending bool
}

// ApplicationStore defines the interface for application record persistence.
//
// Ownership is enforced at the statement level: every mutation is conditioned
// on both the record ID and the owning user ID in a single statement, so a
// concurrent writer can never interleave between a read and a write.
type ApplicationStore interface {
	// Create saves a new application.
	// Returns validation errors from the domain Application if data is invalid.
	// Returns ErrInvalidEntity if the user does not exist.
	Create(ctx context.Context, app *domain.Application) error

	// FindOwned retrieves the application only when it is owned by userID.
	// Returns ErrApplicationNotFound otherwise — an existing record owned by
	// another user is indistinguishable from a missing one.
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Application, error)

	// ListByUser retrieves the user's applications matching the filters.
	ListByUser(ctx context.Context, userID uuid.UUID, filters ApplicationFilters) ([]*domain.Application, error)

	// ListByUserSince retrieves the user's applications with
	// applied_date >= since, used by the stats aggregator.
	ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Application, error)

	// UpdateFields overwrites the mutable descriptive fields (company,
	// position, description, URL, platform, location, salary, notes) from
	// the given application, conditioned on ownership.
	// Returns ErrApplicationNotFound if no owned record matches.
	UpdateFields(ctx context.Context, app *domain.Application) error

	// UpdateStatus atomically sets the status, refreshes last_updated, and
	// appends the timeline entry in one conditional statement.
	// Returns ErrApplicationNotFound if no owned record matches.
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status domain.ApplicationStatus, entry domain.TimelineEntry) error

	// SetAISuggestions writes only the ai_suggestions snapshot, conditioned
	// on ownership. A non-matching record is a no-op: it returns
	// ErrApplicationNotFound and changes nothing.
	SetAISuggestions(ctx context.Context, id, userID uuid.UUID, suggestions *domain.AISuggestions) error

	// SetCoverLetter writes only the cover_letter text, conditioned on
	// ownership, with the same no-op contract as SetAISuggestions.
	SetCoverLetter(ctx context.Context, id, userID uuid.UUID, coverLetter string) error

	// Delete removes the application, conditioned on ownership.
	// Returns ErrApplicationNotFound if no owned record matches.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// FindFollowUpCandidates retrieves applications still in applied or
	// screening status, not yet reminded, applied on or before the cutoff.
	FindFollowUpCandidates(ctx context.Context, cutoff time.Time) ([]*domain.Application, error)

	// MarkFollowUpSent flips follow_up_sent conditioned on it being false,
	// so repeated sweeps over the same application are idempotent.
	// Returns true when this call performed the flip.
	MarkFollowUpSent(ctx context.Context, id, userID uuid.UUID) (bool, error)

	// WithTx returns a new ApplicationStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ApplicationStore
}
