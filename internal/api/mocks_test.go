package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/service/auth"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// mockUserStore implements store.UserStore with function fields so each test
// defines only the behavior it needs.
type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockJWTService implements auth.JWTService.
type mockJWTService struct {
	generateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	validateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	generateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	validateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateTokenFn != nil {
		return m.generateTokenFn(ctx, userID)
	}
	return "access-token", nil
}

func (m *mockJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (m *mockJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	if m.generateRefreshTokenFn != nil {
		return m.generateRefreshTokenFn(ctx, userID)
	}
	return "refresh-token", nil
}

func (m *mockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.validateRefreshTokenFn != nil {
		return m.validateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

// mockApplicationStore implements store.ApplicationStore for handler tests
// that wire a real ApplicationService over it.
type mockApplicationStore struct {
	createFn       func(ctx context.Context, app *domain.Application) error
	findOwnedFn    func(ctx context.Context, id, userID uuid.UUID) (*domain.Application, error)
	listByUserFn   func(ctx context.Context, userID uuid.UUID, filters store.ApplicationFilters) ([]*domain.Application, error)
	updateStatusFn func(ctx context.Context, id, userID uuid.UUID, status domain.ApplicationStatus, entry domain.TimelineEntry) error
	deleteFn       func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockApplicationStore) Create(ctx context.Context, app *domain.Application) error {
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	return nil
}

func (m *mockApplicationStore) FindOwned(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Application, error) {
	if m.findOwnedFn != nil {
		return m.findOwnedFn(ctx, id, userID)
	}
	return nil, store.ErrApplicationNotFound
}

func (m *mockApplicationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filters store.ApplicationFilters,
) ([]*domain.Application, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, filters)
	}
	return nil, nil
}

func (m *mockApplicationStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.Application, error) {
	return nil, nil
}

func (m *mockApplicationStore) UpdateFields(ctx context.Context, app *domain.Application) error {
	return nil
}

func (m *mockApplicationStore) UpdateStatus(
	ctx context.Context,
	id, userID uuid.UUID,
	status domain.ApplicationStatus,
	entry domain.TimelineEntry,
) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, userID, status, entry)
	}
	return nil
}

func (m *mockApplicationStore) SetAISuggestions(
	ctx context.Context,
	id, userID uuid.UUID,
	suggestions *domain.AISuggestions,
) error {
	return nil
}

func (m *mockApplicationStore) SetCoverLetter(
	ctx context.Context,
	id, userID uuid.UUID,
	coverLetter string,
) error {
	return nil
}

func (m *mockApplicationStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockApplicationStore) FindFollowUpCandidates(
	ctx context.Context,
	cutoff time.Time,
) ([]*domain.Application, error) {
	return nil, nil
}

func (m *mockApplicationStore) MarkFollowUpSent(
	ctx context.Context,
	id, userID uuid.UUID,
) (bool, error) {
	return true, nil
}

func (m *mockApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore { return m }

// mockPasswordVerifier implements auth.PasswordVerifier.
type mockPasswordVerifier struct {
	compareFn func(hashedPassword, password string) error
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.compareFn != nil {
		return m.compareFn(hashedPassword, password)
	}
	return nil
}
