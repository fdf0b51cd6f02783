package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// PostgresResumeStore implements the store.ResumeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresResumeStore struct {
	db store.DBTX
}

// NewPostgresResumeStore creates a new PostgreSQL implementation of the
// ResumeStore interface.
func NewPostgresResumeStore(db store.DBTX) *PostgresResumeStore {
	return &PostgresResumeStore{db: db}
}

// Ensure PostgresResumeStore implements store.ResumeStore interface
var _ store.ResumeStore = (*PostgresResumeStore)(nil)

// Create implements store.ResumeStore.Create
func (s *PostgresResumeStore) Create(ctx context.Context, resume *domain.Resume) error {
	log := logger.FromContext(ctx)

	if err := resume.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO resumes (id, user_id, file_name, file_url, extracted_text,
			version, is_default, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.FileName,
		resume.FileURL,
		resume.ExtractedText,
		resume.Version,
		resume.IsDefault,
		resume.UploadedAt,
	)
	if err != nil {
		log.Error("failed to create resume",
			"resume_id", resume.ID,
			"user_id", resume.UserID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetOwned implements store.ResumeStore.GetOwned
func (s *PostgresResumeStore) GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Resume, error) {
	query := `
		SELECT id, user_id, file_name, file_url, extracted_text, version,
			is_default, uploaded_at
		FROM resumes
		WHERE id = $1 AND user_id = $2
	`

	var resume domain.Resume
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.FileName,
		&resume.FileURL,
		&resume.ExtractedText,
		&resume.Version,
		&resume.IsDefault,
		&resume.UploadedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrResumeNotFound
		}
		return nil, MapError(err)
	}

	resume.UploadedAt = resume.UploadedAt.UTC()
	return &resume, nil
}

// ListByUser implements store.ResumeStore.ListByUser
func (s *PostgresResumeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error) {
	query := `
		SELECT id, user_id, file_name, file_url, extracted_text, version,
			is_default, uploaded_at
		FROM resumes
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var resumes []*domain.Resume
	for rows.Next() {
		var resume domain.Resume
		if err := rows.Scan(
			&resume.ID,
			&resume.UserID,
			&resume.FileName,
			&resume.FileURL,
			&resume.ExtractedText,
			&resume.Version,
			&resume.IsDefault,
			&resume.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resume row: %w", err)
		}
		resume.UploadedAt = resume.UploadedAt.UTC()
		resumes = append(resumes, &resume)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return resumes, nil
}

// ClearDefault implements store.ResumeStore.ClearDefault. Affecting zero rows
// is fine: the user may have no default yet.
func (s *PostgresResumeStore) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE resumes SET is_default = FALSE WHERE user_id = $1 AND is_default = TRUE`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return MapError(err)
	}
	return nil
}

// SetDefault implements store.ResumeStore.SetDefault
func (s *PostgresResumeStore) SetDefault(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE resumes SET is_default = TRUE WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return MapError(err)
	}

	return checkResumeAffected(result)
}

// Delete implements store.ResumeStore.Delete
func (s *PostgresResumeStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM resumes WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return MapError(err)
	}

	return checkResumeAffected(result)
}

// WithTx implements store.ResumeStore.WithTx
func (s *PostgresResumeStore) WithTx(tx *sql.Tx) store.ResumeStore {
	return &PostgresResumeStore{db: tx}
}

func checkResumeAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrResumeNotFound
	}
	return nil
}
