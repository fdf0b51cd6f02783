package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/platform/logger"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// applicationColumns is the select list shared by every application query.
const applicationColumns = `
	id, user_id, company, position, job_description, job_url, platform,
	location, salary, status, applied_date, last_updated, timeline, notes,
	resume_used, cover_letter, ai_suggestions, follow_up_sent,
	follow_up_date, created_at
`

// PostgresApplicationStore implements the store.ApplicationStore interface
// using a PostgreSQL database as the storage backend. Every mutation is a
// single statement conditioned on (id, user_id), so ownership checks and
// writes cannot be interleaved by a concurrent writer.
type PostgresApplicationStore struct {
	db store.DBTX
}

// NewPostgresApplicationStore creates a new PostgreSQL implementation of the
// ApplicationStore interface.
func NewPostgresApplicationStore(db store.DBTX) *PostgresApplicationStore {
	return &PostgresApplicationStore{db: db}
}

// Ensure PostgresApplicationStore implements store.ApplicationStore interface
var _ store.ApplicationStore = (*PostgresApplicationStore)(nil)

// Create implements store.ApplicationStore.Create
func (s *PostgresApplicationStore) Create(ctx context.Context, app *domain.Application) error {
	log := logger.FromContext(ctx)

	if err := app.Validate(); err != nil {
		return err
	}

	salary, err := marshalNullable(app.Salary)
	if err != nil {
		return fmt.Errorf("failed to marshal salary range: %w", err)
	}

	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	suggestions, err := marshalNullable(app.AISuggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal AI suggestions: %w", err)
	}

	query := `
		INSERT INTO applications (
			id, user_id, company, position, job_description, job_url,
			platform, location, salary, status, applied_date, last_updated,
			timeline, notes, resume_used, cover_letter, ai_suggestions,
			follow_up_sent, follow_up_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = s.db.ExecContext(ctx, query,
		app.ID,
		app.UserID,
		app.Company,
		app.Position,
		app.JobDescription,
		app.JobURL,
		app.Platform,
		app.Location,
		salary,
		app.Status,
		app.AppliedDate,
		app.LastUpdated,
		timeline,
		app.Notes,
		app.ResumeUsed,
		app.CoverLetter,
		suggestions,
		app.FollowUpSent,
		app.FollowUpDate,
		app.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create application",
			"application_id", app.ID,
			"user_id", app.UserID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// FindOwned implements store.ApplicationStore.FindOwned
func (s *PostgresApplicationStore) FindOwned(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE id = $1 AND user_id = $2`

	rows, err := s.db.QueryContext(ctx, query, id, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, MapError(err)
		}
		return nil, store.ErrApplicationNotFound
	}

	return scanApplication(rows)
}

// ListByUser implements store.ApplicationStore.ListByUser
func (s *PostgresApplicationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filters store.ApplicationFilters,
) ([]*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Platform != "" {
		args = append(args, filters.Platform)
		query += fmt.Sprintf(" AND platform = $%d", len(args))
	}
	if filters.Company != "" {
		args = append(args, "%"+filters.Company+"%")
		query += fmt.Sprintf(" AND company ILIKE $%d", len(args))
	}

	// Sort column is chosen from a fixed set, never from user input directly.
	sortColumn := "applied_date"
	if filters.SortBy == "last_updated" {
		sortColumn = "last_updated"
	}
	direction := "DESC"
	if !filters.Descending && filters.SortBy != "" {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortColumn, direction)

	return s.queryApplications(ctx, query, args...)
}

// ListByUserSince implements store.ApplicationStore.ListByUserSince
func (s *PostgresApplicationStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1 AND applied_date >= $2
		ORDER BY applied_date ASC`

	return s.queryApplications(ctx, query, userID, since)
}

// UpdateFields implements store.ApplicationStore.UpdateFields
func (s *PostgresApplicationStore) UpdateFields(ctx context.Context, app *domain.Application) error {
	salary, err := marshalNullable(app.Salary)
	if err != nil {
		return fmt.Errorf("failed to marshal salary range: %w", err)
	}

	query := `
		UPDATE applications
		SET company = $1, position = $2, job_description = $3, job_url = $4,
			platform = $5, location = $6, salary = $7, notes = $8,
			resume_used = $9, last_updated = $10
		WHERE id = $11 AND user_id = $12
	`

	result, err := s.db.ExecContext(ctx, query,
		app.Company,
		app.Position,
		app.JobDescription,
		app.JobURL,
		app.Platform,
		app.Location,
		salary,
		app.Notes,
		app.ResumeUsed,
		time.Now().UTC(),
		app.ID,
		app.UserID,
	)
	if err != nil {
		return MapError(err)
	}

	return checkApplicationAffected(result)
}

// UpdateStatus implements store.ApplicationStore.UpdateStatus. The status
// change, last_updated refresh, and timeline append happen in one statement.
func (s *PostgresApplicationStore) UpdateStatus(
	ctx context.Context,
	id, userID uuid.UUID,
	status domain.ApplicationStatus,
	entry domain.TimelineEntry,
) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline entry: %w", err)
	}

	// jsonb array || jsonb object appends exactly one element.
	query := `
		UPDATE applications
		SET status = $1, last_updated = $2, timeline = timeline || $3::jsonb
		WHERE id = $4 AND user_id = $5
	`

	result, err := s.db.ExecContext(ctx, query, status, entry.Date, entryJSON, id, userID)
	if err != nil {
		return MapError(err)
	}

	return checkApplicationAffected(result)
}

// SetAISuggestions implements store.ApplicationStore.SetAISuggestions.
// Deliberately narrow: it writes only ai_suggestions, leaving status,
// timeline, and last_updated untouched, and does nothing at all when the
// (id, user_id) pair no longer matches.
func (s *PostgresApplicationStore) SetAISuggestions(
	ctx context.Context,
	id, userID uuid.UUID,
	suggestions *domain.AISuggestions,
) error {
	data, err := marshalNullable(suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal AI suggestions: %w", err)
	}

	query := `
		UPDATE applications
		SET ai_suggestions = $1
		WHERE id = $2 AND user_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, data, id, userID)
	if err != nil {
		return MapError(err)
	}

	return checkApplicationAffected(result)
}

// SetCoverLetter implements store.ApplicationStore.SetCoverLetter with the
// same narrow contract as SetAISuggestions.
func (s *PostgresApplicationStore) SetCoverLetter(
	ctx context.Context,
	id, userID uuid.UUID,
	coverLetter string,
) error {
	query := `
		UPDATE applications
		SET cover_letter = $1
		WHERE id = $2 AND user_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, coverLetter, id, userID)
	if err != nil {
		return MapError(err)
	}

	return checkApplicationAffected(result)
}

// Delete implements store.ApplicationStore.Delete
func (s *PostgresApplicationStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM applications WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return MapError(err)
	}

	return checkApplicationAffected(result)
}

// FindFollowUpCandidates implements store.ApplicationStore.FindFollowUpCandidates
func (s *PostgresApplicationStore) FindFollowUpCandidates(
	ctx context.Context,
	cutoff time.Time,
) ([]*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE status IN ($1, $2)
			AND follow_up_sent = FALSE
			AND applied_date <= $3
		ORDER BY applied_date ASC`

	return s.queryApplications(ctx, query,
		domain.ApplicationStatusApplied,
		domain.ApplicationStatusScreening,
		cutoff,
	)
}

// MarkFollowUpSent implements store.ApplicationStore.MarkFollowUpSent. The
// follow_up_sent = FALSE condition makes concurrent sweeps race-safe: only
// one caller observes the flip.
func (s *PostgresApplicationStore) MarkFollowUpSent(
	ctx context.Context,
	id, userID uuid.UUID,
) (bool, error) {
	query := `
		UPDATE applications
		SET follow_up_sent = TRUE, follow_up_date = $1
		WHERE id = $2 AND user_id = $3 AND follow_up_sent = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id, userID)
	if err != nil {
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// WithTx implements store.ApplicationStore.WithTx
func (s *PostgresApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore {
	return &PostgresApplicationStore{db: tx}
}

func (s *PostgresApplicationStore) queryApplications(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]*domain.Application, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query applications", "error", err)
		return nil, MapError(err)
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return apps, nil
}

// scanApplication reads one application row. It works with *sql.Rows
// positioned on a row by the caller.
func scanApplication(rows *sql.Rows) (*domain.Application, error) {
	var app domain.Application
	var salary, timeline, suggestions []byte
	var jobDescription, jobURL, platform, location, notes, coverLetter sql.NullString
	var resumeUsed uuid.NullUUID
	var followUpDate sql.NullTime

	err := rows.Scan(
		&app.ID,
		&app.UserID,
		&app.Company,
		&app.Position,
		&jobDescription,
		&jobURL,
		&platform,
		&location,
		&salary,
		&app.Status,
		&app.AppliedDate,
		&app.LastUpdated,
		&timeline,
		&notes,
		&resumeUsed,
		&coverLetter,
		&suggestions,
		&app.FollowUpSent,
		&followUpDate,
		&app.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan application row: %w", err)
	}

	app.JobDescription = jobDescription.String
	app.JobURL = jobURL.String
	app.Platform = platform.String
	app.Location = location.String
	app.Notes = notes.String
	app.CoverLetter = coverLetter.String

	if resumeUsed.Valid {
		app.ResumeUsed = &resumeUsed.UUID
	}
	if followUpDate.Valid {
		t := followUpDate.Time.UTC()
		app.FollowUpDate = &t
	}

	if len(salary) > 0 {
		var sr domain.SalaryRange
		if err := json.Unmarshal(salary, &sr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal salary range: %w", err)
		}
		app.Salary = &sr
	}

	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &app.Timeline); err != nil {
			return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
		}
	}

	if len(suggestions) > 0 {
		var ai domain.AISuggestions
		if err := json.Unmarshal(suggestions, &ai); err != nil {
			return nil, fmt.Errorf("failed to unmarshal AI suggestions: %w", err)
		}
		app.AISuggestions = &ai
	}

	app.AppliedDate = app.AppliedDate.UTC()
	app.LastUpdated = app.LastUpdated.UTC()
	app.CreatedAt = app.CreatedAt.UTC()

	return &app, nil
}

// checkApplicationAffected converts a zero-rows-affected result into
// ErrApplicationNotFound.
func checkApplicationAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrApplicationNotFound
	}
	return nil
}

// marshalNullable serializes v to JSON, mapping a nil pointer to SQL NULL.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
