package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents where a job application sits in its lifecycle.
type ApplicationStatus string

// Possible application status values
const (
	ApplicationStatusApplied   ApplicationStatus = "applied"
	ApplicationStatusScreening ApplicationStatus = "screening"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusOffer     ApplicationStatus = "offer"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// Common validation errors for Application
var (
	ErrEmptyApplicationID     = errors.New("application ID cannot be empty")
	ErrEmptyApplicationUserID = errors.New("application user ID cannot be empty")
	ErrEmptyCompany           = errors.New("company name cannot be empty")
	ErrEmptyPosition          = errors.New("position cannot be empty")
	ErrInvalidStatus          = errors.New("invalid application status")
)

// TimelineEntry records a single status event in an application's history.
// The timeline is append-only: entries are never edited or removed.
type TimelineEntry struct {
	Status ApplicationStatus `json:"status"`
	Date   time.Time         `json:"date"`
	Notes  string            `json:"notes,omitempty"`
}

// SalaryRange holds the optional advertised salary band for a position.
type SalaryRange struct {
	Min      *int64 `json:"min,omitempty"`
	Max      *int64 `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// AISuggestions is the snapshot of the most recent resume analysis written
// back onto an application by the result reconciler.
type AISuggestions struct {
	AnalysisResult
	GeneratedAt time.Time `json:"generated_at"`
}

// Application represents a tracked job application owned by a user.
// Status mutations append exactly one timeline entry and refresh LastUpdated;
// LastUpdated is monotonically non-decreasing.
type Application struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	Company        string            `json:"company"`
	Position       string            `json:"position"`
	JobDescription string            `json:"job_description,omitempty"`
	JobURL         string            `json:"job_url,omitempty"`
	Platform       string            `json:"platform,omitempty"`
	Location       string            `json:"location,omitempty"`
	Salary         *SalaryRange      `json:"salary_range,omitempty"`
	Status         ApplicationStatus `json:"status"`
	AppliedDate    time.Time         `json:"applied_date"`
	LastUpdated    time.Time         `json:"last_updated"`
	Timeline       []TimelineEntry   `json:"timeline"`
	Notes          string            `json:"notes,omitempty"`
	ResumeUsed     *uuid.UUID        `json:"resume_used,omitempty"`
	CoverLetter    string            `json:"cover_letter,omitempty"`
	AISuggestions  *AISuggestions    `json:"ai_suggestions,omitempty"`
	FollowUpSent   bool              `json:"follow_up_sent"`
	FollowUpDate   *time.Time        `json:"follow_up_date,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewApplication creates a new Application for the given user with a seeded
// timeline containing a single entry for the initial status.
// Returns an error if validation fails.
func NewApplication(userID uuid.UUID, company, position string, status ApplicationStatus) (*Application, error) {
	now := time.Now().UTC()

	if status == "" {
		status = ApplicationStatusApplied
	}

	app := &Application{
		ID:          uuid.New(),
		UserID:      userID,
		Company:     company,
		Position:    position,
		Platform:    "Direct",
		Status:      status,
		AppliedDate: now,
		LastUpdated: now,
		Timeline: []TimelineEntry{
			{Status: status, Date: now},
		},
		CreatedAt: now,
	}

	if err := app.Validate(); err != nil {
		return nil, err
	}

	return app, nil
}

// Validate checks if the Application has valid data.
// Returns an error if any field fails validation.
func (a *Application) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyApplicationID
	}

	if a.UserID == uuid.Nil {
		return ErrEmptyApplicationUserID
	}

	if a.Company == "" {
		return ErrEmptyCompany
	}

	if a.Position == "" {
		return ErrEmptyPosition
	}

	if !IsValidApplicationStatus(a.Status) {
		return ErrInvalidStatus
	}

	return nil
}

// NewStatusChangeEntry builds the single timeline entry recorded for a
// status change. The timeline is never deduplicated: a change to the current
// status still gets an entry. Returns ErrInvalidStatus when the status is
// not one of the five valid values.
func NewStatusChangeEntry(status ApplicationStatus) (TimelineEntry, error) {
	if !IsValidApplicationStatus(status) {
		return TimelineEntry{}, ErrInvalidStatus
	}

	return TimelineEntry{
		Status: status,
		Date:   time.Now().UTC(),
		Notes:  fmt.Sprintf("Status changed to %s", status),
	}, nil
}

// IsValidApplicationStatus checks if the given status is one of the five
// valid application status values.
func IsValidApplicationStatus(status ApplicationStatus) bool {
	switch status {
	case ApplicationStatusApplied, ApplicationStatusScreening,
		ApplicationStatusInterview, ApplicationStatusOffer,
		ApplicationStatusRejected:
		return true
	default:
		return false
	}
}
