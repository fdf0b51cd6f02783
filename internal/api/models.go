package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// RegisterRequest holds the data for user registration requests
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest holds the data for user login requests
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest holds the data for token refresh requests
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned on successful registration, login, or refresh.
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       uuid.UUID `json:"user_id"`
}

// CreateApplicationRequest holds the data for creating a job application.
// Status is optional and defaults to "applied".
type CreateApplicationRequest struct {
	Company        string              `json:"company" validate:"required"`
	Position       string              `json:"position" validate:"required"`
	JobDescription string              `json:"job_description"`
	JobURL         string              `json:"job_url" validate:"omitempty,url"`
	Platform       string              `json:"platform"`
	Location       string              `json:"location"`
	Salary         *domain.SalaryRange `json:"salary_range"`
	Status         string              `json:"status"`
	Notes          string              `json:"notes"`
	ResumeUsed     *uuid.UUID          `json:"resume_used"`
}

// UpdateApplicationRequest holds the mutable descriptive fields of an
// application. Nil fields are left unchanged. Status is deliberately
// absent; status changes go through the dedicated status endpoint so the
// timeline invariant holds.
type UpdateApplicationRequest struct {
	Company        *string             `json:"company"`
	Position       *string             `json:"position"`
	JobDescription *string             `json:"job_description"`
	JobURL         *string             `json:"job_url"`
	Platform       *string             `json:"platform"`
	Location       *string             `json:"location"`
	Salary         *domain.SalaryRange `json:"salary_range"`
	Notes          *string             `json:"notes"`
	ResumeUsed     *uuid.UUID          `json:"resume_used"`
}

// UpdateStatusRequest holds the data for application status transitions.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateResumeRequest holds the metadata for registering an uploaded resume.
type CreateResumeRequest struct {
	FileName      string `json:"file_name" validate:"required"`
	FileURL       string `json:"file_url" validate:"omitempty,url"`
	ExtractedText string `json:"extracted_text"`
}

// AnalyzeResumeRequest holds the data for enqueueing a resume analysis job.
// Either resume_text or resume_id must be set; application_id optionally
// names the application the result should be written back to.
type AnalyzeResumeRequest struct {
	ResumeText     string     `json:"resume_text"`
	ResumeID       *uuid.UUID `json:"resume_id"`
	JobDescription string     `json:"job_description" validate:"required"`
	ApplicationID  *uuid.UUID `json:"application_id"`
}

// GenerateCoverLetterRequest holds the data for enqueueing a cover letter
// generation job.
type GenerateCoverLetterRequest struct {
	Position       string     `json:"position" validate:"required"`
	Company        string     `json:"company" validate:"required"`
	ResumeSummary  string     `json:"resume_summary" validate:"required"`
	JobDescription string     `json:"job_description" validate:"required"`
	ApplicationID  *uuid.UUID `json:"application_id"`
}

// JobEnqueuedResponse is returned when an AI job has been accepted.
type JobEnqueuedResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// JobStatusResponse describes the current state of an AI job. Result is
// only present once the job has completed.
type JobStatusResponse struct {
	JobID     uuid.UUID       `json:"job_id"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Error     string          `json:"error,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
