package task

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Payload validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrMissingResume       = errors.New("either resume text or a resume ID is required")
	ErrEmptyJobDescription = errors.New("job description cannot be empty")
	ErrEmptyPosition       = errors.New("position cannot be empty")
	ErrEmptyCompany        = errors.New("company cannot be empty")
	ErrEmptyResumeSummary  = errors.New("resume summary cannot be empty")
)

// AnalyzeResumePayload is the input for an analyze_resume task. Resume text
// may be supplied directly or referenced by ID; direct text takes precedence.
// ApplicationID is optional: when absent the analysis is only surfaced
// through job polling, never written to a record.
type AnalyzeResumePayload struct {
	ResumeText     string     `json:"resume_text,omitempty"`
	ResumeID       *uuid.UUID `json:"resume_id,omitempty"`
	JobDescription string     `json:"job_description"`
	ApplicationID  *uuid.UUID `json:"application_id,omitempty"`
}

// Validate checks the payload before it is persisted. Enqueue callers run
// this first so an invalid payload never produces a job handle.
func (p AnalyzeResumePayload) Validate() error {
	if strings.TrimSpace(p.ResumeText) == "" && (p.ResumeID == nil || *p.ResumeID == uuid.Nil) {
		return ErrMissingResume
	}
	if strings.TrimSpace(p.JobDescription) == "" {
		return ErrEmptyJobDescription
	}
	return nil
}

// CoverLetterPayload is the input for a generate_cover_letter task. All four
// string fields are required; ApplicationID is optional with the same
// polling-only contract as AnalyzeResumePayload.
type CoverLetterPayload struct {
	Position       string     `json:"position"`
	Company        string     `json:"company"`
	ResumeSummary  string     `json:"resume_summary"`
	JobDescription string     `json:"job_description"`
	ApplicationID  *uuid.UUID `json:"application_id,omitempty"`
}

// Validate checks the payload before it is persisted.
func (p CoverLetterPayload) Validate() error {
	if strings.TrimSpace(p.Position) == "" {
		return ErrEmptyPosition
	}
	if strings.TrimSpace(p.Company) == "" {
		return ErrEmptyCompany
	}
	if strings.TrimSpace(p.ResumeSummary) == "" {
		return ErrEmptyResumeSummary
	}
	if strings.TrimSpace(p.JobDescription) == "" {
		return ErrEmptyJobDescription
	}
	return nil
}
