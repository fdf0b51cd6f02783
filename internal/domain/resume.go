package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Resume
var (
	ErrEmptyResumeID       = errors.New("resume ID cannot be empty")
	ErrEmptyResumeUserID   = errors.New("resume user ID cannot be empty")
	ErrEmptyResumeFileName = errors.New("resume file name cannot be empty")
)

// Resume represents an uploaded resume's metadata and extracted text.
// File storage and text extraction happen outside the core; this record
// only carries their results.
type Resume struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	FileName      string    `json:"file_name"`
	FileURL       string    `json:"file_url,omitempty"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	Version       string    `json:"version"`
	IsDefault     bool      `json:"is_default"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// NewResume creates a new Resume with the given owner and file metadata.
// New resumes are never the default; promoting one is an explicit service
// operation so the one-default-per-user invariant stays testable.
func NewResume(userID uuid.UUID, fileName, fileURL, extractedText string) (*Resume, error) {
	resume := &Resume{
		ID:            uuid.New(),
		UserID:        userID,
		FileName:      fileName,
		FileURL:       fileURL,
		ExtractedText: extractedText,
		Version:       "v1",
		IsDefault:     false,
		UploadedAt:    time.Now().UTC(),
	}

	if err := resume.Validate(); err != nil {
		return nil, err
	}

	return resume, nil
}

// Validate checks if the Resume has valid data.
func (r *Resume) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyResumeID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyResumeUserID
	}

	if r.FileName == "" {
		return ErrEmptyResumeFileName
	}

	return nil
}
