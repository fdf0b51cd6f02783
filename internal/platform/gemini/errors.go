package gemini

import "errors"

var (
	// ErrEmptyResume indicates the resume text provided for generation was empty.
	ErrEmptyResume = errors.New("resume text cannot be empty")

	// ErrEmptyJobDescription indicates the job description provided for generation was empty.
	ErrEmptyJobDescription = errors.New("job description cannot be empty")
)
