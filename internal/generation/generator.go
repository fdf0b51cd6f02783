// Package generation defines the interface for producing resume analyses and
// cover letters from an external text-generation service. Concrete
// implementations live under internal/platform (see platform/gemini).
package generation

import (
	"context"

	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// CoverLetterRequest carries everything the generator needs to draft a cover
// letter for a single application.
type CoverLetterRequest struct {
	ResumeText     string
	JobDescription string
	Company        string
	Position       string
	ApplicantName  string
}

// Generator produces AI-derived content for job applications.
type Generator interface {
	// AnalyzeResume compares a resume against a job description and returns
	// a structured analysis. Implementations must return a result that
	// passes domain.AnalysisResult.Validate, or an error.
	AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*domain.AnalysisResult, error)

	// GenerateCoverLetter drafts a cover letter body for the given request.
	// The returned string is plain text, never empty on success.
	GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (string, error)
}
