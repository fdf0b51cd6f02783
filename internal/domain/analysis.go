package domain

import "errors"

// Common validation errors for AnalysisResult
var (
	ErrMissingAnalysisField = errors.New("analysis result is missing a required field")
	ErrMatchScoreOutOfRange = errors.New("match score must be between 0 and 100")
)

// AnalysisResult is the structured output of a resume-to-job-description
// analysis. All five list fields must be present (possibly empty) and
// MatchScore must be an integer in [0, 100].
type AnalysisResult struct {
	Keywords              []string `json:"keywords"`
	MissingKeywords       []string `json:"missingKeywords"`
	SkillsToEmphasize     []string `json:"skillsToEmphasize"`
	ExperienceToHighlight []string `json:"experienceToHighlight"`
	RecommendedChanges    []string `json:"recommendedChanges"`
	MatchScore            int      `json:"matchScore"`
}

// Validate checks the AnalysisResult invariants: every list field present
// and the match score within range. A nil slice indicates the field was
// absent from the collaborator's response.
func (r *AnalysisResult) Validate() error {
	if r.Keywords == nil || r.MissingKeywords == nil || r.SkillsToEmphasize == nil ||
		r.ExperienceToHighlight == nil || r.RecommendedChanges == nil {
		return ErrMissingAnalysisField
	}

	if r.MatchScore < 0 || r.MatchScore > 100 {
		return ErrMatchScoreOutOfRange
	}

	return nil
}
