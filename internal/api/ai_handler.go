package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jobtrail/jobtrail-api/internal/api/shared"
	"github.com/jobtrail/jobtrail-api/internal/service"
	"github.com/jobtrail/jobtrail-api/internal/task"
)

// AIHandler handles AI job API requests. Enqueue endpoints return 202 with
// a job ID; clients poll the job status endpoint for completion.
type AIHandler struct {
	ai        *service.AIService
	validator *validator.Validate
}

// NewAIHandler creates a new AIHandler with the given dependencies.
func NewAIHandler(ai *service.AIService) *AIHandler {
	return &AIHandler{
		ai:        ai,
		validator: validator.New(),
	}
}

// AnalyzeResume handles POST /ai/analyze-resume.
func (h *AIHandler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AnalyzeResumeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	payload := task.AnalyzeResumePayload{
		ResumeText:     req.ResumeText,
		ResumeID:       req.ResumeID,
		JobDescription: req.JobDescription,
		ApplicationID:  req.ApplicationID,
	}

	jobID, err := h.ai.EnqueueAnalyzeResume(r.Context(), userID, payload)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, JobEnqueuedResponse{
		JobID:  jobID,
		Status: string(task.TaskStatusPending),
	})
}

// GenerateCoverLetter handles POST /ai/cover-letter.
func (h *AIHandler) GenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req GenerateCoverLetterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	payload := task.CoverLetterPayload{
		Position:       req.Position,
		Company:        req.Company,
		ResumeSummary:  req.ResumeSummary,
		JobDescription: req.JobDescription,
		ApplicationID:  req.ApplicationID,
	}

	jobID, err := h.ai.EnqueueCoverLetter(r.Context(), userID, payload)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, JobEnqueuedResponse{
		JobID:  jobID,
		Status: string(task.TaskStatusPending),
	})
}

// GetJobStatus handles GET /ai/jobs/{id}.
func (h *AIHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	jobID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	info, err := h.ai.GetJobStatus(r.Context(), jobID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, JobStatusResponse{
		JobID:     info.ID,
		Type:      info.Type,
		Status:    string(info.Status),
		Error:     info.ErrorMessage,
		Result:    info.Result,
		CreatedAt: info.CreatedAt,
		UpdatedAt: info.UpdatedAt,
	})
}
