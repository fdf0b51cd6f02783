package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jobtrail/jobtrail-api/internal/api/shared"
	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/service"
)

// ResumeHandler handles resume metadata API requests.
type ResumeHandler struct {
	resumes   *service.ResumeService
	validator *validator.Validate
}

// NewResumeHandler creates a new ResumeHandler with the given dependencies.
func NewResumeHandler(resumes *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		resumes:   resumes,
		validator: validator.New(),
	}
}

// Create handles POST /resumes. Upload and text extraction happen
// elsewhere; this registers the result.
func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateResumeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	resume, err := domain.NewResume(userID, req.FileName, req.FileURL, req.ExtractedText)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid resume data: "+err.Error())
		return
	}

	if err := h.resumes.CreateResume(r.Context(), resume); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, resume)
}

// List handles GET /resumes.
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	resumes, err := h.resumes.ListResumes(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resumes)
}

// Get handles GET /resumes/{id}.
func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resume, err := h.resumes.GetResume(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resume)
}

// SetDefault handles PUT /resumes/{id}/default.
func (h *ResumeHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.resumes.SetDefaultResume(r.Context(), id, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	resume, err := h.resumes.GetResume(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resume)
}

// Delete handles DELETE /resumes/{id}.
func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.resumes.DeleteResume(r.Context(), id, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
