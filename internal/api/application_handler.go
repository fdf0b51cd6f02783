package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jobtrail/jobtrail-api/internal/api/shared"
	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/service"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// ApplicationHandler handles job application API requests.
type ApplicationHandler struct {
	applications *service.ApplicationService
	stats        *service.StatsService
	validator    *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(
	applications *service.ApplicationService,
	stats *service.StatsService,
) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		stats:        stats,
		validator:    validator.New(),
	}
}

// Create handles POST /applications.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateApplicationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	status := domain.ApplicationStatus(req.Status)
	if req.Status != "" && !domain.IsValidApplicationStatus(status) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid application status")
		return
	}

	app, err := domain.NewApplication(userID, req.Company, req.Position, status)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid application data: "+err.Error())
		return
	}

	app.JobDescription = req.JobDescription
	app.JobURL = req.JobURL
	if req.Platform != "" {
		app.Platform = req.Platform
	}
	app.Location = req.Location
	app.Salary = req.Salary
	app.Notes = req.Notes
	app.ResumeUsed = req.ResumeUsed

	if err := h.applications.CreateApplication(r.Context(), app); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, app)
}

// List handles GET /applications. Query parameters filter and sort:
// status, platform, company, sort (applied_date|last_updated), order
// (asc|desc).
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := r.URL.Query()

	filters := store.ApplicationFilters{
		Platform:   q.Get("platform"),
		Company:    q.Get("company"),
		SortBy:     q.Get("sort"),
		Descending: q.Get("order") != "asc",
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.ApplicationStatus(raw)
		if !domain.IsValidApplicationStatus(status) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid application status")
			return
		}
		filters.Status = status
	}

	apps, err := h.applications.ListApplications(r.Context(), userID, filters)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, apps)
}

// Get handles GET /applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	app, err := h.applications.GetApplication(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, app)
}

// Update handles PUT /applications/{id}. Only descriptive fields change
// here; status transitions have their own endpoint.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateApplicationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	app, err := h.applications.GetApplication(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	applyApplicationUpdate(app, &req)

	if err := h.applications.UpdateApplication(r.Context(), app); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, app)
}

// UpdateStatus handles PATCH /applications/{id}/status.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	app, err := h.applications.UpdateStatus(
		r.Context(), id, userID, domain.ApplicationStatus(req.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, app)
}

// Delete handles DELETE /applications/{id}.
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.applications.DeleteApplication(r.Context(), id, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /applications/stats, returning the caller's monthly
// aggregate rows, newest month first.
func (h *ApplicationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Recompute the current month before listing so the newest row reflects
	// record state at read time. Aggregates are derived data, so a refresh
	// failure degrades to serving the last computed rows.
	if err := h.stats.UpdateMonthlyStats(r.Context(), userID); err != nil {
		slog.Warn("failed to refresh monthly stats before listing",
			"error", err, "user_id", userID)
	}

	rows, err := h.stats.GetUserStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rows)
}

// applyApplicationUpdate overlays the non-nil request fields onto the
// loaded application.
func applyApplicationUpdate(app *domain.Application, req *UpdateApplicationRequest) {
	if req.Company != nil {
		app.Company = *req.Company
	}
	if req.Position != nil {
		app.Position = *req.Position
	}
	if req.JobDescription != nil {
		app.JobDescription = *req.JobDescription
	}
	if req.JobURL != nil {
		app.JobURL = *req.JobURL
	}
	if req.Platform != nil {
		app.Platform = *req.Platform
	}
	if req.Location != nil {
		app.Location = *req.Location
	}
	if req.Salary != nil {
		app.Salary = req.Salary
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.ResumeUsed != nil {
		app.ResumeUsed = req.ResumeUsed
	}
}
