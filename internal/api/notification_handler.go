package api

import (
	"net/http"

	"github.com/jobtrail/jobtrail-api/internal/api/shared"
	"github.com/jobtrail/jobtrail-api/internal/service"
)

// NotificationHandler handles notification API requests.
type NotificationHandler struct {
	followUps *service.FollowUpService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(followUps *service.FollowUpService) *NotificationHandler {
	return &NotificationHandler{followUps: followUps}
}

// List handles GET /notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	notifications, err := h.followUps.ListNotifications(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}
