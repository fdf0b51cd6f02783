package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what prompted a notification.
type NotificationType string

// Possible notification types
const (
	NotificationTypeFollowUp NotificationType = "follow_up"
)

// ErrEmptyNotificationMessage is returned when a notification has no message.
var ErrEmptyNotificationMessage = errors.New("notification message cannot be empty")

// Notification records that the system notified a user about one of their
// applications, e.g. a follow-up reminder email.
type Notification struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	ApplicationID uuid.UUID        `json:"application_id"`
	Type          NotificationType `json:"type"`
	Message       string           `json:"message"`
	SentAt        time.Time        `json:"sent_at"`
}

// NewNotification creates a new Notification for the given user and application.
func NewNotification(userID, applicationID uuid.UUID, typ NotificationType, message string) (*Notification, error) {
	if message == "" {
		return nil, ErrEmptyNotificationMessage
	}

	return &Notification{
		ID:            uuid.New(),
		UserID:        userID,
		ApplicationID: applicationID,
		Type:          typ,
		Message:       message,
		SentAt:        time.Now().UTC(),
	}, nil
}
