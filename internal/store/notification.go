package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification record.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUser retrieves the user's notifications, most recent first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
}
