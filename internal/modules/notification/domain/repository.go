package domain

import (
	"context"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	// Create persists a new notification. It returns
	// ErrDuplicateNotification when a record with the same
	// (user_id, type, dedupe_key) already exists.
	Create(ctx context.Context, notification *Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Notification, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	// MarkAllAsRead flips every unread record for the user and reports how
	// many rows were affected.
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int, error)
}
