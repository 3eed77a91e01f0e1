package application

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
)

// Publisher pushes a freshly created notification to the recipient's live
// connections. Delivery is best-effort and must never fail a creation.
type Publisher interface {
	PublishNotification(ctx context.Context, n *domain.Notification) error
}

type NotificationService struct {
	repo      domain.NotificationRepository
	publisher Publisher
}

func NewNotificationService(repo domain.NotificationRepository, publisher Publisher) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher}
}

// Create persists at most one notification per (user, type, dedupe key).
// The returned bool reports whether a record was actually created; a
// suppressed duplicate returns (nil, false, nil): a no-op, not an error.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, title, message string, metadata domain.Metadata, dedupeKey string) (*domain.Notification, bool, error) {
	notification, err := domain.NewNotification(userID, typ, title, message, metadata, dedupeKey)
	if err != nil {
		return nil, false, err
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		if errors.Is(err, domain.ErrDuplicateNotification) {
			duplicatesSuppressedTotal.WithLabelValues(string(typ)).Inc()
			return nil, false, nil
		}
		return nil, false, err
	}
	notificationsCreatedTotal.WithLabelValues(string(typ)).Inc()

	// The record is durable at this point; an offline recipient catches up
	// through the pull path.
	if err := s.publisher.PublishNotification(ctx, notification); err != nil {
		log.Printf("[Notifications] push delivery failed for user %s: %v", userID, err)
	}

	return notification, true, nil
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) CountUserNotifications(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountByUserID(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
