package notification

import (
	"context"

	domain "gymhub/internal/domain/notification"
)

// Store persists in-app notifications.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	Save(ctx context.Context, n domain.Notification) error
	// ListByMemberID returns a member's notifications, newest first.
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Notification, error)
}
