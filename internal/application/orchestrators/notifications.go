package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/storage"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/notification"
)

// NotificationStore reads and writes notifications.
type NotificationStore interface {
	GetByID(ctx context.Context, id string) (notification.Notification, error)
	Save(ctx context.Context, n notification.Notification) error
}

// SendNotificationDeps holds dependencies for SendNotification.
type SendNotificationDeps struct {
	Notifications NotificationSaver
	GenerateID    func() string
	Now           func() time.Time
	Events        eventlog.Logger
}

// ExecuteSendNotification posts an unread in-app notification to one member.
// PRE: memberID and message non-empty
func ExecuteSendNotification(ctx context.Context, memberID, message string, deps SendNotificationDeps) (notification.Notification, error) {
	n := notification.Notification{
		ID:        newID(deps.GenerateID),
		MemberID:  memberID,
		Message:   message,
		CreatedAt: nowFrom(deps.Now),
	}
	if err := n.Validate(); err != nil {
		return notification.Notification{}, err
	}
	if err := deps.Notifications.Save(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("failed to save notification: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventNotificationSent, "member_id", memberID, "notification_id", n.ID))
	return n, nil
}

// ExecuteMarkNotificationRead marks a notification read. Marking twice is a no-op.
// POST: error is notification.ErrNotFound when the id is unknown
func ExecuteMarkNotificationRead(ctx context.Context, id string, store NotificationStore) (notification.Notification, error) {
	n, err := store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return notification.Notification{}, notification.ErrNotFound
	}
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to load notification: %w", err)
	}
	if n.Read {
		return n, nil
	}
	n.MarkRead()
	if err := store.Save(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("failed to save notification: %w", err)
	}
	return n, nil
}
