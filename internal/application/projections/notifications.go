package projections

import (
	"context"
	"fmt"

	domainNotification "gymhub/internal/domain/notification"
)

// NotificationsResult carries a member's notifications and how many are unread.
type NotificationsResult struct {
	Notifications []domainNotification.Notification
	Unread        int
}

// QueryNotificationsForMember lists a member's in-app notifications.
func QueryNotificationsForMember(ctx context.Context, memberID string, store NotificationStore) (NotificationsResult, error) {
	if memberID == "" {
		return NotificationsResult{}, domainNotification.ErrEmptyMemberID
	}
	list, err := store.ListByMemberID(ctx, memberID)
	if err != nil {
		return NotificationsResult{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	result := NotificationsResult{Notifications: list}
	for _, n := range list {
		if !n.Read {
			result.Unread++
		}
	}
	return result, nil
}
