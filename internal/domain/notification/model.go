package notification

import (
	"errors"
	"strings"
	"time"
)

// MaxMessageLength bounds a single in-app notification.
const MaxMessageLength = 2000

// Domain errors
var (
	ErrEmptyMemberID  = errors.New("member ID cannot be empty")
	ErrEmptyMessage   = errors.New("notification message cannot be empty")
	ErrNotFound       = errors.New("notification not found")
	ErrMessageTooLong = errors.New("notification message cannot exceed 2000 characters")
)

// Notification is an in-app message addressed to one member.
type Notification struct {
	ID        string
	MemberID  string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notification) Validate() error {
	if n.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(n.Message) == "" {
		return ErrEmptyMessage
	}
	if len(n.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// MarkRead flags the notification as read. Marking twice is a no-op.
func (n *Notification) MarkRead() {
	n.Read = true
}
