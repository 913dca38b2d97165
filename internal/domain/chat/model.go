package chat

import (
	"errors"
	"strings"
	"time"
)

// Message types
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeFile  = "file"
)

// Delivery statuses
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// MaxContentLength bounds message content.
const MaxContentLength = 4000

// Domain errors
var (
	ErrEmptyRoomID    = errors.New("room ID cannot be empty")
	ErrEmptySenderID  = errors.New("sender ID cannot be empty")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrInvalidType    = errors.New("message type must be 'text', 'image', or 'file'")
	ErrInvalidStatus  = errors.New("message status must be 'sent', 'delivered', or 'read'")
	ErrNotFound       = errors.New("message not found")
	ErrDeleted        = errors.New("message has been deleted")
	ErrEmptyEmoji     = errors.New("emoji cannot be empty")
	ErrContentTooLong = errors.New("message content cannot exceed 4000 characters")
)

// Message is a chat message in a room.
type Message struct {
	ID        string
	RoomID    string
	SenderID  string
	Content   string
	Type      string
	Status    string
	ReplyTo   string
	Reactions map[string][]string // emoji -> user IDs
	SentAt    time.Time
	Edited    bool
	EditedAt  time.Time
	Deleted   bool
	DeletedAt time.Time
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.RoomID == "" {
		return ErrEmptyRoomID
	}
	if m.SenderID == "" {
		return ErrEmptySenderID
	}
	if strings.TrimSpace(m.Content) == "" {
		return ErrEmptyContent
	}
	if len(m.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	switch m.Type {
	case TypeText, TypeImage, TypeFile:
	default:
		return ErrInvalidType
	}
	if !IsValidStatus(m.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether s is a known delivery status.
func IsValidStatus(s string) bool {
	return s == StatusSent || s == StatusDelivered || s == StatusRead
}

// ToggleReaction adds userID to the emoji's set, or removes it when present.
// Returns true when the reaction was added. Empty sets are dropped.
func (m *Message) ToggleReaction(emoji, userID string) bool {
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}
	users := m.Reactions[emoji]
	for i, u := range users {
		if u == userID {
			users = append(users[:i], users[i+1:]...)
			if len(users) == 0 {
				delete(m.Reactions, emoji)
			} else {
				m.Reactions[emoji] = users
			}
			return false
		}
	}
	m.Reactions[emoji] = append(users, userID)
	return true
}

// Edit replaces the content and flags the message as edited.
func (m *Message) Edit(content string, at time.Time) error {
	if m.Deleted {
		return ErrDeleted
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	m.Content = content
	m.Edited = true
	m.EditedAt = at
	return nil
}

// SoftDelete flags the message as deleted; content is retained.
func (m *Message) SoftDelete(at time.Time) {
	if m.Deleted {
		return
	}
	m.Deleted = true
	m.DeletedAt = at
}

// Typing marks a user as typing in a room.
// INVARIANT: identity is TypingKey(RoomID, UserID)
type Typing struct {
	RoomID string
	UserID string
	At     time.Time
}

// TypingKey returns the `roomId_userId` identity of a typing indicator.
func TypingKey(roomID, userID string) string {
	return roomID + "_" + userID
}

// Presence is a user's online status.
type Presence struct {
	UserID     string
	Online     bool
	LastActive time.Time
}
