package chat

import (
	"context"

	domain "gymhub/internal/domain/chat"
)

// Store persists chat messages, typing indicators and presence.
type Store interface {
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	SaveMessage(ctx context.Context, value domain.Message) error
	ListMessages(ctx context.Context, roomID string) ([]domain.Message, error)
	SetTyping(ctx context.Context, value domain.Typing) error
	ClearTyping(ctx context.Context, roomID, userID string) error
	ListTyping(ctx context.Context, roomID string) ([]domain.Typing, error)
	SavePresence(ctx context.Context, value domain.Presence) error
	GetPresence(ctx context.Context, userID string) (domain.Presence, error)
}
