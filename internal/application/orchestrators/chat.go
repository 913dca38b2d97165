package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/realtime"
	"gymhub/internal/adapters/storage"
	"gymhub/internal/domain/chat"
	domainEvent "gymhub/internal/domain/eventlog"
)

// ErrNotAuthor is returned when a user changes a message they did not send.
var ErrNotAuthor = errors.New("only the sender can change this message")

// Realtime change kinds published on the hub.
const (
	KindMessageCreated = "message_created"
	KindMessageUpdated = "message_updated"
	KindTyping         = "typing"
	KindPresence       = "presence"
)

// ChatStore is the chat persistence surface used by commands.
type ChatStore interface {
	GetMessage(ctx context.Context, id string) (chat.Message, error)
	SaveMessage(ctx context.Context, m chat.Message) error
	SetTyping(ctx context.Context, t chat.Typing) error
	ClearTyping(ctx context.Context, roomID, userID string) error
	SavePresence(ctx context.Context, p chat.Presence) error
}

// Publisher broadcasts realtime changes.
type Publisher interface {
	Publish(e realtime.Event)
}

// ChatDeps holds dependencies for chat commands.
type ChatDeps struct {
	Chat       ChatStore
	Hub        Publisher // optional
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

func (d ChatDeps) publish(topic, kind string, payload any) {
	if d.Hub != nil {
		d.Hub.Publish(realtime.Event{Topic: topic, Kind: kind, Payload: payload})
	}
}

func loadMessage(ctx context.Context, store ChatStore, id string) (chat.Message, error) {
	m, err := store.GetMessage(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return chat.Message{}, chat.ErrNotFound
	}
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to load message %s: %w", id, err)
	}
	return m, nil
}

// SendMessageInput carries a new chat message.
type SendMessageInput struct {
	RoomID   string
	SenderID string
	Content  string
	Type     string // empty is text
	ReplyTo  string
}

// ExecuteSendMessage stores a message with status sent and publishes it to the room.
func ExecuteSendMessage(ctx context.Context, input SendMessageInput, deps ChatDeps) (chat.Message, error) {
	m := chat.Message{
		ID:        newID(deps.GenerateID),
		RoomID:    input.RoomID,
		SenderID:  input.SenderID,
		Content:   input.Content,
		Type:      input.Type,
		Status:    chat.StatusSent,
		ReplyTo:   input.ReplyTo,
		Reactions: map[string][]string{},
		SentAt:    nowFrom(deps.Now),
	}
	if m.Type == "" {
		m.Type = chat.TypeText
	}
	if err := m.Validate(); err != nil {
		return chat.Message{}, err
	}
	if err := deps.Chat.SaveMessage(ctx, m); err != nil {
		return chat.Message{}, fmt.Errorf("failed to save message: %w", err)
	}
	// Sending ends the sender's typing indicator.
	if err := deps.Chat.ClearTyping(ctx, m.RoomID, m.SenderID); err == nil {
		deps.publish(realtime.TypingTopic(m.RoomID), KindTyping, chat.Typing{RoomID: m.RoomID, UserID: m.SenderID})
	}
	deps.publish(realtime.RoomTopic(m.RoomID), KindMessageCreated, m)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventMessageSent, "room_id", m.RoomID, "message_id", m.ID).WithActor(m.SenderID))
	return m, nil
}

func saveAndPublish(ctx context.Context, m chat.Message, deps ChatDeps) (chat.Message, error) {
	if err := deps.Chat.SaveMessage(ctx, m); err != nil {
		return chat.Message{}, fmt.Errorf("failed to save message: %w", err)
	}
	deps.publish(realtime.RoomTopic(m.RoomID), KindMessageUpdated, m)
	return m, nil
}

// ExecuteUpdateMessageStatus sets the delivery status of a message.
func ExecuteUpdateMessageStatus(ctx context.Context, messageID, status string, deps ChatDeps) (chat.Message, error) {
	if !chat.IsValidStatus(status) {
		return chat.Message{}, chat.ErrInvalidStatus
	}
	m, err := loadMessage(ctx, deps.Chat, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	m.Status = status
	return saveAndPublish(ctx, m, deps)
}

// ExecuteReactToMessage toggles userID in the emoji's reaction set.
// POST: added reports whether the reaction is now present
func ExecuteReactToMessage(ctx context.Context, messageID, emoji, userID string, deps ChatDeps) (chat.Message, bool, error) {
	if emoji == "" {
		return chat.Message{}, false, chat.ErrEmptyEmoji
	}
	m, err := loadMessage(ctx, deps.Chat, messageID)
	if err != nil {
		return chat.Message{}, false, err
	}
	if m.Deleted {
		return chat.Message{}, false, chat.ErrDeleted
	}
	added := m.ToggleReaction(emoji, userID)
	m, err = saveAndPublish(ctx, m, deps)
	return m, added, err
}

// ExecuteEditMessage replaces a message's content.
// PRE: userID is the sender; the message is not deleted
func ExecuteEditMessage(ctx context.Context, messageID, userID, content string, deps ChatDeps) (chat.Message, error) {
	m, err := loadMessage(ctx, deps.Chat, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if m.SenderID != userID {
		return chat.Message{}, ErrNotAuthor
	}
	if err := m.Edit(content, nowFrom(deps.Now)); err != nil {
		return chat.Message{}, err
	}
	return saveAndPublish(ctx, m, deps)
}

// ExecuteDeleteMessage soft-deletes a message. Deleting twice is a no-op.
// PRE: userID is the sender
func ExecuteDeleteMessage(ctx context.Context, messageID, userID string, deps ChatDeps) (chat.Message, error) {
	m, err := loadMessage(ctx, deps.Chat, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if m.SenderID != userID {
		return chat.Message{}, ErrNotAuthor
	}
	if m.Deleted {
		return m, nil
	}
	m.SoftDelete(nowFrom(deps.Now))
	return saveAndPublish(ctx, m, deps)
}

// ExecuteSetTyping sets or clears the roomId_userId typing indicator.
func ExecuteSetTyping(ctx context.Context, roomID, userID string, typing bool, deps ChatDeps) error {
	if roomID == "" {
		return chat.ErrEmptyRoomID
	}
	if userID == "" {
		return chat.ErrEmptySenderID
	}
	t := chat.Typing{RoomID: roomID, UserID: userID}
	if typing {
		t.At = nowFrom(deps.Now)
		if err := deps.Chat.SetTyping(ctx, t); err != nil {
			return fmt.Errorf("failed to set typing: %w", err)
		}
	} else if err := deps.Chat.ClearTyping(ctx, roomID, userID); err != nil {
		return fmt.Errorf("failed to clear typing: %w", err)
	}
	deps.publish(realtime.TypingTopic(roomID), KindTyping, t)
	return nil
}

// ExecuteSetPresence records whether a user is online.
func ExecuteSetPresence(ctx context.Context, userID string, online bool, deps ChatDeps) (chat.Presence, error) {
	if userID == "" {
		return chat.Presence{}, chat.ErrEmptySenderID
	}
	p := chat.Presence{UserID: userID, Online: online, LastActive: nowFrom(deps.Now)}
	if err := deps.Chat.SavePresence(ctx, p); err != nil {
		return chat.Presence{}, fmt.Errorf("failed to save presence: %w", err)
	}
	deps.publish(realtime.PresenceTopic(userID), KindPresence, p)
	return p, nil
}
