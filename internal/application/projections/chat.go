package projections

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gymhub/internal/adapters/realtime"
	"gymhub/internal/adapters/storage"
	domainChat "gymhub/internal/domain/chat"
)

// ChatFeedDeps holds dependencies for chat subscriptions.
type ChatFeedDeps struct {
	Chat ChatStore
	Hub  Subscriber
}

// Subscribe streams a room's messages ordered by send time.
// fn receives the current list once, then the full list after every change.
// PRE: fn does not block
// POST: Deliveries are serialized; the caller must call the returned func to stop
func Subscribe(ctx context.Context, roomID string, fn func([]domainChat.Message), deps ChatFeedDeps) (realtime.Unsubscribe, error) {
	if roomID == "" {
		return nil, domainChat.ErrEmptyRoomID
	}
	var (
		mu       sync.Mutex
		messages []domainChat.Message
	)
	emitCopy := func() {
		out := make([]domainChat.Message, len(messages))
		copy(out, messages)
		fn(out)
	}

	mu.Lock()
	defer mu.Unlock()
	unsub := deps.Hub.Subscribe(realtime.RoomTopic(roomID), func(e realtime.Event) {
		m, ok := e.Payload.(domainChat.Message)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		messages = upsertMessage(messages, m)
		emitCopy()
	})
	list, err := deps.Chat.ListMessages(ctx, roomID)
	if err != nil {
		unsub()
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	messages = list
	emitCopy()
	return unsub, nil
}

func upsertMessage(messages []domainChat.Message, m domainChat.Message) []domainChat.Message {
	for i := range messages {
		if messages[i].ID == m.ID {
			messages[i] = m
			return messages
		}
	}
	messages = append(messages, m)
	sort.SliceStable(messages, func(i, j int) bool { return messages[i].SentAt.Before(messages[j].SentAt) })
	return messages
}

// SubscribeTyping streams who is typing in a room, excluding viewerID.
// fn receives the current set once, then the full set after every change, ordered by user ID.
// PRE: fn does not block
func SubscribeTyping(ctx context.Context, roomID, viewerID string, fn func([]domainChat.Typing), deps ChatFeedDeps) (realtime.Unsubscribe, error) {
	if roomID == "" {
		return nil, domainChat.ErrEmptyRoomID
	}
	var mu sync.Mutex
	typing := make(map[string]domainChat.Typing)
	emitSet := func() {
		out := make([]domainChat.Typing, 0, len(typing))
		for _, t := range typing {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
		fn(out)
	}

	mu.Lock()
	defer mu.Unlock()
	unsub := deps.Hub.Subscribe(realtime.TypingTopic(roomID), func(e realtime.Event) {
		t, ok := e.Payload.(domainChat.Typing)
		if !ok || t.UserID == viewerID {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if t.At.IsZero() {
			delete(typing, t.UserID)
		} else {
			typing[t.UserID] = t
		}
		emitSet()
	})
	list, err := deps.Chat.ListTyping(ctx, roomID)
	if err != nil {
		unsub()
		return nil, fmt.Errorf("failed to list typing: %w", err)
	}
	for _, t := range list {
		if t.UserID != viewerID {
			typing[t.UserID] = t
		}
	}
	emitSet()
	return unsub, nil
}

// SubscribePresence streams a user's online status.
// A user never seen reads as offline.
// PRE: fn does not block
func SubscribePresence(ctx context.Context, userID string, fn func(domainChat.Presence), deps ChatFeedDeps) (realtime.Unsubscribe, error) {
	if userID == "" {
		return nil, domainChat.ErrEmptySenderID
	}
	var mu sync.Mutex
	mu.Lock()
	defer mu.Unlock()
	unsub := deps.Hub.Subscribe(realtime.PresenceTopic(userID), func(e realtime.Event) {
		p, ok := e.Payload.(domainChat.Presence)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fn(p)
	})
	p, err := deps.Chat.GetPresence(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		p = domainChat.Presence{UserID: userID}
	case err != nil:
		unsub()
		return nil, fmt.Errorf("failed to load presence: %w", err)
	}
	fn(p)
	return unsub, nil
}
