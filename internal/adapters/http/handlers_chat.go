package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainChat "gymhub/internal/domain/chat"
)

// streamKeepAlive is how often an idle event stream sends a comment line.
const streamKeepAlive = 25 * time.Second

func chatDeps() orchestrators.ChatDeps {
	return orchestrators.ChatDeps{
		Chat:       stores.ChatStore,
		Hub:        services.Hub,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	}
}

func chatFeedDeps() projections.ChatFeedDeps {
	return projections.ChatFeedDeps{Chat: stores.ChatStore, Hub: services.Hub}
}

// handleSendMessage handles POST /api/chat/rooms/{room}/messages
func handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Content string `json:"Content"`
		Type    string `json:"Type"`
		ReplyTo string `json:"ReplyTo"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteSendMessage(r.Context(), orchestrators.SendMessageInput{
		RoomID:   r.PathValue("room"),
		SenderID: sess.AccountID,
		Content:  input.Content,
		Type:     input.Type,
		ReplyTo:  input.ReplyTo,
	}, chatDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleMessageStatus handles POST /api/chat/messages/{id}/status
func handleMessageStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status string `json:"Status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteUpdateMessageStatus(r.Context(), r.PathValue("id"), input.Status, chatDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleReactToMessage handles POST /api/chat/messages/{id}/reactions
func handleReactToMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Emoji string `json:"Emoji"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, added, err := orchestrators.ExecuteReactToMessage(r.Context(), r.PathValue("id"), input.Emoji, sess.AccountID, chatDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message domainChat.Message `json:"Message"`
		Added   bool               `json:"Added"`
	}{m, added})
}

// handleEditMessage handles POST /api/chat/messages/{id}/edit
func handleEditMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Content string `json:"Content"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteEditMessage(r.Context(), r.PathValue("id"), sess.AccountID, input.Content, chatDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMessage handles DELETE /api/chat/messages/{id}
func handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	m, err := orchestrators.ExecuteDeleteMessage(r.Context(), r.PathValue("id"), sess.AccountID, chatDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleTyping handles POST /api/chat/rooms/{room}/typing
func handleTyping(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Typing bool `json:"Typing"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteSetTyping(r.Context(), r.PathValue("room"), sess.AccountID, input.Typing, chatDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetPresence handles POST /api/chat/presence
func handleSetPresence(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Online bool `json:"Online"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteSetPresence(r.Context(), sess.AccountID, input.Online, chatDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// latest returns a one-slot channel and a send func that never blocks.
// A value not yet received is replaced by the newer one.
func latest[T any]() (<-chan T, func(T)) {
	ch := make(chan T, 1)
	return ch, func(v T) {
		for {
			select {
			case ch <- v:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

// sseWriter writes server-sent events and flushes after each one.
type sseWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func (s sseWriter) event(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return s.rc.Flush()
}

func (s sseWriter) comment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	return s.rc.Flush()
}

// handleRoomStream handles GET /api/chat/rooms/{room}/stream
// Streams "messages" events with the full ordered room history and "typing"
// events with everyone typing except the caller. Each event carries the
// whole current state, so a slow client only misses intermediate states.
func handleRoomStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	roomID := r.PathValue("room")

	messages, pushMessages := latest[[]domainChat.Message]()
	typing, pushTyping := latest[[]domainChat.Typing]()

	unsubMessages, err := projections.Subscribe(ctx, roomID, pushMessages, chatFeedDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubMessages()
	unsubTyping, err := projections.SubscribeTyping(ctx, roomID, sess.AccountID, pushTyping, chatFeedDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubTyping()

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	out := sseWriter{w: w, rc: rc}

	slog.Info("chat_event", "event", "stream_opened", "room_id", roomID, "account_id", sess.AccountID)
	defer slog.Info("chat_event", "event", "stream_closed", "room_id", roomID, "account_id", sess.AccountID)

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case list := <-messages:
			err = out.event("messages", nonNil(list))
		case list := <-typing:
			err = out.event("typing", nonNil(list))
		case <-ticker.C:
			err = out.comment("ping")
		}
		if err != nil {
			return
		}
	}
}

// handlePresence handles GET /api/chat/presence/{user}
func handlePresence(w http.ResponseWriter, r *http.Request) {
	current, push := latest[domainChat.Presence]()
	unsub, err := projections.SubscribePresence(r.Context(), r.PathValue("user"), push, chatFeedDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	unsub()
	writeJSON(w, http.StatusOK, <-current)
}
