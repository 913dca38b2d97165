package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/chat"
)

const messageColumns = "id, room_id, sender_id, content, type, status, reply_to, reactions, sent_at, edited, edited_at, deleted, deleted_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new chat store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (domain.Message, error) {
	var m domain.Message
	var reactions, sent string
	var edited, deleted int
	var editedAt, deletedAt sql.NullString
	if err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.Type, &m.Status, &m.ReplyTo,
		&reactions, &sent, &edited, &editedAt, &deleted, &deletedAt); err != nil {
		return domain.Message{}, err
	}
	if err := json.Unmarshal([]byte(reactions), &m.Reactions); err != nil {
		return domain.Message{}, fmt.Errorf("failed to decode reactions: %w", err)
	}
	m.Edited, m.Deleted = edited == 1, deleted == 1
	var err error
	if m.SentAt, err = storage.ParseTime(sent); err != nil {
		return domain.Message{}, fmt.Errorf("failed to parse sent_at: %w", err)
	}
	if m.EditedAt, err = storage.ParseNullTime(editedAt); err != nil {
		return domain.Message{}, fmt.Errorf("failed to parse edited_at: %w", err)
	}
	if m.DeletedAt, err = storage.ParseNullTime(deletedAt); err != nil {
		return domain.Message{}, fmt.Errorf("failed to parse deleted_at: %w", err)
	}
	return m, nil
}

// GetMessage retrieves a message by ID.
// POST: error wraps storage.ErrNotFound when missing
func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM chat_message WHERE id = ?", id))
	if err != nil {
		return domain.Message{}, storage.NotFound("chat message", err)
	}
	return m, nil
}

// SaveMessage upserts a message.
// PRE: message has been validated
func (s *SQLiteStore) SaveMessage(ctx context.Context, m domain.Message) error {
	reactions := m.Reactions
	if reactions == nil {
		reactions = map[string][]string{}
	}
	encoded, err := json.Marshal(reactions)
	if err != nil {
		return fmt.Errorf("failed to encode reactions: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_message (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content=excluded.content, status=excluded.status, reactions=excluded.reactions,
		   edited=excluded.edited, edited_at=excluded.edited_at, deleted=excluded.deleted, deleted_at=excluded.deleted_at`,
		m.ID, m.RoomID, m.SenderID, m.Content, m.Type, m.Status, m.ReplyTo, string(encoded),
		storage.FormatTime(m.SentAt), storage.BoolInt(m.Edited), storage.NullTime(m.EditedAt),
		storage.BoolInt(m.Deleted), storage.NullTime(m.DeletedAt))
	return err
}

// ListMessages returns a room's messages in send order, including soft-deleted ones.
func (s *SQLiteStore) ListMessages(ctx context.Context, roomID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM chat_message WHERE room_id = ? ORDER BY sent_at ASC, id ASC", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// SetTyping upserts the roomId_userId indicator.
func (s *SQLiteStore) SetTyping(ctx context.Context, t domain.Typing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO typing_status (id, room_id, user_id, at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET at=excluded.at`,
		domain.TypingKey(t.RoomID, t.UserID), t.RoomID, t.UserID, storage.FormatTime(t.At))
	return err
}

// ClearTyping removes the roomId_userId indicator. Clearing an absent indicator is not an error.
func (s *SQLiteStore) ClearTyping(ctx context.Context, roomID, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM typing_status WHERE id = ?", domain.TypingKey(roomID, userID))
	return err
}

// ListTyping returns everyone currently typing in a room.
func (s *SQLiteStore) ListTyping(ctx context.Context, roomID string) ([]domain.Typing, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT room_id, user_id, at FROM typing_status WHERE room_id = ? ORDER BY at ASC", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Typing
	for rows.Next() {
		var t domain.Typing
		var at string
		if err := rows.Scan(&t.RoomID, &t.UserID, &at); err != nil {
			return nil, err
		}
		if t.At, err = storage.ParseTime(at); err != nil {
			return nil, fmt.Errorf("failed to parse at: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// SavePresence upserts a user's presence.
func (s *SQLiteStore) SavePresence(ctx context.Context, p domain.Presence) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO presence (user_id, online, last_active) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET online=excluded.online, last_active=excluded.last_active`,
		p.UserID, storage.BoolInt(p.Online), storage.FormatTime(p.LastActive))
	return err
}

// GetPresence retrieves a user's presence.
// POST: error wraps storage.ErrNotFound when the user was never seen
func (s *SQLiteStore) GetPresence(ctx context.Context, userID string) (domain.Presence, error) {
	var p domain.Presence
	var online int
	var last string
	err := s.db.QueryRowContext(ctx, "SELECT user_id, online, last_active FROM presence WHERE user_id = ?", userID).
		Scan(&p.UserID, &online, &last)
	if err != nil {
		return domain.Presence{}, storage.NotFound("presence", err)
	}
	p.Online = online == 1
	if p.LastActive, err = storage.ParseTime(last); err != nil {
		return domain.Presence{}, fmt.Errorf("failed to parse last_active: %w", err)
	}
	return p, nil
}
