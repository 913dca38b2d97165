package notification

import (
	"context"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/notification"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new notification store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a notification.
// POST: error wraps storage.ErrNotFound when missing
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	var n domain.Notification
	var read int
	var created string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, member_id, message, read, created_at FROM notification WHERE id = ?", id).
		Scan(&n.ID, &n.MemberID, &n.Message, &read, &created)
	if err != nil {
		return domain.Notification{}, storage.NotFound("notification", err)
	}
	n.Read = read == 1
	if n.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return n, nil
}

// Save upserts a notification.
// PRE: n has been validated
func (s *SQLiteStore) Save(ctx context.Context, n domain.Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification (id, member_id, message, read, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET message=excluded.message, read=excluded.read`,
		n.ID, n.MemberID, n.Message, storage.BoolInt(n.Read), storage.FormatTime(n.CreatedAt))
	return err
}

// ListByMemberID returns a member's notifications, newest first.
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, message, read, created_at FROM notification WHERE member_id = ? ORDER BY created_at DESC",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var read int
		var created string
		if err := rows.Scan(&n.ID, &n.MemberID, &n.Message, &read, &created); err != nil {
			return nil, err
		}
		n.Read = read == 1
		if n.CreatedAt, err = storage.ParseTime(created); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		results = append(results, n)
	}
	return results, rows.Err()
}
