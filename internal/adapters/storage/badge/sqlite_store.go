package badge

import (
	"context"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/badge"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new badge store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a badge. The table has no uniqueness on (member, milestone);
// duplicate suppression is the caller's policy.
// PRE: b has been validated and has an ID
func (s *SQLiteStore) Save(ctx context.Context, b domain.Badge) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO badge (id, member_id, name, milestone, awarded_at) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.MemberID, b.Name, b.Milestone, storage.FormatTime(b.AwardedAt))
	return err
}

// ListByMemberID returns a member's badges, oldest first.
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Badge, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, name, milestone, awarded_at FROM badge WHERE member_id = ? ORDER BY awarded_at ASC, milestone ASC",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Badge
	for rows.Next() {
		var b domain.Badge
		var awarded string
		if err := rows.Scan(&b.ID, &b.MemberID, &b.Name, &b.Milestone, &awarded); err != nil {
			return nil, err
		}
		if b.AwardedAt, err = storage.ParseTime(awarded); err != nil {
			return nil, fmt.Errorf("failed to parse awarded_at: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}
