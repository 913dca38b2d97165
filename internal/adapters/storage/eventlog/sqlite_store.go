package eventlog

import (
	"context"
	"encoding/json"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/eventlog"
)

// SQLiteStore implements the event log Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an entry.
// PRE: entry is valid
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	fields, err := e.FieldsJSON()
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO event_log (id, event, severity, actor_id, fields, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Event, string(e.Severity), e.ActorID, fields, storage.FormatTime(e.OccurredAt))
	return err
}

// List returns entries with optional filtering.
// PRE: limit > 0
// POST: Returns entries ordered by occurred_at desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Entry, error) {
	query := `SELECT id, event, severity, actor_id, fields, occurred_at FROM event_log WHERE 1=1`
	var args []any

	if filter.Event != "" {
		query += " AND event = ?"
		args = append(args, filter.Event)
	}
	if filter.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filter.ActorID)
	}
	if !filter.From.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, storage.FormatTime(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND occurred_at <= ?"
		args = append(args, storage.FormatTime(filter.To))
	}

	query += " ORDER BY occurred_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var severity, fields, occurred string
		if err := rows.Scan(&e.ID, &e.Event, &severity, &e.ActorID, &fields, &occurred); err != nil {
			return nil, err
		}
		e.Severity = domain.Severity(severity)
		if err := json.Unmarshal([]byte(fields), &e.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields: %w", err)
		}
		if e.OccurredAt, err = storage.ParseTime(occurred); err != nil {
			return nil, fmt.Errorf("failed to parse occurred_at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
