package trainer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/trainer"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new trainer store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func encodeJSON(v any, fallback string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return fallback, nil
	}
	return string(b), nil
}

// SaveSessionLog inserts a completed training session.
// PRE: log has been validated
func (s *SQLiteStore) SaveSessionLog(ctx context.Context, l domain.SessionLog) error {
	exercises, err := encodeJSON(l.Exercises, "[]")
	if err != nil {
		return fmt.Errorf("failed to encode exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO training_session_log (id, trainer_id, member_id, date, duration_minutes, exercises, notes, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.TrainerID, l.MemberID, l.Date, l.DurationMinutes, exercises, l.Notes, storage.FormatTime(l.LoggedAt))
	return err
}

// ListSessionLogs returns a trainer's logged sessions, newest first.
func (s *SQLiteStore) ListSessionLogs(ctx context.Context, trainerID string) ([]domain.SessionLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trainer_id, member_id, date, duration_minutes, exercises, notes, logged_at
		 FROM training_session_log WHERE trainer_id = ? ORDER BY logged_at DESC`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SessionLog
	for rows.Next() {
		var l domain.SessionLog
		var exercises, logged string
		if err := rows.Scan(&l.ID, &l.TrainerID, &l.MemberID, &l.Date, &l.DurationMinutes, &exercises, &l.Notes, &logged); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(exercises), &l.Exercises); err != nil {
			return nil, fmt.Errorf("failed to decode exercises: %w", err)
		}
		if l.LoggedAt, err = storage.ParseTime(logged); err != nil {
			return nil, fmt.Errorf("failed to parse logged_at: %w", err)
		}
		results = append(results, l)
	}
	return results, rows.Err()
}

// SaveRoutine inserts a suggested routine.
// PRE: routine has been validated
func (s *SQLiteStore) SaveRoutine(ctx context.Context, r domain.Routine) error {
	exercises, err := encodeJSON(r.Exercises, "[]")
	if err != nil {
		return fmt.Errorf("failed to encode exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO routine (id, trainer_id, member_id, name, exercises, notes, suggested_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TrainerID, r.MemberID, r.Name, exercises, r.Notes, storage.FormatTime(r.SuggestedAt))
	return err
}

// ListRoutines returns the routines suggested to a member, newest first.
func (s *SQLiteStore) ListRoutines(ctx context.Context, memberID string) ([]domain.Routine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trainer_id, member_id, name, exercises, notes, suggested_at
		 FROM routine WHERE member_id = ? ORDER BY suggested_at DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Routine
	for rows.Next() {
		var r domain.Routine
		var exercises, suggested string
		if err := rows.Scan(&r.ID, &r.TrainerID, &r.MemberID, &r.Name, &exercises, &r.Notes, &suggested); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(exercises), &r.Exercises); err != nil {
			return nil, fmt.Errorf("failed to decode exercises: %w", err)
		}
		if r.SuggestedAt, err = storage.ParseTime(suggested); err != nil {
			return nil, fmt.Errorf("failed to parse suggested_at: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const sessionColumns = "id, trainer_id, member_id, starts_at, type, status, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.ScheduledSession, error) {
	var ss domain.ScheduledSession
	var starts, created string
	if err := row.Scan(&ss.ID, &ss.TrainerID, &ss.MemberID, &starts, &ss.Type, &ss.Status, &created); err != nil {
		return domain.ScheduledSession{}, err
	}
	var err error
	if ss.StartsAt, err = storage.ParseTime(starts); err != nil {
		return domain.ScheduledSession{}, fmt.Errorf("failed to parse starts_at: %w", err)
	}
	if ss.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.ScheduledSession{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return ss, nil
}

// GetSession retrieves a scheduled session.
// POST: error wraps storage.ErrNotFound when missing
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (domain.ScheduledSession, error) {
	ss, err := scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM scheduled_session WHERE id = ?", id))
	if err != nil {
		return domain.ScheduledSession{}, storage.NotFound("scheduled session", err)
	}
	return ss, nil
}

// SaveSession upserts a scheduled session.
// PRE: session has been validated
func (s *SQLiteStore) SaveSession(ctx context.Context, ss domain.ScheduledSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scheduled_session (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET member_id=excluded.member_id, starts_at=excluded.starts_at,
		   type=excluded.type, status=excluded.status`,
		ss.ID, ss.TrainerID, ss.MemberID, storage.FormatTime(ss.StartsAt), ss.Type, ss.Status, storage.FormatTime(ss.CreatedAt))
	return err
}

// ListSessions returns a trainer's sessions starting in [start, end).
func (s *SQLiteStore) ListSessions(ctx context.Context, trainerID string, start, end time.Time) ([]domain.ScheduledSession, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM scheduled_session WHERE trainer_id = ? AND starts_at >= ? AND starts_at < ? ORDER BY starts_at ASC",
		trainerID, storage.FormatTime(start), storage.FormatTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ScheduledSession
	for rows.Next() {
		ss, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, ss)
	}
	return results, rows.Err()
}

// SaveAvailability replaces a trainer's weekly slots.
// PRE: availability has been validated
func (s *SQLiteStore) SaveAvailability(ctx context.Context, a domain.Availability) error {
	slots, err := encodeJSON(a.Slots, "[]")
	if err != nil {
		return fmt.Errorf("failed to encode slots: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trainer_availability (trainer_id, slots, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(trainer_id) DO UPDATE SET slots=excluded.slots, updated_at=excluded.updated_at`,
		a.TrainerID, slots, storage.FormatTime(a.UpdatedAt))
	return err
}

// GetAvailability retrieves a trainer's weekly slots.
// POST: error wraps storage.ErrNotFound when none were set
func (s *SQLiteStore) GetAvailability(ctx context.Context, trainerID string) (domain.Availability, error) {
	var a domain.Availability
	var slots, updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT trainer_id, slots, updated_at FROM trainer_availability WHERE trainer_id = ?", trainerID).
		Scan(&a.TrainerID, &slots, &updated)
	if err != nil {
		return domain.Availability{}, storage.NotFound("trainer availability", err)
	}
	if err := json.Unmarshal([]byte(slots), &a.Slots); err != nil {
		return domain.Availability{}, fmt.Errorf("failed to decode slots: %w", err)
	}
	if a.UpdatedAt, err = storage.ParseTime(updated); err != nil {
		return domain.Availability{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return a, nil
}
