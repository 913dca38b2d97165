package progress

import (
	"context"
	"database/sql"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/progress"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new progress store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Save inserts a progress log.
// PRE: log has been validated
func (s *SQLiteStore) Save(ctx context.Context, l domain.Log) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress_log (id, member_id, date, weight_kg, bmi, body_fat_pct, muscle_mass_kg, notes, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.MemberID, l.Date, nullFloat(l.WeightKg), nullFloat(l.BMI), nullFloat(l.BodyFatPct),
		nullFloat(l.MuscleMassKg), l.Notes, storage.FormatTime(l.RecordedAt))
	return err
}

// ListByMemberIDAndDateRange returns a member's logs within the inclusive range.
func (s *SQLiteStore) ListByMemberIDAndDateRange(ctx context.Context, memberID, start, end string) ([]domain.Log, error) {
	query := `SELECT id, member_id, date, weight_kg, bmi, body_fat_pct, muscle_mass_kg, notes, recorded_at
		FROM progress_log WHERE member_id = ?`
	args := []any{memberID}
	if start != "" {
		query += " AND date >= ?"
		args = append(args, start)
	}
	if end != "" {
		query += " AND date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY date ASC, recorded_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Log
	for rows.Next() {
		var l domain.Log
		var weight, bmi, fat, muscle sql.NullFloat64
		var recorded string
		if err := rows.Scan(&l.ID, &l.MemberID, &l.Date, &weight, &bmi, &fat, &muscle, &l.Notes, &recorded); err != nil {
			return nil, err
		}
		l.WeightKg, l.BMI, l.BodyFatPct, l.MuscleMassKg = floatPtr(weight), floatPtr(bmi), floatPtr(fat), floatPtr(muscle)
		if l.RecordedAt, err = storage.ParseTime(recorded); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		results = append(results, l)
	}
	return results, rows.Err()
}
