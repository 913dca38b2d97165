package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// execer is satisfied by both storage.SQLDB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const recordColumns = "member_id, date, check_in_time, check_out_time, late_arrival, status, last_updated"

const upsertRecord = `INSERT INTO attendance_record (id, ` + recordColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	  check_in_time=excluded.check_in_time, check_out_time=excluded.check_out_time,
	  late_arrival=excluded.late_arrival, status=excluded.status, last_updated=excluded.last_updated`

func saveRecord(ctx context.Context, ex execer, r domain.Record) error {
	_, err := ex.ExecContext(ctx, upsertRecord,
		r.Key(),
		r.MemberID,
		r.Date,
		storage.NullTime(r.CheckInTime),
		storage.NullTime(r.CheckOutTime),
		storage.BoolInt(r.LateArrival),
		r.Status,
		storage.FormatTime(r.LastUpdated),
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var r domain.Record
	var checkIn, checkOut sql.NullString
	var late int
	var updated string
	if err := row.Scan(&r.MemberID, &r.Date, &checkIn, &checkOut, &late, &r.Status, &updated); err != nil {
		return domain.Record{}, err
	}
	var err error
	if r.CheckInTime, err = storage.ParseNullTime(checkIn); err != nil {
		return domain.Record{}, fmt.Errorf("failed to parse check_in_time: %w", err)
	}
	if r.CheckOutTime, err = storage.ParseNullTime(checkOut); err != nil {
		return domain.Record{}, fmt.Errorf("failed to parse check_out_time: %w", err)
	}
	if r.LastUpdated, err = storage.ParseTime(updated); err != nil {
		return domain.Record{}, fmt.Errorf("failed to parse last_updated: %w", err)
	}
	r.LateArrival = late == 1
	return r, nil
}

// Get retrieves the record for a member and day.
// PRE: memberID and date are non-empty
// POST: Returns the record or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, memberID, date string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM attendance_record WHERE id = ?", domain.Key(memberID, date))
	r, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, storage.NotFound("attendance record", err)
	}
	return r, nil
}

// Save upserts a record under its memberId_date key.
// PRE: rec has been validated
// POST: the stored row equals rec
func (s *SQLiteStore) Save(ctx context.Context, rec domain.Record) error {
	return saveRecord(ctx, s.db, rec)
}

// SaveBatch upserts all records atomically.
// PRE: every record has been validated
// POST: either all records are stored or none are
func (s *SQLiteStore) SaveBatch(ctx context.Context, recs []domain.Record) error {
	if len(recs) == 0 {
		return nil
	}
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, r := range recs {
			if err := saveRecord(ctx, tx, r); err != nil {
				return fmt.Errorf("save %s: %w", r.Key(), err)
			}
		}
		return nil
	})
}

// ListByMemberID returns all records for a member ordered by date ascending.
// PRE: memberID is non-empty
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Record, error) {
	return s.list(ctx,
		"SELECT "+recordColumns+" FROM attendance_record WHERE member_id = ? ORDER BY date ASC", memberID)
}

// ListByMemberIDAndDateRange returns records within an inclusive date range.
// PRE: startDate and endDate are YYYY-MM-DD
func (s *SQLiteStore) ListByMemberIDAndDateRange(ctx context.Context, memberID, startDate, endDate string) ([]domain.Record, error) {
	return s.list(ctx,
		"SELECT "+recordColumns+" FROM attendance_record WHERE member_id = ? AND date >= ? AND date <= ? ORDER BY date ASC",
		memberID, startDate, endDate)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const correctionColumns = "id, member_id, date, reason, status, requested_at, handled_by, handled_at"

const upsertCorrection = `INSERT INTO attendance_correction (` + correctionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	  status=excluded.status, handled_by=excluded.handled_by, handled_at=excluded.handled_at`

func saveCorrection(ctx context.Context, ex execer, c domain.Correction) error {
	_, err := ex.ExecContext(ctx, upsertCorrection,
		c.ID, c.MemberID, c.Date, c.Reason, c.Status,
		storage.FormatTime(c.RequestedAt), c.HandledBy, storage.NullTime(c.HandledAt))
	return err
}

func scanCorrection(row scanner) (domain.Correction, error) {
	var c domain.Correction
	var requested string
	var handled sql.NullString
	if err := row.Scan(&c.ID, &c.MemberID, &c.Date, &c.Reason, &c.Status, &requested, &c.HandledBy, &handled); err != nil {
		return domain.Correction{}, err
	}
	var err error
	if c.RequestedAt, err = storage.ParseTime(requested); err != nil {
		return domain.Correction{}, fmt.Errorf("failed to parse requested_at: %w", err)
	}
	if c.HandledAt, err = storage.ParseNullTime(handled); err != nil {
		return domain.Correction{}, fmt.Errorf("failed to parse handled_at: %w", err)
	}
	return c, nil
}

// SaveCorrection inserts or updates a correction request.
// PRE: c has been validated
func (s *SQLiteStore) SaveCorrection(ctx context.Context, c domain.Correction) error {
	return saveCorrection(ctx, s.db, c)
}

// GetCorrection retrieves a correction by ID.
// POST: error wraps storage.ErrNotFound when missing
func (s *SQLiteStore) GetCorrection(ctx context.Context, id string) (domain.Correction, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+correctionColumns+" FROM attendance_correction WHERE id = ?", id)
	c, err := scanCorrection(row)
	if err != nil {
		return domain.Correction{}, storage.NotFound("correction", err)
	}
	return c, nil
}

// ListCorrections lists corrections, optionally filtered by status, oldest first.
func (s *SQLiteStore) ListCorrections(ctx context.Context, status string) ([]domain.Correction, error) {
	query := "SELECT " + correctionColumns + " FROM attendance_correction"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY requested_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Correction
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// ResolveCorrection writes the handled correction and the optional attendance
// record in one transaction.
// PRE: c is no longer pending
// POST: both writes are visible together, or neither is
func (s *SQLiteStore) ResolveCorrection(ctx context.Context, c domain.Correction, rec *domain.Record) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Guard against a concurrent handler resolving the same request first.
		res, err := tx.ExecContext(ctx,
			"UPDATE attendance_correction SET status = ?, handled_by = ?, handled_at = ? WHERE id = ? AND status = ?",
			c.Status, c.HandledBy, storage.NullTime(c.HandledAt), c.ID, domain.CorrectionPending)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrAlreadyHandled
		}
		if rec != nil {
			if err := saveRecord(ctx, tx, *rec); err != nil {
				return fmt.Errorf("save corrected attendance: %w", err)
			}
		}
		return nil
	})
}
