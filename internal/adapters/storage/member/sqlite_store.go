package member

import (
	"context"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/member"
)

const memberColumns = "id, name, email, phone, status, trainer_id, banned, ban_reason, joined_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (domain.Member, error) {
	var m domain.Member
	var banned int
	var joined string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Status, &m.TrainerID, &banned, &m.BanReason, &joined); err != nil {
		return domain.Member{}, err
	}
	m.Banned = banned == 1
	var err error
	if m.JoinedAt, err = storage.ParseTime(joined); err != nil {
		return domain.Member{}, fmt.Errorf("failed to parse joined_at: %w", err)
	}
	return m, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id))
	if err != nil {
		return domain.Member{}, storage.NotFound("member", err)
	}
	return m, nil
}

// GetByEmail retrieves a Member by email, case-insensitively.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE email = ? COLLATE NOCASE", email))
	if err != nil {
		return domain.Member{}, storage.NotFound("member", err)
	}
	return m, nil
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); a duplicate email fails
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO member (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, phone=excluded.phone, status=excluded.status,
		   trainer_id=excluded.trainer_id, banned=excluded.banned, ban_reason=excluded.ban_reason`,
		m.ID, m.Name, m.Email, m.Phone, m.Status, m.TrainerID, storage.BoolInt(m.Banned), m.BanReason, storage.FormatTime(m.JoinedAt))
	return err
}

// List retrieves members ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM member"
	var args []any
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY name ASC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}
	return s.list(ctx, query, args...)
}

// ListByTrainerID returns the members assigned to a trainer.
func (s *SQLiteStore) ListByTrainerID(ctx context.Context, trainerID string) ([]domain.Member, error) {
	return s.list(ctx, "SELECT "+memberColumns+" FROM member WHERE trainer_id = ? ORDER BY name ASC", trainerID)
}

// Count returns the number of members.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member").Scan(&n)
	return n, err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
