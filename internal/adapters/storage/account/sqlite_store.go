package account

import (
	"context"
	"database/sql"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/account"
)

const accountColumns = "id, email, password_hash, role, member_id, google_subject, created_at, failed_logins, locked_until"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg any) (domain.Account, error) {
	var a domain.Account
	var created string
	var locked sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE "+where, arg).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.MemberID, &a.GoogleSubject, &created, &a.FailedLogins, &locked)
	if err != nil {
		return domain.Account{}, storage.NotFound("account", err)
	}
	if a.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if a.LockedUntil, err = storage.ParseNullTime(locked); err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse locked_until: %w", err)
	}
	return a, nil
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves an Account by email, case-insensitively.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getOne(ctx, "email = ? COLLATE NOCASE", email)
}

// GetByGoogleSubject retrieves an Account linked to a Google user ID.
// PRE: subject is non-empty
func (s *SQLiteStore) GetByGoogleSubject(ctx context.Context, subject string) (domain.Account, error) {
	return s.getOne(ctx, "google_subject = ? AND google_subject != ''", subject)
}

// Save persists an Account.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, password_hash=excluded.password_hash, role=excluded.role,
		   member_id=excluded.member_id, google_subject=excluded.google_subject,
		   failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.MemberID, a.GoogleSubject,
		storage.FormatTime(a.CreatedAt), a.FailedLogins, storage.NullTime(a.LockedUntil))
	return err
}

// Count returns the number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}
