package theme

import (
	"context"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/theme"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new theme preferences store.
// PRE: db is a valid, open database connection
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves an account's preferences.
// PRE: accountID is non-empty
// POST: returns the preferences or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, accountID string) (domain.Preferences, error) {
	var p domain.Preferences
	var contrast, dyslexia int
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT account_id, mode, primary_color, secondary_color, font_size, high_contrast, dyslexia_font, updated_at
		 FROM theme_preferences WHERE account_id = ?`, accountID,
	).Scan(&p.AccountID, &p.Mode, &p.PrimaryColor, &p.SecondaryColor, &p.FontSize, &contrast, &dyslexia, &updated)
	if err != nil {
		return domain.Preferences{}, storage.NotFound("theme preferences", err)
	}
	p.HighContrast, p.DyslexiaFont = contrast == 1, dyslexia == 1
	if p.UpdatedAt, err = storage.ParseTime(updated); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return p, nil
}

// Save inserts or updates an account's preferences.
// PRE: value has been validated
// POST: preferences are persisted
func (s *SQLiteStore) Save(ctx context.Context, p domain.Preferences) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO theme_preferences (account_id, mode, primary_color, secondary_color, font_size, high_contrast, dyslexia_font, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET mode=excluded.mode, primary_color=excluded.primary_color,
		 secondary_color=excluded.secondary_color, font_size=excluded.font_size, high_contrast=excluded.high_contrast,
		 dyslexia_font=excluded.dyslexia_font, updated_at=excluded.updated_at`,
		p.AccountID, p.Mode, p.PrimaryColor, p.SecondaryColor, p.FontSize,
		storage.BoolInt(p.HighContrast), storage.BoolInt(p.DyslexiaFont), storage.FormatTime(p.UpdatedAt),
	)
	return err
}
