package theme

import (
	"context"

	domain "gymhub/internal/domain/theme"
)

// Store persists per-account presentation preferences.
type Store interface {
	// Get retrieves preferences for an account.
	// POST: error wraps storage.ErrNotFound when none were saved
	Get(ctx context.Context, accountID string) (domain.Preferences, error)
	Save(ctx context.Context, value domain.Preferences) error
}
