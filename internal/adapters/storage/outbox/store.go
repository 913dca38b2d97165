package outbox

import (
	"context"

	domain "gymhub/internal/domain/outbox"
)

// Store persists deferred email deliveries.
type Store interface {
	// GetByID returns an error wrapping storage.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	// Save upserts by ID. Action type and creation time are fixed at insert.
	Save(ctx context.Context, e domain.Entry) error
	// ListPending returns up to limit pending or retrying entries, oldest first.
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
	// ListFailed returns up to limit entries that used every attempt, latest attempt first.
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
}
