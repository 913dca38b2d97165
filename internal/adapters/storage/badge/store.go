package badge

import (
	"context"

	domain "gymhub/internal/domain/badge"
)

// Store persists awarded badges. Badges are insert-only.
type Store interface {
	Save(ctx context.Context, b domain.Badge) error
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Badge, error)
}
