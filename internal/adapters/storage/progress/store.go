package progress

import (
	"context"

	domain "gymhub/internal/domain/progress"
)

// Store persists body-measurement logs.
type Store interface {
	Save(ctx context.Context, value domain.Log) error
	// ListByMemberIDAndDateRange returns logs with date in [start, end], ascending.
	// Empty bounds are open.
	ListByMemberIDAndDateRange(ctx context.Context, memberID, start, end string) ([]domain.Log, error)
}
