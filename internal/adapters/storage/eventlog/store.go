package eventlog

import (
	"context"
	"time"

	domain "gymhub/internal/domain/eventlog"
)

// Store persists event log entries. Entries are insert-only.
type Store interface {
	Save(ctx context.Context, entry domain.Entry) error
	List(ctx context.Context, filter Filter, limit int) ([]domain.Entry, error)
}

// Filter narrows List. Zero-valued fields do not filter.
type Filter struct {
	Event   string
	ActorID string
	From    time.Time
	To      time.Time
}
