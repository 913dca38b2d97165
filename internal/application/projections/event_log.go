package projections

import (
	"context"
	"fmt"
	"time"

	eventlogStore "gymhub/internal/adapters/storage/eventlog"
	domainEvent "gymhub/internal/domain/eventlog"
)

// DefaultEventLogLimit caps QueryEventLog when the caller does not.
const DefaultEventLogLimit = 100

// EventLogQuery filters the persisted event log.
type EventLogQuery struct {
	Event   string
	ActorID string
	From    time.Time
	To      time.Time
	Limit   int
}

// QueryEventLog lists logged domain events, newest first.
// POST: At most Limit entries; Limit <= 0 uses DefaultEventLogLimit
func QueryEventLog(ctx context.Context, query EventLogQuery, store EventLogStore) ([]domainEvent.Entry, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultEventLogLimit
	}
	entries, err := store.List(ctx, eventlogStore.Filter{
		Event:   query.Event,
		ActorID: query.ActorID,
		From:    query.From,
		To:      query.To,
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return entries, nil
}
