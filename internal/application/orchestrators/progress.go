package orchestrators

import (
	"context"
	"fmt"
	"time"

	"gymhub/internal/adapters/eventlog"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/progress"
)

// ProgressSaver stores progress logs.
type ProgressSaver interface {
	Save(ctx context.Context, l progress.Log) error
}

// ProgressDeps holds dependencies for LogProgress.
type ProgressDeps struct {
	Progress   ProgressSaver
	Location   *time.Location
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

// ExecuteLogProgress records body measurements. An empty Date uses today.
// PRE: at least one measurement is set and every set measurement is in range
func ExecuteLogProgress(ctx context.Context, l progress.Log, deps ProgressDeps) (progress.Log, error) {
	now := nowFrom(deps.Now)
	l.ID = newID(deps.GenerateID)
	l.RecordedAt = now
	if l.Date == "" {
		l.Date = now.In(locationOr(deps.Location)).Format("2006-01-02")
	}
	if err := l.Validate(); err != nil {
		return progress.Log{}, err
	}
	if err := deps.Progress.Save(ctx, l); err != nil {
		return progress.Log{}, fmt.Errorf("failed to save progress log: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventProgressLogged, "member_id", l.MemberID, "date", l.Date))
	return l, nil
}
