package projections

import (
	"context"
	"fmt"
	"time"

	domainTrainer "gymhub/internal/domain/trainer"
)

// ScheduledSessionsQuery bounds a trainer's calendar. End is exclusive.
type ScheduledSessionsQuery struct {
	TrainerID string
	Start     time.Time
	End       time.Time
}

// QueryScheduledSessions lists a trainer's sessions starting in [Start, End).
func QueryScheduledSessions(ctx context.Context, query ScheduledSessionsQuery, store SessionLister) ([]domainTrainer.ScheduledSession, error) {
	if query.TrainerID == "" {
		return nil, domainTrainer.ErrEmptyTrainerID
	}
	if query.End.Before(query.Start) {
		return nil, fmt.Errorf("session range end is before start")
	}
	sessions, err := store.ListSessions(ctx, query.TrainerID, query.Start, query.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// TrainerWorkloadDeps holds dependencies for QueryTrainerWorkload.
type TrainerWorkloadDeps struct {
	Sessions SessionLister
	Now      func() time.Time
}

// TrainerWorkload summarises a trainer's upcoming week.
type TrainerWorkload struct {
	UpcomingSessions int
	Personal         int
	Classes          int
	From             time.Time
	To               time.Time
}

// QueryTrainerWorkload counts sessions starting within WorkloadWindow from now.
// INVARIANT: canceled sessions are not counted
func QueryTrainerWorkload(ctx context.Context, trainerID string, deps TrainerWorkloadDeps) (TrainerWorkload, error) {
	now := nowFrom(deps.Now)
	w := TrainerWorkload{From: now, To: now.Add(domainTrainer.WorkloadWindow)}
	sessions, err := QueryScheduledSessions(ctx, ScheduledSessionsQuery{TrainerID: trainerID, Start: w.From, End: w.To}, deps.Sessions)
	if err != nil {
		return TrainerWorkload{}, err
	}
	for _, s := range sessions {
		if s.Status == domainTrainer.StatusCanceled {
			continue
		}
		w.UpcomingSessions++
		if s.Type == domainTrainer.TypeClass {
			w.Classes++
		} else {
			w.Personal++
		}
	}
	return w, nil
}
