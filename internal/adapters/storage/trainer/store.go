package trainer

import (
	"context"
	"time"

	domain "gymhub/internal/domain/trainer"
)

// Store persists trainer session logs, routines, schedules and availability.
type Store interface {
	SaveSessionLog(ctx context.Context, value domain.SessionLog) error
	ListSessionLogs(ctx context.Context, trainerID string) ([]domain.SessionLog, error)
	SaveRoutine(ctx context.Context, value domain.Routine) error
	ListRoutines(ctx context.Context, memberID string) ([]domain.Routine, error)
	GetSession(ctx context.Context, id string) (domain.ScheduledSession, error)
	SaveSession(ctx context.Context, value domain.ScheduledSession) error
	// ListSessions returns a trainer's sessions starting in [start, end), ordered by start.
	ListSessions(ctx context.Context, trainerID string, start, end time.Time) ([]domain.ScheduledSession, error)
	SaveAvailability(ctx context.Context, value domain.Availability) error
	GetAvailability(ctx context.Context, trainerID string) (domain.Availability, error)
}
