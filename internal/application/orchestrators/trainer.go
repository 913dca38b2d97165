package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/storage"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/trainer"
)

// TrainerStore is the trainer persistence surface used by commands.
type TrainerStore interface {
	SaveSessionLog(ctx context.Context, l trainer.SessionLog) error
	SaveRoutine(ctx context.Context, r trainer.Routine) error
	GetSession(ctx context.Context, id string) (trainer.ScheduledSession, error)
	SaveSession(ctx context.Context, s trainer.ScheduledSession) error
	SaveAvailability(ctx context.Context, a trainer.Availability) error
}

// TrainerDeps holds dependencies for trainer commands.
type TrainerDeps struct {
	Trainer    TrainerStore
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

// ExecuteLogSession records a completed training session.
func ExecuteLogSession(ctx context.Context, l trainer.SessionLog, deps TrainerDeps) (trainer.SessionLog, error) {
	l.ID = newID(deps.GenerateID)
	l.LoggedAt = nowFrom(deps.Now)
	if err := l.Validate(); err != nil {
		return trainer.SessionLog{}, err
	}
	if err := deps.Trainer.SaveSessionLog(ctx, l); err != nil {
		return trainer.SessionLog{}, fmt.Errorf("failed to save session log: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventSessionLogged,
		"member_id", l.MemberID, "minutes", l.DurationMinutes).WithActor(l.TrainerID))
	return l, nil
}

// ExecuteSuggestRoutine stores a routine the trainer suggests to a member.
func ExecuteSuggestRoutine(ctx context.Context, r trainer.Routine, deps TrainerDeps) (trainer.Routine, error) {
	r.ID = newID(deps.GenerateID)
	r.SuggestedAt = nowFrom(deps.Now)
	if err := r.Validate(); err != nil {
		return trainer.Routine{}, err
	}
	if err := deps.Trainer.SaveRoutine(ctx, r); err != nil {
		return trainer.Routine{}, fmt.Errorf("failed to save routine: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventRoutineSuggested,
		"member_id", r.MemberID, "routine", r.Name).WithActor(r.TrainerID))
	return r, nil
}

// ScheduleSessionInput books a personal session or class.
type ScheduleSessionInput struct {
	TrainerID string    `validate:"required"`
	MemberID  string    `validate:"required_if=Type personal"`
	StartsAt  time.Time `validate:"required"`
	Type      string    `validate:"required,oneof=personal class"`
}

// ExecuteScheduleSession books a session in status scheduled.
// PRE: StartsAt is not in the past
func ExecuteScheduleSession(ctx context.Context, input ScheduleSessionInput, deps TrainerDeps) (trainer.ScheduledSession, error) {
	if err := validateInput(input); err != nil {
		return trainer.ScheduledSession{}, err
	}
	now := nowFrom(deps.Now)
	if input.StartsAt.Before(now) {
		return trainer.ScheduledSession{}, fmt.Errorf("%w: session cannot start in the past", ErrInvalidInput)
	}
	s := trainer.ScheduledSession{
		ID:        newID(deps.GenerateID),
		TrainerID: input.TrainerID,
		MemberID:  input.MemberID,
		StartsAt:  input.StartsAt,
		Type:      input.Type,
		Status:    trainer.StatusScheduled,
		CreatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return trainer.ScheduledSession{}, err
	}
	if err := deps.Trainer.SaveSession(ctx, s); err != nil {
		return trainer.ScheduledSession{}, fmt.Errorf("failed to save session: %w", err)
	}
	slog.Info("trainer_event", "event", "session_scheduled", "session_id", s.ID, "trainer_id", s.TrainerID, "starts_at", s.StartsAt)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventSessionScheduled,
		"session_id", s.ID, "member_id", s.MemberID, "type", s.Type).WithActor(s.TrainerID))
	return s, nil
}

// ExecuteUpdateSessionStatus completes or cancels a scheduled session.
// POST: error is trainer.ErrSessionClosed when the session already left scheduled
func ExecuteUpdateSessionStatus(ctx context.Context, sessionID, status, actorID string, deps TrainerDeps) (trainer.ScheduledSession, error) {
	s, err := deps.Trainer.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return trainer.ScheduledSession{}, trainer.ErrSessionNotFound
	}
	if err != nil {
		return trainer.ScheduledSession{}, fmt.Errorf("failed to load session: %w", err)
	}
	if err := s.SetStatus(status); err != nil {
		return trainer.ScheduledSession{}, err
	}
	if err := deps.Trainer.SaveSession(ctx, s); err != nil {
		return trainer.ScheduledSession{}, fmt.Errorf("failed to save session: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventSessionStatusUpdated,
		"session_id", s.ID, "status", s.Status).WithActor(actorID))
	return s, nil
}

// ExecuteSetTrainerAvailability replaces a trainer's weekly timetable.
func ExecuteSetTrainerAvailability(ctx context.Context, a trainer.Availability, deps TrainerDeps) (trainer.Availability, error) {
	a.UpdatedAt = nowFrom(deps.Now)
	if err := a.Validate(); err != nil {
		return trainer.Availability{}, err
	}
	if err := deps.Trainer.SaveAvailability(ctx, a); err != nil {
		return trainer.Availability{}, fmt.Errorf("failed to save availability: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventAvailabilityUpdated,
		"slots", len(a.Slots)).WithActor(a.TrainerID))
	return a, nil
}
