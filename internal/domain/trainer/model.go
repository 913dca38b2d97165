package trainer

import (
	"errors"
	"strings"
	"time"
)

// Session types
const (
	TypePersonal = "personal"
	TypeClass    = "class"
)

// Scheduled session statuses
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// WorkloadWindow is how far ahead QueryTrainerWorkload looks.
const WorkloadWindow = 7 * 24 * time.Hour

// Domain errors
var (
	ErrEmptyTrainerID   = errors.New("trainer ID cannot be empty")
	ErrEmptyMemberID    = errors.New("member ID cannot be empty")
	ErrInvalidType      = errors.New("session type must be 'personal' or 'class'")
	ErrInvalidStatus    = errors.New("session status must be 'scheduled', 'completed', or 'canceled'")
	ErrSessionNotFound  = errors.New("scheduled session not found")
	ErrSessionClosed    = errors.New("session is no longer scheduled")
	ErrEmptyRoutineName = errors.New("routine name cannot be empty")
	ErrInvalidSlot      = errors.New("availability slot must have a weekday and from < to in HH:MM")
	ErrNegativeDuration = errors.New("duration cannot be negative")
	ErrMissingStart     = errors.New("session start time is required")
)

// SessionLog records a training session a trainer ran with a member.
type SessionLog struct {
	ID              string
	TrainerID       string
	MemberID        string
	Date            string
	DurationMinutes int
	Exercises       []string
	Notes           string
	LoggedAt        time.Time
}

// Validate checks if the SessionLog has valid data.
func (s *SessionLog) Validate() error {
	if s.TrainerID == "" {
		return ErrEmptyTrainerID
	}
	if s.MemberID == "" {
		return ErrEmptyMemberID
	}
	if s.DurationMinutes < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// Exercise is a routine step.
type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
}

// Routine is a workout a trainer suggests to a member.
type Routine struct {
	ID          string
	TrainerID   string
	MemberID    string
	Name        string
	Exercises   []Exercise
	Notes       string
	SuggestedAt time.Time
}

// Validate checks if the Routine has valid data.
func (r *Routine) Validate() error {
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyRoutineName
	}
	return nil
}

// ScheduledSession is a booked personal session or class.
type ScheduledSession struct {
	ID        string
	TrainerID string
	MemberID  string
	StartsAt  time.Time
	Type      string
	Status    string
	CreatedAt time.Time
}

// Validate checks if the ScheduledSession has valid data.
// PRE: ScheduledSession struct is populated
// POST: Returns nil if valid, error otherwise
func (s *ScheduledSession) Validate() error {
	if s.TrainerID == "" {
		return ErrEmptyTrainerID
	}
	if s.MemberID == "" && s.Type == TypePersonal {
		return ErrEmptyMemberID
	}
	if s.Type != TypePersonal && s.Type != TypeClass {
		return ErrInvalidType
	}
	if !isValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	if s.StartsAt.IsZero() {
		return ErrMissingStart
	}
	return nil
}

// SetStatus moves a scheduled session to a new status.
// PRE: session is scheduled
// INVARIANT: completed and canceled are terminal
func (s *ScheduledSession) SetStatus(status string) error {
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	if s.Status != StatusScheduled {
		return ErrSessionClosed
	}
	s.Status = status
	return nil
}

func isValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCanceled
}

// Slot is a weekly availability window.
type Slot struct {
	Day  string `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Availability is a trainer's weekly timetable.
type Availability struct {
	TrainerID string
	Slots     []Slot
	UpdatedAt time.Time
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// Validate checks every slot is a weekday with from < to.
func (a *Availability) Validate() error {
	if a.TrainerID == "" {
		return ErrEmptyTrainerID
	}
	for _, s := range a.Slots {
		from, err1 := time.Parse("15:04", s.From)
		to, err2 := time.Parse("15:04", s.To)
		if !weekdays[s.Day] || err1 != nil || err2 != nil || !from.Before(to) {
			return ErrInvalidSlot
		}
	}
	return nil
}
