package attendance

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-day layout used for record dates.
const DateLayout = "2006-01-02"

// Status constants for an attendance record.
const (
	StatusPresent          = "present"
	StatusAbsent           = "absent"
	StatusPresentCorrected = "present-corrected"
)

// Check types accepted by RecordCheck.
const (
	CheckIn  = "check-in"
	CheckOut = "check-out"
)

// Gym opening policy used for lateness.
const (
	GymOpenHour  = 6
	GraceMinutes = 15
)

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("member ID cannot be empty")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidCheckType = errors.New("check type must be 'check-in' or 'check-out'")
	ErrInvalidStatus    = errors.New("status must be 'present', 'absent', or 'present-corrected'")
	ErrCheckOutBeforeIn = errors.New("check-out time cannot be before check-in time")
)

// Record is one member's attendance for one calendar day.
// INVARIANT: at most one Record exists per (MemberID, Date); Key() is its identity.
type Record struct {
	MemberID     string
	Date         string // YYYY-MM-DD in the gym's location
	CheckInTime  time.Time
	CheckOutTime time.Time
	LateArrival  bool
	Status       string // empty when no status has been assigned
	LastUpdated  time.Time
}

// Key returns the composite document key for a member and date.
func Key(memberID, date string) string {
	return memberID + "_" + date
}

// Key returns the record's composite key.
func (r *Record) Key() string {
	return Key(r.MemberID, r.Date)
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.Status != "" && !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	if !r.CheckInTime.IsZero() && !r.CheckOutTime.IsZero() && r.CheckOutTime.Before(r.CheckInTime) {
		return ErrCheckOutBeforeIn
	}
	return nil
}

// IsPresent reports whether the record counts as a present day.
func (r *Record) IsPresent() bool {
	return r.Status == StatusPresent || r.Status == StatusPresentCorrected
}

// IsAbsentOrUnmarked reports whether the record is absent or has no status.
func (r *Record) IsAbsentOrUnmarked() bool {
	return r.Status == StatusAbsent || r.Status == ""
}

// Apply mutates the record for a check event at the given instant.
// check-in sets CheckInTime and LateArrival; check-out sets CheckOutTime only.
// PRE: at is already in the gym's location
// POST: Record reflects the check; LastUpdated is not touched
func (r *Record) Apply(checkType string, at time.Time) error {
	switch checkType {
	case CheckIn:
		r.CheckInTime = at
		r.LateArrival = IsLate(at)
	case CheckOut:
		r.CheckOutTime = at
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCheckType, checkType)
	}
	return nil
}

// IsLate reports whether a check-in at t is after the gym-open grace window.
// Uses t's own wall clock; callers convert to the gym location first.
func IsLate(t time.Time) bool {
	hour, minute := t.Hour(), t.Minute()
	return hour > GymOpenHour || (hour == GymOpenHour && minute > GraceMinutes)
}

// DateOf returns the calendar day of t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// IsValidStatus reports whether s is a known attendance status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusPresentCorrected:
		return true
	}
	return false
}

// MonthBounds returns the first and last calendar day of a month.
// The last day is day 0 of the following month, which normalizes month length.
// PRE: month is 1-12
func MonthBounds(year, month int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start.Format(DateLayout), end.Format(DateLayout)
}
