package attendance

import (
	"errors"
	"time"
)

// Correction status constants.
const (
	CorrectionPending  = "pending"
	CorrectionApproved = "approved"
	CorrectionDenied   = "denied"
)

// Correction errors
var (
	ErrCorrectionNotFound      = errors.New("correction request not found")
	ErrAlreadyHandled          = errors.New("correction request has already been handled")
	ErrEmptyAdminID            = errors.New("admin ID cannot be empty")
	ErrInvalidCorrectionStatus = errors.New("correction status must be 'pending', 'approved', or 'denied'")
)

// Correction is a member-initiated dispute over a recorded attendance day.
type Correction struct {
	ID          string
	MemberID    string
	Date        string
	Reason      string
	Status      string
	RequestedAt time.Time
	HandledBy   string
	HandledAt   time.Time
}

// Validate checks if the Correction has valid data.
// Date format and duplicate pending requests are not checked.
// PRE: Correction struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Correction) Validate() error {
	if c.MemberID == "" {
		return ErrEmptyMemberID
	}
	switch c.Status {
	case CorrectionPending, CorrectionApproved, CorrectionDenied:
	default:
		return ErrInvalidCorrectionStatus
	}
	return nil
}

// IsPending reports whether an admin decision is still outstanding.
func (c *Correction) IsPending() bool {
	return c.Status == CorrectionPending
}

// Resolve records the admin decision.
// PRE: correction is pending, adminID is non-empty
// POST: Status is approved or denied; HandledBy and HandledAt are set
// INVARIANT: a handled correction is terminal
func (c *Correction) Resolve(approve bool, adminID string, at time.Time) error {
	if adminID == "" {
		return ErrEmptyAdminID
	}
	if !c.IsPending() {
		return ErrAlreadyHandled
	}
	c.Status = CorrectionDenied
	if approve {
		c.Status = CorrectionApproved
	}
	c.HandledBy = adminID
	c.HandledAt = at
	return nil
}

// AttendanceKey returns the key of the attendance record this correction targets.
func (c *Correction) AttendanceKey() string {
	return Key(c.MemberID, c.Date)
}
