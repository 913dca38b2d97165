package badge

import (
	"errors"
	"fmt"
	"time"
)

// Milestones are the streak lengths, in days, that earn a badge.
var Milestones = []int{5, 10, 20, 30}

// Issuance policies.
const (
	// PolicyOnce skips milestones the member already holds.
	PolicyOnce = "once"
	// PolicyAlways inserts a badge for every reached milestone on every evaluation.
	PolicyAlways = "always"
)

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("member ID cannot be empty")
	ErrEmptyName        = errors.New("badge name cannot be empty")
	ErrInvalidPolicy    = errors.New("badge policy must be 'once' or 'always'")
	ErrInvalidMilestone = errors.New("milestone must be greater than zero")
)

// Badge is an award granted to a member for reaching a streak milestone.
type Badge struct {
	ID        string
	MemberID  string
	Name      string
	Milestone int
	AwardedAt time.Time
}

// Validate checks if the Badge has valid data.
// PRE: Badge struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Badge) Validate() error {
	if b.MemberID == "" {
		return ErrEmptyMemberID
	}
	if b.Name == "" {
		return ErrEmptyName
	}
	if b.Milestone <= 0 {
		return ErrInvalidMilestone
	}
	return nil
}

// Name returns the display name for a streak milestone.
func Name(milestone int) string {
	return fmt.Sprintf("Attendance Streak: %d Days", milestone)
}

// ParsePolicy normalizes a configured policy; empty means PolicyOnce.
func ParsePolicy(s string) (string, error) {
	switch s {
	case "", PolicyOnce:
		return PolicyOnce, nil
	case PolicyAlways:
		return PolicyAlways, nil
	}
	return "", ErrInvalidPolicy
}

// Due returns the milestones to issue for a streak.
// held lists milestones the member already holds and is ignored under PolicyAlways.
// POST: result is ascending and every entry is <= streak
func Due(streak int, held []int, policy string) []int {
	have := make(map[int]bool, len(held))
	if policy != PolicyAlways {
		for _, m := range held {
			have[m] = true
		}
	}
	var due []int
	for _, m := range Milestones {
		if streak >= m && !have[m] {
			due = append(due, m)
		}
	}
	return due
}
