package member

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxPhoneLength = 32
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("member name cannot be empty")
	ErrInvalidEmail   = errors.New("member email must be valid")
	ErrAlreadyBanned  = errors.New("member is already banned")
	ErrEmptyBanReason = errors.New("ban reason cannot be empty")
	ErrMemberNotFound = errors.New("member not found")
	ErrNameTooLong    = errors.New("member name cannot exceed 100 characters")
	ErrPhoneTooLong   = errors.New("member phone cannot exceed 32 characters")
	ErrInvalidStatus  = errors.New("status must be 'active' or 'inactive'")
)

// Member is a gym member as managed by administrators.
type Member struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    string
	TrainerID string // assigned trainer's account ID, empty when unassigned
	Banned    bool
	BanReason string
	JoinedAt  time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if len(m.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if m.Status != StatusActive && m.Status != StatusInactive {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the member is active and not banned.
// INVARIANT: Member fields are not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive && !m.Banned
}

// Ban marks the member as banned with a reason.
// PRE: reason is non-empty
// POST: Banned is true and BanReason is set
func (m *Member) Ban(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyBanReason
	}
	if m.Banned {
		return ErrAlreadyBanned
	}
	m.Banned = true
	m.BanReason = reason
	return nil
}

// ExportCSV renders members as `id,name,email` rows with a header.
func ExportCSV(members []Member) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "email"}); err != nil {
		return "", err
	}
	for _, m := range members {
		if err := w.Write([]string{m.ID, m.Name, m.Email}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
