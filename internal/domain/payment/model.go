package payment

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"time"
)

// Status constants for the payment lifecycle.
const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

// Method constants
const (
	MethodCard     = "card"
	MethodTransfer = "bank_transfer"
	MethodEWallet  = "ewallet"
	MethodCash     = "cash"
)

// Domain errors
var (
	ErrNotFound          = errors.New("payment not found")
	ErrEmptyMemberID     = errors.New("member ID cannot be empty")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidStatus     = errors.New("status must be one of: pending, success, failed, refunded")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrRefundExceeds     = errors.New("refund amount exceeds payment amount")
	ErrNotRefundable     = errors.New("only successful payments can be refunded")
	ErrNotPending        = errors.New("only pending payments can be checked out")
	ErrInvalidCurrency   = errors.New("currency must be a 3-letter ISO code")
)

// Payment is a member charge. Amount is in minor currency units.
type Payment struct {
	ID           string
	MemberID     string
	Amount       int64
	Currency     string
	Method       string
	Status       string
	Description  string
	GatewayRef   string // checkout token or gateway order reference
	RefundAmount int64
	RefundReason string
	RefundedAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Payment) Validate() error {
	if p.MemberID == "" {
		return ErrEmptyMemberID
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(p.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if !IsValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether s is a known payment status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Transition moves the payment to status.
// Allowed: pending -> success|failed, failed -> pending, success -> refunded.
// POST: Status and UpdatedAt are set on success
func (p *Payment) Transition(status string, at time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	ok := false
	switch p.Status {
	case StatusPending:
		ok = status == StatusSuccess || status == StatusFailed
	case StatusFailed:
		ok = status == StatusPending
	case StatusSuccess:
		ok = status == StatusRefunded
	}
	if !ok {
		return ErrInvalidTransition
	}
	p.Status = status
	p.UpdatedAt = at
	return nil
}

// Refund records a refund against a successful payment.
// PRE: 0 < amount <= Amount
// POST: Status is refunded; refund fields are set
func (p *Payment) Refund(amount int64, reason string, at time.Time) error {
	if p.Status != StatusSuccess {
		return ErrNotRefundable
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > p.Amount {
		return ErrRefundExceeds
	}
	p.Status = StatusRefunded
	p.RefundAmount = amount
	p.RefundReason = reason
	p.RefundedAt = at
	p.UpdatedAt = at
	return nil
}

// ReportCSV renders payments with the header
// `Member ID,Amount,Currency,Payment Method,Status,Date`.
func ReportCSV(payments []Payment) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Member ID", "Amount", "Currency", "Payment Method", "Status", "Date"}); err != nil {
		return "", err
	}
	for _, p := range payments {
		row := []string{
			p.MemberID,
			strconv.FormatInt(p.Amount, 10),
			p.Currency,
			p.Method,
			p.Status,
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
