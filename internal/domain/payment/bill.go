package payment

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle          = errors.New("bill title cannot be empty")
	ErrInvalidDueDate      = errors.New("due date must be in YYYY-MM-DD format")
	ErrInvalidInstallments = errors.New("installments must be at least 1")
	ErrInvalidInterval     = errors.New("interval must be 'weekly' or 'monthly'")
	ErrInvalidStartDate    = errors.New("start date must be in YYYY-MM-DD format")
)

// Installment intervals.
const (
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

// Bill is an invoice issued to a member.
type Bill struct {
	ID        string
	MemberID  string
	Title     string
	Amount    int64
	Currency  string
	DueDate   string // YYYY-MM-DD
	CreatedAt time.Time
}

// Validate checks if the Bill has valid data.
func (b *Bill) Validate() error {
	if b.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", b.DueDate); err != nil {
		return ErrInvalidDueDate
	}
	return nil
}

// InstallmentPlan splits a total into equal periodic charges.
type InstallmentPlan struct {
	ID           string
	MemberID     string
	Total        int64
	Installments int
	Interval     string
	StartDate    string // YYYY-MM-DD
	CreatedAt    time.Time
}

// Validate checks if the InstallmentPlan has valid data.
func (p *InstallmentPlan) Validate() error {
	if p.MemberID == "" {
		return ErrEmptyMemberID
	}
	if p.Total <= 0 {
		return ErrInvalidAmount
	}
	if p.Installments < 1 {
		return ErrInvalidInstallments
	}
	if p.Interval != IntervalWeekly && p.Interval != IntervalMonthly {
		return ErrInvalidInterval
	}
	if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
		return ErrInvalidStartDate
	}
	return nil
}

// Schedule returns the due date and amount of every installment.
// The remainder of an uneven split is added to the final installment.
// PRE: plan is valid
func (p *InstallmentPlan) Schedule() []Installment {
	start, _ := time.Parse("2006-01-02", p.StartDate)
	base := p.Total / int64(p.Installments)
	out := make([]Installment, p.Installments)
	for i := range out {
		due := start.AddDate(0, i, 0)
		if p.Interval == IntervalWeekly {
			due = start.AddDate(0, 0, 7*i)
		}
		out[i] = Installment{DueDate: due.Format("2006-01-02"), Amount: base}
	}
	out[len(out)-1].Amount += p.Total - base*int64(p.Installments)
	return out
}

// Installment is one scheduled charge of a plan.
type Installment struct {
	DueDate string
	Amount  int64
}
