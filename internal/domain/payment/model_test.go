package payment_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"gymhub/internal/domain/payment"
)

func TestPayment_Transition(t *testing.T) {
	now := time.Now()
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{payment.StatusPending, payment.StatusSuccess, false},
		{payment.StatusPending, payment.StatusFailed, false},
		{payment.StatusFailed, payment.StatusPending, false},
		{payment.StatusSuccess, payment.StatusRefunded, false},
		{payment.StatusPending, payment.StatusRefunded, true},
		{payment.StatusRefunded, payment.StatusSuccess, true},
		{payment.StatusPending, "bogus", true},
	}
	for _, tt := range tests {
		p := payment.Payment{Status: tt.from}
		err := p.Transition(tt.to, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s -> %s: error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}
}

func TestPayment_Refund(t *testing.T) {
	now := time.Now()
	p := payment.Payment{Amount: 50000, Status: payment.StatusPending}
	if err := p.Refund(100, "x", now); err != payment.ErrNotRefundable {
		t.Fatalf("refund pending: %v", err)
	}
	p.Status = payment.StatusSuccess
	if err := p.Refund(60000, "x", now); err != payment.ErrRefundExceeds {
		t.Fatalf("over-refund: %v", err)
	}
	if err := p.Refund(20000, "injury", now); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if p.Status != payment.StatusRefunded || p.RefundAmount != 20000 || p.RefundReason != "injury" {
		t.Errorf("after refund: %+v", p)
	}
}

func TestReportCSV(t *testing.T) {
	at := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	out, err := payment.ReportCSV([]payment.Payment{
		{MemberID: "m1", Amount: 150000, Currency: "IDR", Method: "card", Status: "success", CreatedAt: at},
	})
	if err != nil {
		t.Fatalf("ReportCSV: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	want := []string{"m1", "150000", "IDR", "card", "success", "2025-08-01T10:00:00Z"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
	if rows[0][3] != "Payment Method" {
		t.Errorf("header = %v", rows[0])
	}
}

func TestInstallmentPlan_Schedule(t *testing.T) {
	plan := payment.InstallmentPlan{MemberID: "m1", Total: 1000, Installments: 3, Interval: payment.IntervalMonthly, StartDate: "2025-01-31"}
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	s := plan.Schedule()
	if len(s) != 3 {
		t.Fatalf("len = %d", len(s))
	}
	var sum int64
	for _, i := range s {
		sum += i.Amount
	}
	if sum != 1000 || s[2].Amount != 334 {
		t.Errorf("schedule = %+v", s)
	}
	weekly := payment.InstallmentPlan{MemberID: "m1", Total: 300, Installments: 2, Interval: payment.IntervalWeekly, StartDate: "2025-01-01"}
	if got := weekly.Schedule()[1].DueDate; got != "2025-01-08" {
		t.Errorf("weekly second due = %s", got)
	}
}
