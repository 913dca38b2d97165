package projections

import (
	"context"
	"fmt"
	"time"

	domainPayment "gymhub/internal/domain/payment"
)

// QueryPaymentsForMember lists a member's payments.
func QueryPaymentsForMember(ctx context.Context, memberID string, store PaymentStore) ([]domainPayment.Payment, error) {
	if memberID == "" {
		return nil, domainPayment.ErrEmptyMemberID
	}
	payments, err := store.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// PaymentsReportQuery bounds the report by creation time, inclusive.
type PaymentsReportQuery struct {
	Start time.Time
	End   time.Time
}

// QueryGeneratePaymentsReport renders payments created in the range as CSV.
// PRE: Start is not after End
// POST: Header is Member ID,Amount,Currency,Payment Method,Status,Date
func QueryGeneratePaymentsReport(ctx context.Context, query PaymentsReportQuery, store PaymentStore) (string, error) {
	if query.Start.IsZero() || query.End.IsZero() || query.End.Before(query.Start) {
		return "", fmt.Errorf("report range must have start <= end")
	}
	payments, err := store.ListByCreatedRange(ctx, query.Start, query.End)
	if err != nil {
		return "", fmt.Errorf("failed to list payments: %w", err)
	}
	return domainPayment.ReportCSV(payments)
}
