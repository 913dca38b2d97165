package payment

import (
	"context"
	"time"

	domain "gymhub/internal/domain/payment"
)

// Store persists payments, bills and installment plans.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	Save(ctx context.Context, value domain.Payment) error
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Payment, error)
	ListByCreatedRange(ctx context.Context, start, end time.Time) ([]domain.Payment, error)
	SaveBill(ctx context.Context, value domain.Bill) error
	ListBillsByMemberID(ctx context.Context, memberID string) ([]domain.Bill, error)
	SavePlan(ctx context.Context, value domain.InstallmentPlan) error
}
