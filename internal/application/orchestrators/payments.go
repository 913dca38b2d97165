package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	paymentGateway "gymhub/internal/adapters/payment"
	"gymhub/internal/adapters/storage"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/member"
	"gymhub/internal/domain/notification"
	"gymhub/internal/domain/payment"

	"github.com/google/uuid"
)

// PaymentStore reads and writes payments.
type PaymentStore interface {
	GetByID(ctx context.Context, id string) (payment.Payment, error)
	Save(ctx context.Context, p payment.Payment) error
}

// MemberGetter reads one member.
type MemberGetter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

func loadPayment(ctx context.Context, store PaymentStore, id string) (payment.Payment, error) {
	p, err := store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return payment.Payment{}, payment.ErrNotFound
	}
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to load payment %s: %w", id, err)
	}
	return p, nil
}

// CreatePaymentInput carries a new payment. Amount is in minor units.
type CreatePaymentInput struct {
	MemberID    string `validate:"required"`
	Amount      int64  `validate:"gt=0"`
	Currency    string `validate:"required,iso4217"`
	Method      string `validate:"omitempty,oneof=card bank_transfer ewallet cash"`
	Status      string `validate:"omitempty,oneof=pending success failed"`
	Description string `validate:"max=500"`
	ActorID     string
}

// PaymentDeps holds dependencies shared by payment commands.
type PaymentDeps struct {
	Payments   PaymentStore
	Events     eventlog.Logger
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreatePayment records a payment, pending unless a status is given.
// PRE: Amount > 0; Currency is an ISO 4217 code
// POST: payment stored with CreatedAt = UpdatedAt = now
func ExecuteCreatePayment(ctx context.Context, input CreatePaymentInput, deps PaymentDeps) (payment.Payment, error) {
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if err := validateInput(input); err != nil {
		return payment.Payment{}, err
	}
	now := nowFrom(deps.Now)
	p := payment.Payment{
		ID:          newID(deps.GenerateID),
		MemberID:    input.MemberID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Method:      input.Method,
		Status:      input.Status,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Status == "" {
		p.Status = payment.StatusPending
	}
	if err := p.Validate(); err != nil {
		return payment.Payment{}, err
	}
	if err := deps.Payments.Save(ctx, p); err != nil {
		return payment.Payment{}, fmt.Errorf("failed to save payment: %w", err)
	}
	slog.Info("payment_event", "event", "payment_created", "payment_id", p.ID, "member_id", p.MemberID, "amount", p.Amount, "currency", p.Currency)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventPaymentCreated,
		"payment_id", p.ID, "member_id", p.MemberID, "amount", p.Amount, "currency", p.Currency).WithActor(input.ActorID))
	return p, nil
}

// ExecuteUpdatePaymentStatus moves a payment along its lifecycle.
// POST: error is payment.ErrInvalidTransition for disallowed moves
func ExecuteUpdatePaymentStatus(ctx context.Context, paymentID, status, actorID string, deps PaymentDeps) (payment.Payment, error) {
	p, err := loadPayment(ctx, deps.Payments, paymentID)
	if err != nil {
		return payment.Payment{}, err
	}
	from := p.Status
	if err := p.Transition(status, nowFrom(deps.Now)); err != nil {
		return payment.Payment{}, err
	}
	if err := deps.Payments.Save(ctx, p); err != nil {
		return payment.Payment{}, fmt.Errorf("failed to save payment: %w", err)
	}
	slog.Info("payment_event", "event", "payment_status_updated", "payment_id", p.ID, "from", from, "to", p.Status)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventPaymentStatusUpdated,
		"payment_id", p.ID, "from", from, "to", p.Status).WithActor(actorID))
	return p, nil
}

// RefundPaymentInput carries a refund request.
type RefundPaymentInput struct {
	PaymentID string
	Amount    int64
	Reason    string
	ActorID   string
}

// RefundPaymentDeps holds dependencies for RefundPayment.
type RefundPaymentDeps struct {
	PaymentDeps
	Gateway paymentGateway.Gateway
}

// ExecuteRefundPayment refunds a successful payment through the gateway, then marks it refunded.
// PRE: payment is successful; 0 < Amount <= payment amount
// POST: the gateway refund succeeded before the payment is saved as refunded
func ExecuteRefundPayment(ctx context.Context, input RefundPaymentInput, deps RefundPaymentDeps) (payment.Payment, error) {
	p, err := loadPayment(ctx, deps.Payments, input.PaymentID)
	if err != nil {
		return payment.Payment{}, err
	}
	if err := p.Refund(input.Amount, input.Reason, nowFrom(deps.Now)); err != nil {
		return payment.Payment{}, err
	}
	if deps.Gateway != nil {
		err := deps.Gateway.Refund(ctx, paymentGateway.RefundRequest{
			OrderID:   p.ID,
			RefundKey: uuid.New().String(),
			Amount:    input.Amount,
			Reason:    input.Reason,
		})
		if err != nil {
			return payment.Payment{}, fmt.Errorf("gateway refund failed: %w", err)
		}
	}
	if err := deps.Payments.Save(ctx, p); err != nil {
		return payment.Payment{}, fmt.Errorf("failed to save refunded payment: %w", err)
	}
	slog.Info("payment_event", "event", "payment_refunded", "payment_id", p.ID, "amount", input.Amount)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventPaymentRefunded,
		"payment_id", p.ID, "amount", input.Amount, "reason", input.Reason).WithActor(input.ActorID))
	return p, nil
}

// StartCheckoutDeps holds dependencies for StartCheckout.
type StartCheckoutDeps struct {
	PaymentDeps
	Members MemberGetter
	Gateway paymentGateway.Gateway
}

// ExecuteStartCheckout opens a hosted checkout for a pending payment.
// POST: payment.GatewayRef holds the checkout token
func ExecuteStartCheckout(ctx context.Context, paymentID string, deps StartCheckoutDeps) (paymentGateway.Checkout, error) {
	if deps.Gateway == nil {
		return paymentGateway.Checkout{}, paymentGateway.ErrGatewayDisabled
	}
	p, err := loadPayment(ctx, deps.Payments, paymentID)
	if err != nil {
		return paymentGateway.Checkout{}, err
	}
	if p.Status != payment.StatusPending {
		return paymentGateway.Checkout{}, payment.ErrNotPending
	}
	var cust paymentGateway.Customer
	if deps.Members != nil {
		if m, err := deps.Members.GetByID(ctx, p.MemberID); err == nil {
			cust = paymentGateway.Customer{Name: m.Name, Email: m.Email, Phone: m.Phone}
		}
	}
	desc := p.Description
	if desc == "" {
		desc = "Gym payment"
	}
	co, err := deps.Gateway.CreateCheckout(ctx, paymentGateway.CheckoutRequest{
		OrderID:     p.ID,
		Amount:      p.Amount,
		Description: desc,
		Customer:    cust,
	})
	if err != nil {
		return paymentGateway.Checkout{}, err
	}
	p.GatewayRef = co.Token
	p.UpdatedAt = nowFrom(deps.Now)
	if err := deps.Payments.Save(ctx, p); err != nil {
		return paymentGateway.Checkout{}, fmt.Errorf("failed to save payment: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventCheckoutStarted, "payment_id", p.ID))
	return co, nil
}

// PaymentReminderDeps holds dependencies for SendPaymentReminder.
type PaymentReminderDeps struct {
	PaymentDeps
	Members       MemberGetter
	Notifications NotificationSaver
	Email         EmailSender // optional
	Outbox        OutboxSaver // optional
}

// ExecuteSendPaymentReminder reminds a member about a pending payment in-app and by email.
// PRE: payment is pending
func ExecuteSendPaymentReminder(ctx context.Context, paymentID string, deps PaymentReminderDeps) error {
	p, err := loadPayment(ctx, deps.Payments, paymentID)
	if err != nil {
		return err
	}
	if p.Status != payment.StatusPending {
		return payment.ErrNotPending
	}
	now := nowFrom(deps.Now)
	msg := fmt.Sprintf("Reminder: your payment of %s %s is still pending.", formatMinor(p.Amount), p.Currency)
	if p.Description != "" {
		msg += " " + p.Description
	}
	n := notification.Notification{ID: newID(deps.GenerateID), MemberID: p.MemberID, Message: msg, CreatedAt: now}
	if err := deps.Notifications.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	if deps.Members != nil {
		m, err := deps.Members.GetByID(ctx, p.MemberID)
		if err == nil && m.Email != "" {
			req := email.Message(m.Email, "Payment reminder", fmt.Sprintf("Hi %s,\n\n%s", m.Name, msg))
			if err := deliverEmail(ctx, deps.Email, deps.Outbox, req, now); err != nil {
				return err
			}
		}
	}
	slog.Info("payment_event", "event", "payment_reminder_sent", "payment_id", p.ID, "member_id", p.MemberID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventPaymentReminderSent, "payment_id", p.ID, "member_id", p.MemberID))
	return nil
}

func formatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// BillStore writes bills and installment plans.
type BillStore interface {
	SaveBill(ctx context.Context, b payment.Bill) error
	SavePlan(ctx context.Context, p payment.InstallmentPlan) error
}

// BillingDeps holds dependencies for CreateBill and CreateInstallmentPlan.
type BillingDeps struct {
	Bills      BillStore
	Events     eventlog.Logger
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateBill stores a bill with a due date.
func ExecuteCreateBill(ctx context.Context, b payment.Bill, deps BillingDeps) (payment.Bill, error) {
	b.ID = newID(deps.GenerateID)
	b.CreatedAt = nowFrom(deps.Now)
	b.Currency = strings.ToUpper(b.Currency)
	if err := b.Validate(); err != nil {
		return payment.Bill{}, err
	}
	if err := deps.Bills.SaveBill(ctx, b); err != nil {
		return payment.Bill{}, fmt.Errorf("failed to save bill: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventBillCreated, "bill_id", b.ID, "member_id", b.MemberID, "amount", b.Amount))
	return b, nil
}

// ExecuteCreateInstallmentPlan stores a plan and returns its due schedule.
func ExecuteCreateInstallmentPlan(ctx context.Context, p payment.InstallmentPlan, deps BillingDeps) (payment.InstallmentPlan, []payment.Installment, error) {
	p.ID = newID(deps.GenerateID)
	p.CreatedAt = nowFrom(deps.Now)
	if err := p.Validate(); err != nil {
		return payment.InstallmentPlan{}, nil, err
	}
	if err := deps.Bills.SavePlan(ctx, p); err != nil {
		return payment.InstallmentPlan{}, nil, fmt.Errorf("failed to save installment plan: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventInstallmentCreated,
		"plan_id", p.ID, "member_id", p.MemberID, "installments", p.Installments))
	return p, p.Schedule(), nil
}
