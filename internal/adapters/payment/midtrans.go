package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Midtrans uses Snap for hosted checkout and the Core API for refunds.
type Midtrans struct {
	snap snap.Client
	core coreapi.Client
}

// NewMidtrans creates a gateway for the sandbox or production environment.
// PRE: serverKey is non-empty
func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m := &Midtrans{}
	m.snap.New(serverKey, env)
	m.core.New(serverKey, env)
	return m
}

// CreateCheckout implements Gateway.
func (m *Midtrans) CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error) {
	if err := ctx.Err(); err != nil {
		return Checkout{}, err
	}
	if req.OrderID == "" || req.Amount <= 0 {
		return Checkout{}, errors.New("checkout requires an order ID and a positive amount")
	}
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.OrderID,
			Name:  req.Description,
			Price: req.Amount,
			Qty:   1,
		}},
	}
	resp, mErr := m.snap.CreateTransaction(snapReq)
	if mErr != nil {
		slog.Error("payment_event", "event", "midtrans_checkout_failed", "order_id", req.OrderID, "error", mErr.Error())
		return Checkout{}, fmt.Errorf("midtrans checkout: %w", mErr)
	}
	slog.Info("payment_event", "event", "midtrans_checkout_created", "order_id", req.OrderID)
	return Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// Refund implements Gateway.
func (m *Midtrans) Refund(ctx context.Context, req RefundRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, mErr := m.core.RefundTransaction(req.OrderID, &coreapi.RefundReq{
		RefundKey: req.RefundKey,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if mErr != nil {
		slog.Error("payment_event", "event", "midtrans_refund_failed", "order_id", req.OrderID, "error", mErr.Error())
		return fmt.Errorf("midtrans refund: %w", mErr)
	}
	slog.Info("payment_event", "event", "midtrans_refund_sent", "order_id", req.OrderID, "amount", req.Amount)
	return nil
}
