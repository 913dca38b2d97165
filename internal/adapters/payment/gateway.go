// Package payment talks to the card/e-wallet gateway for checkout and refunds.
package payment

import (
	"context"
	"errors"
)

// ErrGatewayDisabled is returned by gateways that cannot reach a provider.
var ErrGatewayDisabled = errors.New("payment gateway is not configured")

// Customer identifies the payer on the hosted checkout page.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// CheckoutRequest asks the gateway for a hosted checkout.
type CheckoutRequest struct {
	OrderID     string
	Amount      int64
	Description string
	Customer    Customer
}

// Checkout is the hosted checkout handle returned to the client.
type Checkout struct {
	Token       string
	RedirectURL string
}

// RefundRequest refunds part or all of a settled order.
type RefundRequest struct {
	OrderID   string
	RefundKey string
	Amount    int64
	Reason    string
}

// Gateway creates checkouts and issues refunds.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error)
	Refund(ctx context.Context, req RefundRequest) error
}
