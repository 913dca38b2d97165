package payment

import (
	"context"
	"sync"
)

// Noop records requests without contacting a provider. Used in development and tests.
type Noop struct {
	mu        sync.Mutex
	checkouts []CheckoutRequest
	refunds   []RefundRequest
	// RefundErr, when set, is returned by Refund.
	RefundErr error
}

// CreateCheckout implements Gateway.
func (n *Noop) CreateCheckout(_ context.Context, req CheckoutRequest) (Checkout, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.checkouts = append(n.checkouts, req)
	return Checkout{Token: "noop-" + req.OrderID, RedirectURL: "/checkout/" + req.OrderID}, nil
}

// Refund implements Gateway.
func (n *Noop) Refund(_ context.Context, req RefundRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.RefundErr != nil {
		return n.RefundErr
	}
	n.refunds = append(n.refunds, req)
	return nil
}

// Refunds returns the refunds issued so far.
func (n *Noop) Refunds() []RefundRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]RefundRequest(nil), n.refunds...)
}

// Checkouts returns the checkouts created so far.
func (n *Noop) Checkouts() []CheckoutRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]CheckoutRequest(nil), n.checkouts...)
}
