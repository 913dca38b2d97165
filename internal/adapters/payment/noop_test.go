package payment

import (
	"context"
	"errors"
	"testing"
)

func TestNoop_RecordsRequests(t *testing.T) {
	g := &Noop{}
	ctx := context.Background()
	co, err := g.CreateCheckout(ctx, CheckoutRequest{OrderID: "bill-1", Amount: 150000})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if co.Token != "noop-bill-1" {
		t.Errorf("Token = %q", co.Token)
	}
	if err := g.Refund(ctx, RefundRequest{OrderID: "bill-1", Amount: 50000}); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if n := len(g.Checkouts()); n != 1 {
		t.Errorf("Checkouts = %d, want 1", n)
	}
	if r := g.Refunds(); len(r) != 1 || r[0].Amount != 50000 {
		t.Errorf("Refunds = %+v", r)
	}
}

func TestNoop_RefundError(t *testing.T) {
	boom := errors.New("declined")
	g := &Noop{RefundErr: boom}
	if err := g.Refund(context.Background(), RefundRequest{OrderID: "bill-1"}); !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
	if len(g.Refunds()) != 0 {
		t.Error("failed refund was recorded")
	}
}

var _ Gateway = (*Noop)(nil)
var _ Gateway = (*Midtrans)(nil)
