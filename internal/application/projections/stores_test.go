package projections

import (
	"context"
	"strings"
	"testing"
	"time"

	notificationStore "gymhub/internal/adapters/storage/notification"
	paymentStore "gymhub/internal/adapters/storage/payment"
	supplementStore "gymhub/internal/adapters/storage/supplement"
	domainNotification "gymhub/internal/domain/notification"
	domainPayment "gymhub/internal/domain/payment"
	domainSupplement "gymhub/internal/domain/supplement"
)

// TestQueryGeneratePaymentsReport_Range reports only payments created inside the range.
func TestQueryGeneratePaymentsReport_Range(t *testing.T) {
	ctx := context.Background()
	store := paymentStore.NewSQLiteStore(openTestDB(t))
	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, p := range []domainPayment.Payment{
		{ID: "p1", MemberID: "m1", Amount: 150000, Currency: "IDR", Method: "card", Status: domainPayment.StatusSuccess, CreatedAt: base},
		{ID: "p2", MemberID: "m2", Amount: 2000, Currency: "USD", Method: "cash, desk", Status: domainPayment.StatusPending, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "p3", MemberID: "m1", Amount: 999, Currency: "USD", Method: "card", Status: domainPayment.StatusPending, CreatedAt: base.AddDate(0, 1, 0)},
	} {
		p.UpdatedAt = p.CreatedAt
		if err := store.Save(ctx, p); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	out, err := QueryGeneratePaymentsReport(ctx, PaymentsReportQuery{Start: base, End: base.AddDate(0, 0, 7)}, store)
	if err != nil {
		t.Fatalf("QueryGeneratePaymentsReport: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Member ID,Amount,Currency,Payment Method,Status,Date" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], `m2,2000,USD,"cash, desk",pending,`) {
		t.Errorf("row 2 = %q", lines[2])
	}

	if _, err := QueryGeneratePaymentsReport(ctx, PaymentsReportQuery{Start: base, End: base.Add(-time.Hour)}, store); err == nil {
		t.Error("expected error for inverted range")
	}

	mine, err := QueryPaymentsForMember(ctx, "m1", store)
	if err != nil || len(mine) != 2 {
		t.Errorf("payments for m1 = %d, %v", len(mine), err)
	}
}

// TestQueryProducts_Catalogue applies discounts, flags low stock, and averages reviews.
func TestQueryProducts_Catalogue(t *testing.T) {
	ctx := context.Background()
	store := supplementStore.NewSQLiteStore(openTestDB(t))
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	for _, p := range []domainSupplement.Product{
		{ID: "whey", Name: "Whey", Price: 20000, StockQuantity: 3, Category: "Protein", Discount: 25, CreatedAt: now},
		{ID: "crea", Name: "Creatine", Price: 10000, StockQuantity: 40, Category: "Performance", CreatedAt: now},
	} {
		if err := store.Save(ctx, p); err != nil {
			t.Fatalf("save %s: %v", p.ID, err)
		}
	}

	protein, err := QueryProducts(ctx, "Protein", store)
	if err != nil {
		t.Fatalf("QueryProducts: %v", err)
	}
	if len(protein) != 1 || protein[0].FinalPrice != 15000 || !protein[0].LowStock {
		t.Errorf("protein = %+v", protein)
	}
	all, err := QueryProducts(ctx, "", store)
	if err != nil || len(all) != 2 {
		t.Errorf("all products = %d, %v", len(all), err)
	}

	low, err := QueryLowStock(ctx, store)
	if err != nil || len(low) != 1 || low[0].ID != "whey" {
		t.Errorf("low stock = %+v, %v", low, err)
	}

	for i, rating := range []int{5, 4} {
		r := domainSupplement.Review{ID: "r" + string(rune('1'+i)), ProductID: "whey", MemberID: "m1", Rating: rating, CreatedAt: now}
		if err := store.SaveReview(ctx, r); err != nil {
			t.Fatalf("SaveReview: %v", err)
		}
	}
	reviews, err := QueryProductReviews(ctx, "whey", store)
	if err != nil {
		t.Fatalf("QueryProductReviews: %v", err)
	}
	if len(reviews.Reviews) != 2 || reviews.AverageRating != 4.5 {
		t.Errorf("reviews = %+v", reviews)
	}
}

// TestQueryNotificationsForMember_Unread counts unread notifications.
func TestQueryNotificationsForMember_Unread(t *testing.T) {
	ctx := context.Background()
	store := notificationStore.NewSQLiteStore(openTestDB(t))
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	for _, n := range []domainNotification.Notification{
		{ID: "n1", MemberID: "m1", Message: "Welcome", CreatedAt: now},
		{ID: "n2", MemberID: "m1", Message: "Paid", Read: true, CreatedAt: now.Add(time.Minute)},
		{ID: "n3", MemberID: "m2", Message: "Other", CreatedAt: now},
	} {
		if err := store.Save(ctx, n); err != nil {
			t.Fatalf("save %s: %v", n.ID, err)
		}
	}
	got, err := QueryNotificationsForMember(ctx, "m1", store)
	if err != nil {
		t.Fatalf("QueryNotificationsForMember: %v", err)
	}
	if len(got.Notifications) != 2 || got.Unread != 1 {
		t.Errorf("result = %+v", got)
	}
	if _, err := QueryNotificationsForMember(ctx, "", store); err != domainNotification.ErrEmptyMemberID {
		t.Errorf("empty member error = %v", err)
	}
}
