package supplement_test

import (
	"testing"

	"gymhub/internal/domain/supplement"
)

func TestProduct_Validate(t *testing.T) {
	valid := supplement.Product{Name: "Whey Protein", Price: 350000, StockQuantity: 10}
	tests := []struct {
		name    string
		mutate  func(p *supplement.Product)
		wantErr error
	}{
		{"valid", func(p *supplement.Product) {}, nil},
		{"empty name", func(p *supplement.Product) { p.Name = "" }, supplement.ErrEmptyName},
		{"zero price", func(p *supplement.Product) { p.Price = 0 }, supplement.ErrInvalidPrice},
		{"negative stock", func(p *supplement.Product) { p.StockQuantity = -1 }, supplement.ErrNegativeStock},
		{"discount over 100", func(p *supplement.Product) { p.Discount = 101 }, supplement.ErrInvalidDiscount},
		{"bad expiry", func(p *supplement.Product) { p.ExpiryDate = "soon" }, supplement.ErrInvalidExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProduct_Helpers(t *testing.T) {
	p := supplement.Product{Price: 1000, Discount: 25, StockQuantity: 5}
	p.ApplyDefaults()
	if p.Category != supplement.DefaultCategory {
		t.Errorf("Category = %q", p.Category)
	}
	if got := p.DiscountedPrice(); got != 750 {
		t.Errorf("DiscountedPrice = %d, want 750", got)
	}
	if !p.IsLowStock() {
		t.Error("stock 5 should be low")
	}
	p.StockQuantity = 6
	if p.IsLowStock() {
		t.Error("stock 6 should not be low")
	}
}

func TestReview_Validate(t *testing.T) {
	for _, rating := range []int{0, 6} {
		r := supplement.Review{ProductID: "p1", MemberID: "m1", Rating: rating}
		if err := r.Validate(); err != supplement.ErrInvalidRating {
			t.Errorf("rating %d: %v", rating, err)
		}
	}
	r := supplement.Review{ProductID: "p1", MemberID: "m1", Rating: 5}
	if err := r.Validate(); err != nil {
		t.Errorf("valid review: %v", err)
	}
}
