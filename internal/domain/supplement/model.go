package supplement

import (
	"errors"
	"strings"
	"time"
)

// DefaultCategory is applied when a product has no category.
const DefaultCategory = "General"

// LowStockThreshold is the stock level at or below which a product is flagged.
const LowStockThreshold = 5

// Domain errors
var (
	ErrNotFound         = errors.New("product not found")
	ErrEmptyName        = errors.New("product name cannot be empty")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrNegativeStock    = errors.New("stock quantity cannot be negative")
	ErrInvalidDiscount  = errors.New("discount must be between 0 and 100")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrEmptyMemberID    = errors.New("member ID cannot be empty")
	ErrEmptyProductID   = errors.New("product ID cannot be empty")
	ErrInvalidExpiry    = errors.New("expiry date must be in YYYY-MM-DD format")
	ErrImageUnsupported = errors.New("product image could not be decoded")
)

// Product is a supplement sold in the gym store. Price is in minor currency units.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         int64
	StockQuantity int
	SKU           string
	Category      string
	ExpiryDate    string // YYYY-MM-DD, optional
	Discount      int    // percent
	ImageURL      string
	CreatedAt     time.Time
}

// Validate checks if the Product has valid data.
// PRE: Product struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	if err := ValidateDiscount(p.Discount); err != nil {
		return err
	}
	if p.ExpiryDate != "" {
		if _, err := time.Parse("2006-01-02", p.ExpiryDate); err != nil {
			return ErrInvalidExpiry
		}
	}
	return nil
}

// ApplyDefaults fills the category when unset.
func (p *Product) ApplyDefaults() {
	if p.Category == "" {
		p.Category = DefaultCategory
	}
}

// ValidateDiscount checks a discount percentage.
func ValidateDiscount(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

// DiscountedPrice returns the price after the discount, rounded down.
func (p *Product) DiscountedPrice() int64 {
	return p.Price * int64(100-p.Discount) / 100
}

// IsLowStock reports whether the product needs restocking.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= LowStockThreshold
}

// Review is a member's rating of a product.
type Review struct {
	ID        string
	ProductID string
	MemberID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.ProductID == "" {
		return ErrEmptyProductID
	}
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// WishlistItem records that a member wants a product.
// INVARIANT: at most one item per (MemberID, ProductID)
type WishlistItem struct {
	ID        string
	MemberID  string
	ProductID string
	AddedAt   time.Time
}
