package supplement

import (
	"context"

	domain "gymhub/internal/domain/supplement"
)

// Store persists products, reviews and wishlists.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Save(ctx context.Context, value domain.Product) error
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	SaveReview(ctx context.Context, value domain.Review) error
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
	// ToggleWishlist adds the item when absent and removes it otherwise.
	// POST: added reports whether the item is now present
	ToggleWishlist(ctx context.Context, item domain.WishlistItem) (added bool, err error)
	ListWishlist(ctx context.Context, memberID string) ([]domain.WishlistItem, error)
}
