package projections

import (
	"context"
	"fmt"

	domainSupplement "gymhub/internal/domain/supplement"
)

// ProductView is a catalogue entry with its price after discount.
type ProductView struct {
	domainSupplement.Product
	FinalPrice int64
	LowStock   bool
}

// QueryProducts lists the catalogue, optionally filtered by category.
// POST: An empty category lists every product
func QueryProducts(ctx context.Context, category string, store SupplementStore) ([]ProductView, error) {
	products, err := store.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, ProductView{
			Product:    products[i],
			FinalPrice: products[i].DiscountedPrice(),
			LowStock:   products[i].IsLowStock(),
		})
	}
	return views, nil
}

// ReviewsResult carries a product's reviews and their mean rating.
type ReviewsResult struct {
	Reviews       []domainSupplement.Review
	AverageRating float64
}

// QueryProductReviews lists the reviews of a product.
func QueryProductReviews(ctx context.Context, productID string, store SupplementStore) (ReviewsResult, error) {
	if productID == "" {
		return ReviewsResult{}, domainSupplement.ErrEmptyProductID
	}
	reviews, err := store.ListReviews(ctx, productID)
	if err != nil {
		return ReviewsResult{}, fmt.Errorf("failed to list reviews: %w", err)
	}
	result := ReviewsResult{Reviews: reviews}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		result.AverageRating = float64(sum) / float64(len(reviews))
	}
	return result, nil
}

// QueryLowStock lists products at or below the low-stock threshold.
func QueryLowStock(ctx context.Context, store SupplementStore) ([]domainSupplement.Product, error) {
	products, err := store.ListLowStock(ctx, domainSupplement.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return products, nil
}

// QueryWishlist lists the products a member has wishlisted.
func QueryWishlist(ctx context.Context, memberID string, store SupplementStore) ([]domainSupplement.WishlistItem, error) {
	if memberID == "" {
		return nil, domainSupplement.ErrEmptyMemberID
	}
	items, err := store.ListWishlist(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}
