package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/blob"
	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/imageproc"
	"gymhub/internal/adapters/storage"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/supplement"
)

// ProductStore reads and writes supplement products.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (supplement.Product, error)
	Save(ctx context.Context, p supplement.Product) error
}

// ReviewSaver stores product reviews.
type ReviewSaver interface {
	SaveReview(ctx context.Context, r supplement.Review) error
}

// WishlistToggler adds or removes a wishlist entry.
type WishlistToggler interface {
	ToggleWishlist(ctx context.Context, item supplement.WishlistItem) (bool, error)
}

// SupplementDeps holds dependencies for supplement store commands.
type SupplementDeps struct {
	Products ProductStore
	Reviews  ReviewSaver
	Wishlist WishlistToggler
	Blobs    blob.Store // required when an image is uploaded
	// Thumbnail converts the upload; nil uses imageproc.Thumbnail with default bounds.
	Thumbnail  func(data []byte) ([]byte, error)
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

func loadProduct(ctx context.Context, store ProductStore, id string) (supplement.Product, error) {
	p, err := store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return supplement.Product{}, supplement.ErrNotFound
	}
	if err != nil {
		return supplement.Product{}, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return p, nil
}

// AddProductInput carries a new product and an optional image upload.
type AddProductInput struct {
	Product supplement.Product
	Image   []byte
	ActorID string
}

// ExecuteAddProduct stores a product. An uploaded image is resized, encoded
// as webp and uploaded before the product is saved, so ImageURL always resolves.
// POST: product has a fresh ID and a category
func ExecuteAddProduct(ctx context.Context, input AddProductInput, deps SupplementDeps) (supplement.Product, error) {
	p := input.Product
	p.ID = newID(deps.GenerateID)
	p.CreatedAt = nowFrom(deps.Now)
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return supplement.Product{}, err
	}

	if len(input.Image) > 0 {
		if deps.Blobs == nil {
			return supplement.Product{}, errors.New("image upload is not configured")
		}
		thumb := deps.Thumbnail
		if thumb == nil {
			thumb = func(data []byte) ([]byte, error) { return imageproc.Thumbnail(data, imageproc.Options{}) }
		}
		data, err := thumb(input.Image)
		if errors.Is(err, imageproc.ErrUnsupported) {
			return supplement.Product{}, supplement.ErrImageUnsupported
		}
		if err != nil {
			return supplement.Product{}, fmt.Errorf("failed to process product image: %w", err)
		}
		url, err := deps.Blobs.Put(ctx, "products/"+p.ID+".webp", imageproc.ContentType, data)
		if err != nil {
			return supplement.Product{}, fmt.Errorf("failed to upload product image: %w", err)
		}
		p.ImageURL = url
	}

	if err := deps.Products.Save(ctx, p); err != nil {
		return supplement.Product{}, fmt.Errorf("failed to save product: %w", err)
	}
	slog.Info("store_event", "event", "product_added", "product_id", p.ID, "has_image", p.ImageURL != "")
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventProductAdded, "product_id", p.ID, "name", p.Name).WithActor(input.ActorID))
	return p, nil
}

// ExecuteUpdateStock sets the stock level of a product.
// PRE: quantity >= 0
func ExecuteUpdateStock(ctx context.Context, productID string, quantity int, deps SupplementDeps) (supplement.Product, error) {
	if quantity < 0 {
		return supplement.Product{}, supplement.ErrNegativeStock
	}
	p, err := loadProduct(ctx, deps.Products, productID)
	if err != nil {
		return supplement.Product{}, err
	}
	p.StockQuantity = quantity
	if err := deps.Products.Save(ctx, p); err != nil {
		return supplement.Product{}, fmt.Errorf("failed to save product: %w", err)
	}
	if p.IsLowStock() {
		slog.Warn("store_event", "event", "low_stock", "product_id", p.ID, "stock", p.StockQuantity)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventStockUpdated, "product_id", p.ID, "stock", quantity))
	return p, nil
}

// ExecuteApplyDiscount sets a product's discount percentage.
// PRE: 0 <= percent <= 100
func ExecuteApplyDiscount(ctx context.Context, productID string, percent int, deps SupplementDeps) (supplement.Product, error) {
	if err := supplement.ValidateDiscount(percent); err != nil {
		return supplement.Product{}, err
	}
	p, err := loadProduct(ctx, deps.Products, productID)
	if err != nil {
		return supplement.Product{}, err
	}
	p.Discount = percent
	if err := deps.Products.Save(ctx, p); err != nil {
		return supplement.Product{}, fmt.Errorf("failed to save product: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventDiscountApplied, "product_id", p.ID, "discount", percent))
	return p, nil
}

// ExecuteAddReview stores a member's rating of a product.
// PRE: product exists; 1 <= Rating <= 5
func ExecuteAddReview(ctx context.Context, r supplement.Review, deps SupplementDeps) (supplement.Review, error) {
	r.ID = newID(deps.GenerateID)
	r.CreatedAt = nowFrom(deps.Now)
	if err := r.Validate(); err != nil {
		return supplement.Review{}, err
	}
	if _, err := loadProduct(ctx, deps.Products, r.ProductID); err != nil {
		return supplement.Review{}, err
	}
	if err := deps.Reviews.SaveReview(ctx, r); err != nil {
		return supplement.Review{}, fmt.Errorf("failed to save review: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventReviewAdded,
		"product_id", r.ProductID, "rating", r.Rating).WithActor(r.MemberID))
	return r, nil
}

// ExecuteToggleWishlist adds the product to the member's wishlist, or removes it when present.
// POST: added reports whether the product is now on the wishlist
func ExecuteToggleWishlist(ctx context.Context, memberID, productID string, deps SupplementDeps) (bool, error) {
	if memberID == "" {
		return false, supplement.ErrEmptyMemberID
	}
	if productID == "" {
		return false, supplement.ErrEmptyProductID
	}
	added, err := deps.Wishlist.ToggleWishlist(ctx, supplement.WishlistItem{
		ID:        newID(deps.GenerateID),
		MemberID:  memberID,
		ProductID: productID,
		AddedAt:   nowFrom(deps.Now),
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle wishlist: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventWishlistToggled,
		"product_id", productID, "added", added).WithActor(memberID))
	return added, nil
}
