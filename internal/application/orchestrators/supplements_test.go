package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gymhub/internal/adapters/blob"
	"gymhub/internal/adapters/imageproc"
	supplementStore "gymhub/internal/adapters/storage/supplement"
	"gymhub/internal/domain/supplement"
)

func supplementDeps(t *testing.T) (SupplementDeps, *supplementStore.SQLiteStore) {
	t.Helper()
	store := supplementStore.NewSQLiteStore(openTestDB(t))
	return SupplementDeps{
		Products:   store,
		Reviews:    store,
		Wishlist:   store,
		Blobs:      blob.NewLocal(t.TempDir(), "/media/"),
		Thumbnail:  func(data []byte) ([]byte, error) { return append([]byte("webp:"), data...), nil },
		GenerateID: seqIDs("prod"),
		Now:        fixedNow,
	}, store
}

// TestExecuteAddProduct_WithImage uploads the converted image before saving.
func TestExecuteAddProduct_WithImage(t *testing.T) {
	deps, store := supplementDeps(t)
	p, err := ExecuteAddProduct(context.Background(), AddProductInput{
		Product: supplement.Product{Name: "Whey Protein", Price: 450000, StockQuantity: 12},
		Image:   []byte("raw"),
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ImageURL != "/media/products/prod-1.webp" || p.Category != supplement.DefaultCategory {
		t.Errorf("product = %+v", p)
	}
	local := deps.Blobs.(*blob.Local)
	data, err := os.ReadFile(filepath.Join(local.Dir, "products", "prod-1.webp"))
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if !bytes.Equal(data, []byte("webp:raw")) {
		t.Errorf("blob = %q", data)
	}
	got, err := store.GetByID(context.Background(), p.ID)
	if err != nil || got.ImageURL != p.ImageURL {
		t.Errorf("stored product = %+v, %v", got, err)
	}
}

// TestExecuteAddProduct_BadImage maps decode failures and stores nothing.
func TestExecuteAddProduct_BadImage(t *testing.T) {
	deps, store := supplementDeps(t)
	deps.Thumbnail = func([]byte) ([]byte, error) { return nil, imageproc.ErrUnsupported }
	_, err := ExecuteAddProduct(context.Background(), AddProductInput{
		Product: supplement.Product{Name: "Creatine", Price: 100},
		Image:   []byte("not an image"),
	}, deps)
	if !errors.Is(err, supplement.ErrImageUnsupported) {
		t.Fatalf("error = %v, want ErrImageUnsupported", err)
	}
	if _, err := store.GetByID(context.Background(), "prod-1"); err == nil {
		t.Error("product must not be saved when the image fails")
	}
}

// TestSupplementStockAndDiscount validates and persists changes.
func TestSupplementStockAndDiscount(t *testing.T) {
	deps, _ := supplementDeps(t)
	ctx := context.Background()
	p, err := ExecuteAddProduct(ctx, AddProductInput{Product: supplement.Product{Name: "BCAA", Price: 20000, StockQuantity: 30}}, deps)
	if err != nil {
		t.Fatal(err)
	}

	p, err = ExecuteUpdateStock(ctx, p.ID, 3, deps)
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 3 || !p.IsLowStock() {
		t.Errorf("stock = %d", p.StockQuantity)
	}
	if _, err := ExecuteUpdateStock(ctx, p.ID, -1, deps); !errors.Is(err, supplement.ErrNegativeStock) {
		t.Errorf("error = %v, want ErrNegativeStock", err)
	}

	p, err = ExecuteApplyDiscount(ctx, p.ID, 25, deps)
	if err != nil {
		t.Fatal(err)
	}
	if p.DiscountedPrice() != 15000 {
		t.Errorf("DiscountedPrice = %d, want 15000", p.DiscountedPrice())
	}
	if _, err := ExecuteApplyDiscount(ctx, p.ID, 101, deps); !errors.Is(err, supplement.ErrInvalidDiscount) {
		t.Errorf("error = %v, want ErrInvalidDiscount", err)
	}
	if _, err := ExecuteApplyDiscount(ctx, "missing", 10, deps); !errors.Is(err, supplement.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// TestExecuteAddReview requires an existing product and a valid rating.
func TestExecuteAddReview(t *testing.T) {
	deps, store := supplementDeps(t)
	ctx := context.Background()
	p, err := ExecuteAddProduct(ctx, AddProductInput{Product: supplement.Product{Name: "Omega 3", Price: 9000}}, deps)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ExecuteAddReview(ctx, supplement.Review{ProductID: p.ID, MemberID: "m1", Rating: 5, Comment: "great"}, deps); err != nil {
		t.Fatal(err)
	}
	if _, err := ExecuteAddReview(ctx, supplement.Review{ProductID: p.ID, MemberID: "m1", Rating: 6}, deps); !errors.Is(err, supplement.ErrInvalidRating) {
		t.Errorf("error = %v, want ErrInvalidRating", err)
	}
	if _, err := ExecuteAddReview(ctx, supplement.Review{ProductID: "nope", MemberID: "m1", Rating: 3}, deps); !errors.Is(err, supplement.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	reviews, err := store.ListReviews(ctx, p.ID)
	if err != nil || len(reviews) != 1 {
		t.Errorf("reviews = %+v, %v", reviews, err)
	}
}

// TestExecuteToggleWishlist flips membership on each call.
func TestExecuteToggleWishlist(t *testing.T) {
	deps, _ := supplementDeps(t)
	ctx := context.Background()
	for i, want := range []bool{true, false, true} {
		added, err := ExecuteToggleWishlist(ctx, "m1", "p1", deps)
		if err != nil {
			t.Fatalf("toggle %d: %v", i+1, err)
		}
		if added != want {
			t.Errorf("toggle %d: added = %v, want %v", i+1, added, want)
		}
	}
	if _, err := ExecuteToggleWishlist(ctx, "", "p1", deps); !errors.Is(err, supplement.ErrEmptyMemberID) {
		t.Errorf("error = %v, want ErrEmptyMemberID", err)
	}
}
