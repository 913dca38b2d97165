package supplement

import (
	"context"
	"database/sql"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/supplement"
)

const productColumns = "id, name, description, price, stock_quantity, sku, category, expiry_date, discount, image_url, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new supplement store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (domain.Product, error) {
	var p domain.Product
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.SKU,
		&p.Category, &p.ExpiryDate, &p.Discount, &p.ImageURL, &created); err != nil {
		return domain.Product{}, err
	}
	var err error
	if p.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.Product{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return p, nil
}

// GetByID retrieves a Product by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM product WHERE id = ?", id))
	if err != nil {
		return domain.Product{}, storage.NotFound("product", err)
	}
	return p, nil
}

// Save persists a Product.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description, price=excluded.price,
		   stock_quantity=excluded.stock_quantity, sku=excluded.sku, category=excluded.category,
		   expiry_date=excluded.expiry_date, discount=excluded.discount, image_url=excluded.image_url`,
		p.ID, p.Name, p.Description, p.Price, p.StockQuantity, p.SKU, p.Category,
		p.ExpiryDate, p.Discount, p.ImageURL, storage.FormatTime(p.CreatedAt))
	return err
}

// ListByCategory returns products ordered by name. An empty category lists all.
func (s *SQLiteStore) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if category == "" {
		return s.list(ctx, "SELECT "+productColumns+" FROM product ORDER BY name ASC")
	}
	return s.list(ctx, "SELECT "+productColumns+" FROM product WHERE category = ? ORDER BY name ASC", category)
}

// ListLowStock returns products whose stock is at or below threshold.
func (s *SQLiteStore) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	return s.list(ctx,
		"SELECT "+productColumns+" FROM product WHERE stock_quantity <= ? ORDER BY stock_quantity ASC, name ASC", threshold)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// SaveReview inserts a Review.
// PRE: review has been validated
func (s *SQLiteStore) SaveReview(ctx context.Context, r domain.Review) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product_review (id, product_id, member_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ProductID, r.MemberID, r.Rating, r.Comment, storage.FormatTime(r.CreatedAt))
	return err
}

// ListReviews returns a product's reviews, newest first.
func (s *SQLiteStore) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, member_id, rating, comment, created_at FROM product_review
		 WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Review
	for rows.Next() {
		var r domain.Review
		var created string
		if err := rows.Scan(&r.ID, &r.ProductID, &r.MemberID, &r.Rating, &r.Comment, &created); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = storage.ParseTime(created); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ToggleWishlist flips membership of (member, product) in one transaction.
func (s *SQLiteStore) ToggleWishlist(ctx context.Context, item domain.WishlistItem) (bool, error) {
	var added bool
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM wishlist_item WHERE member_id = ? AND product_id = ?", item.MemberID, item.ProductID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO wishlist_item (id, member_id, product_id, added_at) VALUES (?, ?, ?, ?)",
			item.ID, item.MemberID, item.ProductID, storage.FormatTime(item.AddedAt))
		added = err == nil
		return err
	})
	return added, err
}

// ListWishlist returns a member's wishlist, oldest first.
func (s *SQLiteStore) ListWishlist(ctx context.Context, memberID string) ([]domain.WishlistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, product_id, added_at FROM wishlist_item WHERE member_id = ? ORDER BY added_at ASC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.WishlistItem
	for rows.Next() {
		var w domain.WishlistItem
		var added string
		if err := rows.Scan(&w.ID, &w.MemberID, &w.ProductID, &added); err != nil {
			return nil, err
		}
		if w.AddedAt, err = storage.ParseTime(added); err != nil {
			return nil, fmt.Errorf("failed to parse added_at: %w", err)
		}
		results = append(results, w)
	}
	return results, rows.Err()
}
