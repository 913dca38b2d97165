package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/payment"
)

const paymentColumns = "id, member_id, amount, currency, method, status, description, gateway_ref, refund_amount, refund_reason, refunded_at, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (domain.Payment, error) {
	var p domain.Payment
	var refunded sql.NullString
	var created, updated string
	if err := row.Scan(&p.ID, &p.MemberID, &p.Amount, &p.Currency, &p.Method, &p.Status, &p.Description,
		&p.GatewayRef, &p.RefundAmount, &p.RefundReason, &refunded, &created, &updated); err != nil {
		return domain.Payment{}, err
	}
	var err error
	if p.RefundedAt, err = storage.ParseNullTime(refunded); err != nil {
		return domain.Payment{}, fmt.Errorf("failed to parse refunded_at: %w", err)
	}
	if p.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.Payment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = storage.ParseTime(updated); err != nil {
		return domain.Payment{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return p, nil
}

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE id = ?", id))
	if err != nil {
		return domain.Payment{}, storage.NotFound("payment", err)
	}
	return p, nil
}

// Save persists a Payment.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Payment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   amount=excluded.amount, currency=excluded.currency, method=excluded.method, status=excluded.status,
		   description=excluded.description, gateway_ref=excluded.gateway_ref, refund_amount=excluded.refund_amount,
		   refund_reason=excluded.refund_reason, refunded_at=excluded.refunded_at, updated_at=excluded.updated_at`,
		p.ID, p.MemberID, p.Amount, p.Currency, p.Method, p.Status, p.Description, p.GatewayRef,
		p.RefundAmount, p.RefundReason, storage.NullTime(p.RefundedAt),
		storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt))
	return err
}

// ListByMemberID returns a member's payments, newest first.
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT "+paymentColumns+" FROM payment WHERE member_id = ? ORDER BY created_at DESC", memberID)
}

// ListByCreatedRange returns payments created in [start, end], oldest first.
func (s *SQLiteStore) ListByCreatedRange(ctx context.Context, start, end time.Time) ([]domain.Payment, error) {
	return s.list(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE created_at >= ? AND created_at <= ? ORDER BY created_at ASC",
		storage.FormatTime(start), storage.FormatTime(end))
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// SaveBill inserts a Bill.
// PRE: bill has been validated
func (s *SQLiteStore) SaveBill(ctx context.Context, b domain.Bill) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bill (id, member_id, title, amount, currency, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.MemberID, b.Title, b.Amount, b.Currency, b.DueDate, storage.FormatTime(b.CreatedAt))
	return err
}

// ListBillsByMemberID returns a member's bills ordered by due date.
func (s *SQLiteStore) ListBillsByMemberID(ctx context.Context, memberID string) ([]domain.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, title, amount, currency, due_date, created_at FROM bill WHERE member_id = ? ORDER BY due_date ASC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Bill
	for rows.Next() {
		var b domain.Bill
		var created string
		if err := rows.Scan(&b.ID, &b.MemberID, &b.Title, &b.Amount, &b.Currency, &b.DueDate, &created); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = storage.ParseTime(created); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// SavePlan inserts an InstallmentPlan.
// PRE: plan has been validated
func (s *SQLiteStore) SavePlan(ctx context.Context, p domain.InstallmentPlan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO installment_plan (id, member_id, total, installments, interval, start_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.MemberID, p.Total, p.Installments, p.Interval, p.StartDate, storage.FormatTime(p.CreatedAt))
	return err
}
