package attendance

import (
	"context"

	domain "gymhub/internal/domain/attendance"
)

// RecordStore persists per-day attendance records keyed by member and date.
type RecordStore interface {
	// Get returns the record for a member and day.
	// POST: error wraps storage.ErrNotFound when no record exists
	Get(ctx context.Context, memberID, date string) (domain.Record, error)
	// Save upserts a record, replacing every field.
	Save(ctx context.Context, rec domain.Record) error
	// SaveBatch upserts many records in one transaction.
	SaveBatch(ctx context.Context, recs []domain.Record) error
	// ListByMemberID returns all of a member's records ordered by date ascending.
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Record, error)
	// ListByMemberIDAndDateRange returns records with startDate <= date <= endDate ordered by date.
	ListByMemberIDAndDateRange(ctx context.Context, memberID, startDate, endDate string) ([]domain.Record, error)
}

// CorrectionStore persists correction requests.
type CorrectionStore interface {
	SaveCorrection(ctx context.Context, c domain.Correction) error
	GetCorrection(ctx context.Context, id string) (domain.Correction, error)
	// ListCorrections returns corrections in the given status, oldest first; empty status lists all.
	ListCorrections(ctx context.Context, status string) ([]domain.Correction, error)
	// ResolveCorrection saves the handled correction and, when rec is non-nil,
	// the corrected attendance record in a single transaction.
	ResolveCorrection(ctx context.Context, c domain.Correction, rec *domain.Record) error
}

// Store is the full attendance persistence surface.
type Store interface {
	RecordStore
	CorrectionStore
}
