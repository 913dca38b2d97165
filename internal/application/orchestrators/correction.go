package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/storage"
	"gymhub/internal/domain/attendance"
	domainEvent "gymhub/internal/domain/eventlog"
)

// CorrectionStore persists correction requests and their resolution.
type CorrectionStore interface {
	SaveCorrection(ctx context.Context, c attendance.Correction) error
	GetCorrection(ctx context.Context, id string) (attendance.Correction, error)
	// ResolveCorrection writes the correction and, when rec is non-nil, the record in one transaction.
	ResolveCorrection(ctx context.Context, c attendance.Correction, rec *attendance.Record) error
}

// AttendanceRecordGetter reads one attendance day.
type AttendanceRecordGetter interface {
	Get(ctx context.Context, memberID, date string) (attendance.Record, error)
}

// RequestCorrectionInput carries a member's dispute.
type RequestCorrectionInput struct {
	MemberID string
	Date     string
	Reason   string
}

// RequestCorrectionDeps holds dependencies for RequestCorrection.
type RequestCorrectionDeps struct {
	Corrections CorrectionStore
	GenerateID  func() string
	Now         func() time.Time
	Events      eventlog.Logger
}

// ExecuteRequestCorrection files a pending correction request.
// The date is not format-checked and duplicate pending requests are allowed.
// PRE: MemberID non-empty
// POST: a pending correction with a fresh ID is stored
func ExecuteRequestCorrection(ctx context.Context, input RequestCorrectionInput, deps RequestCorrectionDeps) (attendance.Correction, error) {
	c := attendance.Correction{
		ID:          newID(deps.GenerateID),
		MemberID:    input.MemberID,
		Date:        input.Date,
		Reason:      input.Reason,
		Status:      attendance.CorrectionPending,
		RequestedAt: nowFrom(deps.Now),
	}
	if err := c.Validate(); err != nil {
		return attendance.Correction{}, err
	}
	if err := deps.Corrections.SaveCorrection(ctx, c); err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to save correction request: %w", err)
	}

	slog.Info("attendance_event", "event", "correction_requested", "correction_id", c.ID, "member_id", c.MemberID, "date", c.Date)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventCorrectionRequested,
		"correction_id", c.ID, "member_id", c.MemberID, "date", c.Date).WithActor(c.MemberID))
	return c, nil
}

// HandleCorrectionInput carries an admin decision.
type HandleCorrectionInput struct {
	CorrectionID string
	Approve      bool
	AdminID      string
}

// HandleCorrectionDeps holds dependencies for HandleCorrection.
type HandleCorrectionDeps struct {
	Corrections CorrectionStore
	Records     AttendanceRecordGetter
	Now         func() time.Time
	Events      eventlog.Logger
}

// ExecuteHandleCorrection approves or denies a pending correction.
// Approval also marks the attendance day present-corrected, creating the record
// if the day was never recorded. Both writes commit together.
// PRE: CorrectionID and AdminID non-empty
// POST: correction is approved or denied; approve writes correction + record, deny writes correction only
// INVARIANT: a handled correction is never handled again
func ExecuteHandleCorrection(ctx context.Context, input HandleCorrectionInput, deps HandleCorrectionDeps) (attendance.Correction, error) {
	if input.CorrectionID == "" {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	c, err := deps.Corrections.GetCorrection(ctx, input.CorrectionID)
	if errors.Is(err, storage.ErrNotFound) {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	if err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to load correction %s: %w", input.CorrectionID, err)
	}

	now := nowFrom(deps.Now)
	if err := c.Resolve(input.Approve, input.AdminID, now); err != nil {
		return attendance.Correction{}, err
	}

	var rec *attendance.Record
	if input.Approve {
		r, err := deps.Records.Get(ctx, c.MemberID, c.Date)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			r = attendance.Record{MemberID: c.MemberID, Date: c.Date}
		case err != nil:
			return attendance.Correction{}, fmt.Errorf("failed to load attendance for %s: %w", c.AttendanceKey(), err)
		}
		r.Status = attendance.StatusPresentCorrected
		r.LastUpdated = now
		rec = &r
	}

	if err := deps.Corrections.ResolveCorrection(ctx, c, rec); err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to resolve correction %s: %w", c.ID, err)
	}

	slog.Info("attendance_event", "event", "correction_handled", "correction_id", c.ID, "status", c.Status, "admin_id", input.AdminID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventCorrectionHandled,
		"correction_id", c.ID, "member_id", c.MemberID, "date", c.Date, "status", c.Status).WithActor(input.AdminID))
	return c, nil
}
