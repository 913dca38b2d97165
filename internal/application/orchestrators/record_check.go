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

// AttendanceRecordStore reads and upserts one attendance day.
type AttendanceRecordStore interface {
	Get(ctx context.Context, memberID, date string) (attendance.Record, error)
	Save(ctx context.Context, rec attendance.Record) error
}

// RecordCheckInput carries a check-in or check-out event.
type RecordCheckInput struct {
	MemberID  string
	CheckType string
	At        time.Time // zero uses Now
}

// RecordCheckDeps holds dependencies for RecordCheck.
type RecordCheckDeps struct {
	Records  AttendanceRecordStore
	Location *time.Location // gym time zone; nil uses time.Local
	Now      func() time.Time
	Events   eventlog.Logger
}

// ExecuteRecordCheck applies a check event to the member's record for the day.
// PRE: MemberID non-empty; CheckType is check-in or check-out
// POST: the record keyed memberId_date is fully replaced with LastUpdated = now
// INVARIANT: repeated checks on one day update the same record
func ExecuteRecordCheck(ctx context.Context, input RecordCheckInput, deps RecordCheckDeps) (attendance.Record, error) {
	if input.MemberID == "" {
		return attendance.Record{}, attendance.ErrEmptyMemberID
	}
	if input.CheckType != attendance.CheckIn && input.CheckType != attendance.CheckOut {
		return attendance.Record{}, fmt.Errorf("%w: %q", attendance.ErrInvalidCheckType, input.CheckType)
	}

	now := nowFrom(deps.Now)
	at := input.At
	if at.IsZero() {
		at = now
	}
	at = at.In(locationOr(deps.Location))
	date := at.Format(attendance.DateLayout)

	rec, err := deps.Records.Get(ctx, input.MemberID, date)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		rec = attendance.Record{MemberID: input.MemberID, Date: date}
	case err != nil:
		return attendance.Record{}, fmt.Errorf("failed to load attendance for %s: %w", attendance.Key(input.MemberID, date), err)
	}

	if err := rec.Apply(input.CheckType, at); err != nil {
		return attendance.Record{}, err
	}
	rec.LastUpdated = now
	if err := rec.Validate(); err != nil {
		return attendance.Record{}, err
	}
	if err := deps.Records.Save(ctx, rec); err != nil {
		return attendance.Record{}, fmt.Errorf("failed to save attendance for %s: %w", rec.Key(), err)
	}

	slog.Info("attendance_event", "event", "check_recorded", "member_id", rec.MemberID, "date", rec.Date, "type", input.CheckType, "late", rec.LateArrival)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventCheckRecorded,
		"member_id", rec.MemberID, "date", rec.Date, "type", input.CheckType, "late_arrival", rec.LateArrival))
	return rec, nil
}
