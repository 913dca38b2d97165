package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/domain/attendance"
	domainEvent "gymhub/internal/domain/eventlog"
)

// AttendanceBatchSaver upserts many records in one transaction.
type AttendanceBatchSaver interface {
	SaveBatch(ctx context.Context, recs []attendance.Record) error
}

// BulkUpdateAttendanceInput sets one status for many members on one day.
type BulkUpdateAttendanceInput struct {
	Date      string
	MemberIDs []string
	Status    string
	ActorID   string
}

// BulkUpdateAttendanceDeps holds dependencies for BulkUpdateAttendance.
type BulkUpdateAttendanceDeps struct {
	Records AttendanceBatchSaver
	Now     func() time.Time
	Events  eventlog.Logger
}

// BulkUpdateAttendanceResult lists the record keys written.
type BulkUpdateAttendanceResult struct {
	Keys []string
}

// ExecuteBulkUpdateAttendance replaces each member's record for Date with
// {memberId, date, status, lastUpdated}. Check-in, check-out and lateness
// already recorded for that day are discarded.
// PRE: Date is YYYY-MM-DD; Status is a valid attendance status
// POST: all records are written in one transaction or none are
func ExecuteBulkUpdateAttendance(ctx context.Context, input BulkUpdateAttendanceInput, deps BulkUpdateAttendanceDeps) (BulkUpdateAttendanceResult, error) {
	if !attendance.IsValidStatus(input.Status) {
		return BulkUpdateAttendanceResult{}, attendance.ErrInvalidStatus
	}
	now := nowFrom(deps.Now)

	seen := make(map[string]bool, len(input.MemberIDs))
	recs := make([]attendance.Record, 0, len(input.MemberIDs))
	for _, id := range input.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		r := attendance.Record{MemberID: id, Date: input.Date, Status: input.Status, LastUpdated: now}
		if err := r.Validate(); err != nil {
			return BulkUpdateAttendanceResult{}, fmt.Errorf("member %q: %w", id, err)
		}
		recs = append(recs, r)
	}
	if len(recs) == 0 {
		return BulkUpdateAttendanceResult{Keys: []string{}}, nil
	}

	if err := deps.Records.SaveBatch(ctx, recs); err != nil {
		return BulkUpdateAttendanceResult{}, fmt.Errorf("failed to save attendance batch: %w", err)
	}

	keys := make([]string, len(recs))
	for i := range recs {
		keys[i] = recs[i].Key()
	}
	slog.Info("attendance_event", "event", "bulk_updated", "date", input.Date, "status", input.Status, "count", len(keys))
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventBulkUpdated,
		"date", input.Date, "status", input.Status, "count", len(keys)).WithActor(input.ActorID))
	return BulkUpdateAttendanceResult{Keys: keys}, nil
}
