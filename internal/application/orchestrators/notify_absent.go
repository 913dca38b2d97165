package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	memberStore "gymhub/internal/adapters/storage/member"
	"gymhub/internal/domain/attendance"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/member"
	"gymhub/internal/domain/notification"
)

// DefaultAbsenceThreshold is the number of days without attendance before a member is notified.
const DefaultAbsenceThreshold = 3

// MemberLister lists members.
type MemberLister interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
}

// AttendanceRangeStore lists a member's records in an inclusive date range.
type AttendanceRangeStore interface {
	ListByMemberIDAndDateRange(ctx context.Context, memberID, startDate, endDate string) ([]attendance.Record, error)
}

// NotificationSaver stores in-app notifications.
type NotificationSaver interface {
	Save(ctx context.Context, n notification.Notification) error
}

// NotifyAbsentDeps holds dependencies for NotifyAbsentMembers.
type NotifyAbsentDeps struct {
	Members       MemberLister
	Records       AttendanceRangeStore
	Notifications NotificationSaver
	Email         EmailSender // optional
	Outbox        OutboxSaver // optional; failed emails are queued here
	Location      *time.Location
	Concurrency   int
	GenerateID    func() string
	Now           func() time.Time
	Events        eventlog.Logger
}

// NotifyAbsentResult lists flagged members and the per-member outcome.
type NotifyAbsentResult struct {
	Flagged []string
	Results []ItemResult
}

const absenceMessage = "We've missed you at the gym! You haven't checked in for the past %d days."

// ExecuteNotifyAbsentMembers notifies every member whose window
// [today - days, today] holds at least days records, all absent or unmarked.
// Members with fewer records in the window are not flagged. Banned members are skipped.
// PRE: daysThreshold >= 0; zero uses DefaultAbsenceThreshold
// POST: one ItemResult per scanned member; a failure for one member does not stop the others
func ExecuteNotifyAbsentMembers(ctx context.Context, daysThreshold int, deps NotifyAbsentDeps) (NotifyAbsentResult, error) {
	if daysThreshold <= 0 {
		daysThreshold = DefaultAbsenceThreshold
	}
	members, err := deps.Members.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return NotifyAbsentResult{}, fmt.Errorf("failed to list members: %w", err)
	}

	var scanned []member.Member
	for _, m := range members {
		if !m.Banned {
			scanned = append(scanned, m)
		}
	}
	ids := make([]string, len(scanned))
	for i, m := range scanned {
		ids[i] = m.ID
	}

	now := nowFrom(deps.Now)
	loc := locationOr(deps.Location)
	today := attendance.DateOf(now, loc)
	start := attendance.DateOf(now.AddDate(0, 0, -daysThreshold), loc)

	flagged := make([]bool, len(scanned))
	results := fanOut(ctx, ids, deps.Concurrency, func(ctx context.Context, i int, id string) error {
		records, err := deps.Records.ListByMemberIDAndDateRange(ctx, id, start, today)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		if !isAbsentStreak(records, daysThreshold) {
			return nil
		}
		flagged[i] = true
		return notifyAbsent(ctx, scanned[i], daysThreshold, now, deps)
	})

	out := NotifyAbsentResult{Results: results}
	for i, f := range flagged {
		if f {
			out.Flagged = append(out.Flagged, ids[i])
		}
	}
	slog.Info("attendance_event", "event", "absence_scan_complete", "scanned", len(ids), "flagged", len(out.Flagged), "failed", len(Failures(results)))
	return out, nil
}

func isAbsentStreak(records []attendance.Record, days int) bool {
	if len(records) < days {
		return false
	}
	for i := range records {
		if !records[i].IsAbsentOrUnmarked() {
			return false
		}
	}
	return true
}

func notifyAbsent(ctx context.Context, m member.Member, days int, now time.Time, deps NotifyAbsentDeps) error {
	msg := fmt.Sprintf(absenceMessage, days)
	n := notification.Notification{ID: newID(deps.GenerateID), MemberID: m.ID, Message: msg, CreatedAt: now}
	if err := deps.Notifications.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	if m.Email != "" {
		req := email.Message(m.Email, "We miss you at the gym", fmt.Sprintf("Hi %s,\n\n%s\n\nSee you soon!", m.Name, msg))
		if err := deliverEmail(ctx, deps.Email, deps.Outbox, req, now); err != nil {
			return err
		}
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventAbsentMemberNotified, "member_id", m.ID, "days", days))
	return nil
}
