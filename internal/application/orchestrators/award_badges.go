package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/domain/attendance"
	"gymhub/internal/domain/badge"
	domainEvent "gymhub/internal/domain/eventlog"
)

// AttendanceHistoryStore lists a member's full attendance history.
type AttendanceHistoryStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]attendance.Record, error)
}

// BadgeStore persists and lists badges.
type BadgeStore interface {
	Save(ctx context.Context, b badge.Badge) error
	ListByMemberID(ctx context.Context, memberID string) ([]badge.Badge, error)
}

// AwardBadgesDeps holds dependencies for AwardAttendanceBadges.
type AwardBadgesDeps struct {
	Records    AttendanceHistoryStore
	Badges     BadgeStore
	Policy     string // badge.PolicyOnce (default) or badge.PolicyAlways
	Location   *time.Location
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

// ExecuteAwardAttendanceBadges issues streak badges for every milestone the
// member's current streak reaches. Under PolicyOnce milestones already held are skipped;
// under PolicyAlways every reached milestone is issued again.
// PRE: memberID non-empty
// POST: returns exactly the badges inserted by this call, ascending by milestone
func ExecuteAwardAttendanceBadges(ctx context.Context, memberID string, deps AwardBadgesDeps) ([]badge.Badge, error) {
	if memberID == "" {
		return nil, badge.ErrEmptyMemberID
	}
	policy, err := badge.ParsePolicy(deps.Policy)
	if err != nil {
		return nil, err
	}

	records, err := deps.Records.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance for %s: %w", memberID, err)
	}
	now := nowFrom(deps.Now)
	summary := attendance.Summarize(records, attendance.DateOf(now, locationOr(deps.Location)))

	var held []int
	if policy == badge.PolicyOnce {
		existing, err := deps.Badges.ListByMemberID(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to load badges for %s: %w", memberID, err)
		}
		for _, b := range existing {
			held = append(held, b.Milestone)
		}
	}

	var issued []badge.Badge
	for _, m := range badge.Due(summary.CurrentStreak, held, policy) {
		b := badge.Badge{
			ID:        newID(deps.GenerateID),
			MemberID:  memberID,
			Name:      badge.Name(m),
			Milestone: m,
			AwardedAt: now,
		}
		if err := deps.Badges.Save(ctx, b); err != nil {
			return issued, fmt.Errorf("failed to save badge %q: %w", b.Name, err)
		}
		issued = append(issued, b)
		slog.Info("attendance_event", "event", "badge_awarded", "member_id", memberID, "badge", b.Name)
		emit(ctx, deps.Events, domainEvent.New(domainEvent.EventBadgeAwarded,
			"member_id", memberID, "badge", b.Name, "milestone", m))
	}
	return issued, nil
}
