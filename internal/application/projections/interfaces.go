package projections

import (
	"context"
	"time"

	"gymhub/internal/adapters/realtime"
	eventlogStore "gymhub/internal/adapters/storage/eventlog"
	memberStore "gymhub/internal/adapters/storage/member"
	domainAttendance "gymhub/internal/domain/attendance"
	domainChat "gymhub/internal/domain/chat"
	domainDiet "gymhub/internal/domain/diet"
	domainEvent "gymhub/internal/domain/eventlog"
	domainMember "gymhub/internal/domain/member"
	domainNotification "gymhub/internal/domain/notification"
	domainPayment "gymhub/internal/domain/payment"
	domainProgress "gymhub/internal/domain/progress"
	domainSupplement "gymhub/internal/domain/supplement"
	domainTrainer "gymhub/internal/domain/trainer"
)

// AttendanceStore interface for attendance record queries.
type AttendanceStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]domainAttendance.Record, error)
	ListByMemberIDAndDateRange(ctx context.Context, memberID, startDate, endDate string) ([]domainAttendance.Record, error)
}

// CorrectionLister interface for the correction queue.
type CorrectionLister interface {
	ListCorrections(ctx context.Context, status string) ([]domainAttendance.Correction, error)
}

// MemberStore interface for member queries.
type MemberStore interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]domainMember.Member, error)
	ListByTrainerID(ctx context.Context, trainerID string) ([]domainMember.Member, error)
	Count(ctx context.Context) (int, error)
}

// NotificationStore interface for notification queries.
type NotificationStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]domainNotification.Notification, error)
}

// PaymentStore interface for payment queries.
type PaymentStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]domainPayment.Payment, error)
	ListByCreatedRange(ctx context.Context, start, end time.Time) ([]domainPayment.Payment, error)
}

// SupplementStore interface for the supplement catalogue.
type SupplementStore interface {
	ListByCategory(ctx context.Context, category string) ([]domainSupplement.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]domainSupplement.Product, error)
	ListReviews(ctx context.Context, productID string) ([]domainSupplement.Review, error)
	ListWishlist(ctx context.Context, memberID string) ([]domainSupplement.WishlistItem, error)
}

// DietStore interface for diet queries.
type DietStore interface {
	LatestPlan(ctx context.Context, memberID string) (domainDiet.Plan, error)
	GetNutrientIntake(ctx context.Context, memberID, date string) (domainDiet.NutrientIntake, error)
	GetWaterIntake(ctx context.Context, memberID, date string) (domainDiet.WaterIntake, error)
	ListRecommendations(ctx context.Context, memberID string) ([]domainDiet.Recommendation, error)
	ListFavoriteMeals(ctx context.Context, memberID string) ([]domainDiet.FavoriteMeal, error)
	ListComments(ctx context.Context, memberID string) ([]domainDiet.Comment, error)
}

// SessionLister interface for scheduled session queries.
type SessionLister interface {
	ListSessions(ctx context.Context, trainerID string, start, end time.Time) ([]domainTrainer.ScheduledSession, error)
}

// ProgressStore interface for progress log queries.
type ProgressStore interface {
	ListByMemberIDAndDateRange(ctx context.Context, memberID, start, end string) ([]domainProgress.Log, error)
}

// ChatStore interface for chat snapshots.
type ChatStore interface {
	ListMessages(ctx context.Context, roomID string) ([]domainChat.Message, error)
	ListTyping(ctx context.Context, roomID string) ([]domainChat.Typing, error)
	GetPresence(ctx context.Context, userID string) (domainChat.Presence, error)
}

// Subscriber interface for the realtime change feed.
type Subscriber interface {
	Subscribe(topic string, fn realtime.Handler) realtime.Unsubscribe
}

// EventLogStore interface for the persisted event log.
type EventLogStore interface {
	List(ctx context.Context, filter eventlogStore.Filter, limit int) ([]domainEvent.Entry, error)
}

func nowFrom(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func locationOr(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
