package eventlog

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Severity of a logged event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event names emitted by the application layer.
const (
	EventCheckRecorded        = "attendance_check_recorded"
	EventCorrectionRequested  = "attendance_correction_requested"
	EventCorrectionHandled    = "attendance_correction_handled"
	EventBadgeAwarded         = "attendance_badge_awarded"
	EventAbsentMemberNotified = "absent_member_notified"
	EventBulkUpdated          = "attendance_bulk_updated"
	EventMemberAdded          = "member_added"
	EventMemberBanned         = "member_banned"
	EventMembersImported      = "members_imported"
	EventBroadcastSent        = "broadcast_sent"
	EventNotificationSent     = "notification_sent"
	EventPaymentCreated       = "payment_created"
	EventPaymentStatusUpdated = "payment_status_updated"
	EventPaymentRefunded      = "payment_refunded"
	EventPaymentReminderSent  = "payment_reminder_sent"
	EventCheckoutStarted      = "checkout_started"
	EventBillCreated          = "bill_created"
	EventInstallmentCreated   = "installment_plan_created"
	EventProductAdded         = "product_added"
	EventStockUpdated         = "stock_updated"
	EventDiscountApplied      = "discount_applied"
	EventReviewAdded          = "review_added"
	EventWishlistToggled      = "wishlist_toggled"
	EventDietPlanSaved        = "diet_plan_saved"
	EventNutrientLogged       = "nutrient_intake_logged"
	EventWaterLogged          = "water_intake_logged"
	EventSupplementRecAdded   = "supplement_recommendation_added"
	EventFavoriteMealAdded    = "favorite_meal_added"
	EventDietCommentPosted    = "diet_comment_posted"
	EventSessionLogged        = "training_session_logged"
	EventRoutineSuggested     = "routine_suggested"
	EventSessionScheduled     = "session_scheduled"
	EventSessionStatusUpdated = "session_status_updated"
	EventAvailabilityUpdated  = "trainer_availability_updated"
	EventProgressLogged       = "progress_logged"
	EventMessageSent          = "message_sent"
	EventLoginSucceeded       = "login_succeeded"
	EventLoginFailed          = "login_failed"
	EventPasswordResetSent    = "password_reset_sent"
	EventPasswordReset        = "password_reset"
	EventThemeUpdated         = "theme_updated"
)

// ErrEmptyEvent is returned for an entry without an event name.
var ErrEmptyEvent = errors.New("event name cannot be empty")

// Entry is one structured application event.
type Entry struct {
	ID         string         `json:"id"`
	Event      string         `json:"event"`
	Severity   Severity       `json:"severity"`
	ActorID    string         `json:"actor_id,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// New creates an info entry stamped with the current time.
// fields are alternating key/value pairs; a trailing key without a value is dropped.
// PRE: event is non-empty
// POST: Returns an Entry with a fresh ID
func New(event string, fields ...any) Entry {
	e := Entry{
		ID:         uuid.New().String(),
		Event:      event,
		Severity:   SeverityInfo,
		OccurredAt: time.Now(),
	}
	if len(fields) >= 2 {
		e.Fields = make(map[string]any, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			e.Fields[key] = fields[i+1]
		}
	}
	return e
}

// WithActor sets the actor that caused the event.
func (e Entry) WithActor(actorID string) Entry {
	e.ActorID = actorID
	return e
}

// WithSeverity sets the severity level.
func (e Entry) WithSeverity(s Severity) Entry {
	e.Severity = s
	return e
}

// Validate checks the entry has an event name.
func (e *Entry) Validate() error {
	if e.Event == "" {
		return ErrEmptyEvent
	}
	return nil
}

// FieldsJSON encodes Fields for persistence.
func (e *Entry) FieldsJSON() (string, error) {
	if len(e.Fields) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(e.Fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Attrs flattens Fields into slog key/value pairs.
func (e *Entry) Attrs() []any {
	attrs := make([]any, 0, 2*len(e.Fields)+4)
	attrs = append(attrs, "event", e.Event)
	if e.ActorID != "" {
		attrs = append(attrs, "actor_id", e.ActorID)
	}
	for k, v := range e.Fields {
		attrs = append(attrs, k, v)
	}
	return attrs
}
