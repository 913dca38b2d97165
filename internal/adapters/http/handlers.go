package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/adapters/http/middleware"
	"gymhub/internal/adapters/identity"
	paymentGateway "gymhub/internal/adapters/payment"
	"gymhub/internal/adapters/storage"
	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainAccount "gymhub/internal/domain/account"
	domainAttendance "gymhub/internal/domain/attendance"
	domainBadge "gymhub/internal/domain/badge"
	domainChat "gymhub/internal/domain/chat"
	domainDiet "gymhub/internal/domain/diet"
	domainMember "gymhub/internal/domain/member"
	domainNotification "gymhub/internal/domain/notification"
	domainOutbox "gymhub/internal/domain/outbox"
	domainPayment "gymhub/internal/domain/payment"
	domainProgress "gymhub/internal/domain/progress"
	domainSupplement "gymhub/internal/domain/supplement"
	domainTheme "gymhub/internal/domain/theme"
	domainTrainer "gymhub/internal/domain/trainer"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes a JSON body and rejects unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_error", "error", err.Error())
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// writeList encodes a slice, rendering nil as [].
func writeList[T any](w http.ResponseWriter, items []T) {
	writeJSON(w, http.StatusOK, nonNil(items))
}

// writeCSV sends a CSV attachment.
func writeCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(body))
}

var notFoundErrors = []error{
	storage.ErrNotFound,
	domainAttendance.ErrCorrectionNotFound,
	domainChat.ErrNotFound,
	domainDiet.ErrNoPlan,
	domainMember.ErrMemberNotFound,
	domainNotification.ErrNotFound,
	domainPayment.ErrNotFound,
	domainSupplement.ErrNotFound,
	domainTrainer.ErrSessionNotFound,
}

var conflictErrors = []error{
	domainAttendance.ErrAlreadyHandled,
	orchestrators.ErrEmailTaken,
	domainMember.ErrAlreadyBanned,
	domainPayment.ErrInvalidTransition,
	domainPayment.ErrNotPending,
	domainPayment.ErrNotRefundable,
	domainPayment.ErrRefundExceeds,
	domainTrainer.ErrSessionClosed,
	domainChat.ErrDeleted,
	domainOutbox.ErrTerminal,
}

var badRequestErrors = []error{
	orchestrators.ErrInvalidInput,
	orchestrators.ErrImportHeader,
	orchestrators.ErrInvalidResetToken,
	orchestrators.ErrUnknownThemeAction,
	orchestrators.ErrCurrentPasswordWrong,
	orchestrators.ErrNewPasswordSame,
	projections.ErrInvalidMonth,
	domainAccount.ErrEmptyEmail,
	domainAccount.ErrEmailTooLong,
	domainAccount.ErrEmptyPassword,
	domainAccount.ErrInvalidEmail,
	domainAccount.ErrInvalidRole,
	domainAccount.ErrPasswordNoDigit,
	domainAccount.ErrPasswordNoUpper,
	domainAccount.ErrPasswordTooShort,
	domainAttendance.ErrEmptyAdminID,
	domainAttendance.ErrCheckOutBeforeIn,
	domainAttendance.ErrEmptyMemberID,
	domainAttendance.ErrInvalidCheckType,
	domainAttendance.ErrInvalidDate,
	domainAttendance.ErrInvalidStatus,
	domainAttendance.ErrInvalidCorrectionStatus,
	domainBadge.ErrEmptyMemberID,
	domainBadge.ErrEmptyName,
	domainBadge.ErrInvalidPolicy,
	domainBadge.ErrInvalidMilestone,
	domainChat.ErrEmptyContent,
	domainChat.ErrContentTooLong,
	domainChat.ErrEmptyEmoji,
	domainChat.ErrEmptyRoomID,
	domainChat.ErrEmptySenderID,
	domainChat.ErrInvalidStatus,
	domainChat.ErrInvalidType,
	domainDiet.ErrEmptyComment,
	domainDiet.ErrEmptyMealName,
	domainDiet.ErrEmptyMemberID,
	domainDiet.ErrEmptySupplement,
	domainDiet.ErrInvalidDate,
	domainDiet.ErrNegativeValue,
	domainMember.ErrEmptyBanReason,
	domainMember.ErrEmptyName,
	domainMember.ErrInvalidEmail,
	domainMember.ErrInvalidStatus,
	domainMember.ErrNameTooLong,
	domainMember.ErrPhoneTooLong,
	domainNotification.ErrEmptyMemberID,
	domainNotification.ErrEmptyMessage,
	domainNotification.ErrMessageTooLong,
	domainPayment.ErrEmptyMemberID,
	domainPayment.ErrEmptyTitle,
	domainPayment.ErrInvalidAmount,
	domainPayment.ErrInvalidStatus,
	domainPayment.ErrInvalidCurrency,
	domainPayment.ErrInvalidDueDate,
	domainPayment.ErrInvalidInstallments,
	domainPayment.ErrInvalidInterval,
	domainPayment.ErrInvalidStartDate,
	domainProgress.ErrEmptyMemberID,
	domainProgress.ErrInvalidBMI,
	domainProgress.ErrInvalidBodyFat,
	domainProgress.ErrInvalidDate,
	domainProgress.ErrInvalidMuscleMass,
	domainProgress.ErrInvalidWeight,
	domainProgress.ErrNoMeasurement,
	domainSupplement.ErrEmptyMemberID,
	domainSupplement.ErrEmptyName,
	domainSupplement.ErrEmptyProductID,
	domainSupplement.ErrImageUnsupported,
	domainSupplement.ErrInvalidDiscount,
	domainSupplement.ErrInvalidExpiry,
	domainSupplement.ErrInvalidPrice,
	domainSupplement.ErrInvalidRating,
	domainSupplement.ErrNegativeStock,
	domainTheme.ErrInvalidColor,
	domainTheme.ErrInvalidFontSize,
	domainTheme.ErrInvalidMode,
	domainTrainer.ErrEmptyMemberID,
	domainTrainer.ErrEmptyRoutineName,
	domainTrainer.ErrEmptyTrainerID,
	domainTrainer.ErrInvalidSlot,
	domainTrainer.ErrInvalidStatus,
	domainTrainer.ErrInvalidType,
	domainTrainer.ErrMissingStart,
	domainTrainer.ErrNegativeDuration,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps an operation error to an HTTP status.
// Anything unrecognised is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainAccount.ErrAccountLocked), errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, orchestrators.ErrInvalidCredentials), errors.Is(err, domainAccount.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, paymentGateway.ErrGatewayDisabled), errors.Is(err, identity.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError sends err with the status statusFor picks.
// Internal errors are logged and replaced with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	http.Error(w, err.Error(), status)
}

// requireSession returns the caller's session or writes 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	return sess, true
}

// memberScope resolves the member a request acts on.
// Members always act on their own profile; staff name the member with the member_id query parameter.
// POST: returns false after writing 400 or 403
func memberScope(w http.ResponseWriter, r *http.Request, sess middleware.Session, requested string) (string, bool) {
	if sess.Role == domainAccount.RoleMember {
		if requested != "" && requested != sess.MemberID {
			slog.Warn("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "reason", "foreign member")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return "", false
		}
		if sess.MemberID == "" {
			http.Error(w, "account has no member profile", http.StatusBadRequest)
			return "", false
		}
		return sess.MemberID, true
	}
	if requested == "" {
		http.Error(w, "member_id is required", http.StatusBadRequest)
		return "", false
	}
	return requested, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// queryTime parses an optional RFC 3339 or YYYY-MM-DD query parameter in the gym location.
func queryTime(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation(domainAttendance.DateLayout, v, gymLocation())
}

func gymLocation() *time.Location {
	if options.Location == nil {
		return time.Local
	}
	return options.Location
}
