package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	domainEvent "gymhub/internal/domain/eventlog"
	domainOutbox "gymhub/internal/domain/outbox"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds bulk fan-outs when the caller does not set a limit.
const DefaultConcurrency = 8

// ErrInvalidInput wraps every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ItemResult reports the outcome for one item of a bulk operation.
// Err is nil on success.
type ItemResult struct {
	ID  string
	Err error
}

// Failures returns the failed items.
func Failures(results []ItemResult) []ItemResult {
	var out []ItemResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct-tag validation and flattens the field errors.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// fanOut calls fn for every id with at most limit calls in flight.
// Every item runs; failures are reported per item and never cancel siblings.
// POST: len(result) == len(ids) and result[i].ID == ids[i]
func fanOut(ctx context.Context, ids []string, limit int, fn func(ctx context.Context, i int, id string) error) []ItemResult {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	results := make([]ItemResult, len(ids))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			results[i].ID = id
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Err = fn(ctx, i, id)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func emit(ctx context.Context, l eventlog.Logger, e domainEvent.Entry) {
	eventlog.OrNop(l).Log(ctx, e)
}

func nowFrom(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func newID(gen func() string) string {
	if gen == nil {
		return uuid.New().String()
	}
	return gen()
}

func locationOr(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// OutboxSaver queues failed side effects for retry.
type OutboxSaver interface {
	Save(ctx context.Context, e domainOutbox.Entry) error
}

// EmailSender is the one email method orchestrators need.
type EmailSender interface {
	Send(ctx context.Context, req email.SendRequest) (email.SendResult, error)
}

// deliverEmail sends req and queues it in the outbox when the send fails.
// A nil sender skips delivery. A failed send that was queued is not an error.
func deliverEmail(ctx context.Context, sender EmailSender, queue OutboxSaver, req email.SendRequest, now time.Time) error {
	if sender == nil {
		return nil
	}
	_, err := sender.Send(ctx, req)
	if err == nil {
		return nil
	}
	if queue == nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	entry, qerr := domainOutbox.NewEmailEntry(domainOutbox.EmailPayload{To: req.To, Subject: req.Subject, HTML: req.HTML}, err, now)
	if qerr == nil {
		qerr = queue.Save(ctx, entry)
	}
	if qerr != nil {
		return fmt.Errorf("failed to send email: %w (queue: %v)", err, qerr)
	}
	slog.Warn("email_event", "event", "queued_for_retry", "subject", req.Subject, "outbox_id", entry.ID, "error", err)
	return nil
}
