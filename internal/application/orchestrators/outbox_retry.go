package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gymhub/internal/adapters/email"
	domainOutbox "gymhub/internal/domain/outbox"
)

// OutboxStore lists and updates queued side effects.
type OutboxStore interface {
	ListPending(ctx context.Context, limit int) ([]domainOutbox.Entry, error)
	Save(ctx context.Context, e domainOutbox.Entry) error
}

// OutboxRetryDeps provides the dependencies for retrying outbox entries.
type OutboxRetryDeps struct {
	Outbox    OutboxStore
	Email     EmailSender
	BaseDelay time.Duration // zero uses 1 minute
	MaxDelay  time.Duration // zero uses 1 hour
	BatchSize int           // zero uses 100
	Now       func() time.Time
}

// OutboxRetryResult counts what one pass did.
type OutboxRetryResult struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// ExecuteOutboxRetry replays due outbox entries with exponential backoff.
// PRE: Deps are valid and store is connected
// POST: every due entry is attempted once; entries reaching MaxAttempts become failed
func ExecuteOutboxRetry(ctx context.Context, deps OutboxRetryDeps) (OutboxRetryResult, error) {
	base, maxDelay, batch := deps.BaseDelay, deps.MaxDelay, deps.BatchSize
	if base <= 0 {
		base = time.Minute
	}
	if maxDelay <= 0 {
		maxDelay = time.Hour
	}
	if batch <= 0 {
		batch = 100
	}

	entries, err := deps.Outbox.ListPending(ctx, batch)
	if err != nil {
		return OutboxRetryResult{}, fmt.Errorf("failed to list retryable outbox entries: %w", err)
	}

	var res OutboxRetryResult
	now := nowFrom(deps.Now)
	for _, entry := range entries {
		if entry.IsTerminal() {
			continue
		}
		if next := entry.DueAt(base, maxDelay); now.Before(next) {
			res.Skipped++
			slog.Debug("outbox_retry_skipped_backoff", "entry_id", entry.ID, "next_retry", next)
			continue
		}
		res.Processed++
		entry.MarkAttempt(now)

		var externalID string
		switch entry.ActionType {
		case domainOutbox.ActionTypeEmail:
			externalID, err = retryEmail(ctx, deps.Email, entry)
		default:
			err = fmt.Errorf("unknown action type: %s", entry.ActionType)
		}

		if err != nil {
			entry.MarkFailed(err)
			res.Failed++
			slog.Error("outbox_retry_failed", "entry_id", entry.ID, "action", entry.ActionType, "attempt", entry.Attempts, "error", err)
		} else {
			entry.MarkSuccess(externalID)
			res.Succeeded++
			slog.Info("outbox_retry_succeeded", "entry_id", entry.ID, "action", entry.ActionType, "attempt", entry.Attempts)
		}
		if saveErr := deps.Outbox.Save(ctx, entry); saveErr != nil {
			slog.Error("outbox_retry_save_failed", "entry_id", entry.ID, "error", saveErr)
		}
	}

	if res.Processed > 0 {
		slog.Info("outbox_retry_complete", "processed", res.Processed, "succeeded", res.Succeeded, "failed", res.Failed)
	}
	return res, nil
}

func retryEmail(ctx context.Context, sender EmailSender, entry domainOutbox.Entry) (string, error) {
	if sender == nil {
		return "", fmt.Errorf("email sender is not configured")
	}
	var payload domainOutbox.EmailPayload
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal email payload: %w", err)
	}
	result, err := sender.Send(ctx, email.SendRequest{To: payload.To, Subject: payload.Subject, HTML: payload.HTML})
	if err != nil {
		return "", err
	}
	return result.MessageID, nil
}

// StartOutboxRetryScheduler retries outbox entries every interval until ctx is done.
// POST: goroutine started; the returned func stops it
func StartOutboxRetryScheduler(ctx context.Context, deps OutboxRetryDeps, interval time.Duration) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := ExecuteOutboxRetry(ctx, deps); err != nil {
					slog.Error("outbox_retry_scheduler_error", "error", err)
				}
			}
		}
	}()
	return cancel
}
