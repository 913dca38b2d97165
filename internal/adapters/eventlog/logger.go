// Package eventlog provides the application event side channel.
package eventlog

import (
	"context"
	"log/slog"
	"sync"

	domain "gymhub/internal/domain/eventlog"
)

// Logger records application events. Implementations must not fail the caller:
// a logging failure is reported through slog and otherwise swallowed.
type Logger interface {
	Log(ctx context.Context, entry domain.Entry)
}

// Saver persists entries; satisfied by the event log SQLite store.
type Saver interface {
	Save(ctx context.Context, entry domain.Entry) error
}

// Nop discards every entry.
type Nop struct{}

// Log implements Logger.
func (Nop) Log(context.Context, domain.Entry) {}

// Slog writes entries to a slog.Logger at a level derived from the severity.
type Slog struct {
	Logger *slog.Logger // nil uses slog.Default()
}

// Log implements Logger.
func (s Slog) Log(ctx context.Context, e domain.Entry) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	level := slog.LevelInfo
	switch e.Severity {
	case domain.SeverityWarning:
		level = slog.LevelWarn
	case domain.SeverityError:
		level = slog.LevelError
	}
	l.Log(ctx, level, "app_event", e.Attrs()...)
}

// Persisted saves entries through a Saver.
type Persisted struct {
	Store Saver
}

// Log implements Logger.
func (p Persisted) Log(ctx context.Context, e domain.Entry) {
	if err := e.Validate(); err != nil {
		slog.Warn("app_event_invalid", "event", e.Event, "error", err)
		return
	}
	if err := p.Store.Save(ctx, e); err != nil {
		slog.Error("app_event_persist_failed", "event", e.Event, "error", err)
	}
}

// Multi fans an entry out to every logger in order.
type Multi []Logger

// Log implements Logger.
func (m Multi) Log(ctx context.Context, e domain.Entry) {
	for _, l := range m {
		l.Log(ctx, e)
	}
}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}

// Recorder keeps entries in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []domain.Entry
}

// Log implements Logger.
func (r *Recorder) Log(_ context.Context, e domain.Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

// Events returns the recorded event names in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Event
	}
	return names
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
