package web

import (
	"net/http"
	"strconv"
	"time"

	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	"gymhub/internal/domain/outbox"
)

// handleAdminOutbox handles GET /api/admin/outbox?status=&limit= (admin)
// Lists permanently failed entries, or everything still queued with status=all.
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 50
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	var entries []outbox.Entry
	var err error
	if r.URL.Query().Get("status") == "all" {
		entries, err = stores.OutboxStore.ListPending(ctx, limit)
	} else {
		entries, err = stores.OutboxStore.ListFailed(ctx, limit)
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, entries)
}

// handleOutboxRetry handles POST /api/admin/outbox/retry (admin)
// Runs one retry pass immediately instead of waiting for the scheduler.
func handleOutboxRetry(w http.ResponseWriter, r *http.Request) {
	res, err := orchestrators.ExecuteOutboxRetry(r.Context(), orchestrators.OutboxRetryDeps{
		Outbox: stores.OutboxStore,
		Email:  services.Email,
		Now:    timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleOutboxAbandon handles POST /api/admin/outbox/{id}/abandon (admin)
func handleOutboxAbandon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, err := stores.OutboxStore.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if entry.IsTerminal() {
		writeError(w, outbox.ErrTerminal)
		return
	}
	entry.MarkAbandoned()
	if err := stores.OutboxStore.Save(ctx, entry); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleEventLog handles GET /api/admin/events?event=&actor_id=&from=&to=&limit= (admin)
func handleEventLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := queryTime(r, "from")
	if err != nil {
		http.Error(w, "from must be YYYY-MM-DD or RFC 3339", http.StatusBadRequest)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		http.Error(w, "to must be YYYY-MM-DD or RFC 3339", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", projections.DefaultEventLogLimit)
	if err != nil {
		http.Error(w, "limit must be a number", http.StatusBadRequest)
		return
	}
	entries, err := projections.QueryEventLog(r.Context(), projections.EventLogQuery{
		Event:   q.Get("event"),
		ActorID: q.Get("actor_id"),
		From:    from,
		To:      to,
		Limit:   limit,
	}, stores.EventLogStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, entries)
}

// handlePerf handles GET /api/admin/perf?minutes=&top= (admin)
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "request timing is disabled", http.StatusServiceUnavailable)
		return
	}
	minutes, err := queryInt(r, "minutes", 60)
	if err != nil || minutes <= 0 {
		http.Error(w, "minutes must be a positive number", http.StatusBadRequest)
		return
	}
	top, err := queryInt(r, "top", 10)
	if err != nil || top <= 0 {
		http.Error(w, "top must be a positive number", http.StatusBadRequest)
		return
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, top))
}
