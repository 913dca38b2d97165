package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymhub/internal/adapters/http/perf"
)

// TestTiming_RecordsEntry captures method, path, and status.
func TestTiming_RecordsEntry(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	snap := collector.Snapshot(time.Time{}, 5)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /api/missing" {
		t.Errorf("paths = %+v", snap.SlowestPaths)
	}
}

// TestTiming_NilCollector still serves the request.
func TestTiming_NilCollector(t *testing.T) {
	handler := Timing(nil, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("response = %d %q", rr.Code, rr.Body.String())
	}
}
