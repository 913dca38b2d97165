package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/attendance"
)

func openTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return NewSQLiteStore(db), db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// TestSQLiteStore_SaveOverwrites keeps one row per member and day.
func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()
	in := time.Date(2025, 8, 26, 6, 10, 0, 0, time.UTC)

	rec := domain.Record{MemberID: "m1", Date: "2025-08-26", CheckInTime: in, LastUpdated: in}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.CheckOutTime = in.Add(time.Hour)
	rec.LateArrival = true
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	if n := countRows(t, db, "attendance_record"); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
	got, err := store.Get(ctx, "m1", "2025-08-26")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CheckInTime.Equal(in) || !got.CheckOutTime.Equal(in.Add(time.Hour)) || !got.LateArrival {
		t.Errorf("Get = %+v", got)
	}
}

// TestSQLiteStore_GetMissing reports storage.ErrNotFound.
func TestSQLiteStore_GetMissing(t *testing.T) {
	store, _ := openTestStore(t)
	_, err := store.Get(context.Background(), "m1", "2025-01-01")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_DateRange is inclusive and ordered.
func TestSQLiteStore_DateRange(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	for _, d := range []string{"2025-08-03", "2025-08-01", "2025-08-05", "2025-07-31"} {
		if err := store.Save(ctx, domain.Record{MemberID: "m1", Date: d, Status: domain.StatusPresent, LastUpdated: now}); err != nil {
			t.Fatalf("Save %s: %v", d, err)
		}
	}
	store.Save(ctx, domain.Record{MemberID: "m2", Date: "2025-08-02", LastUpdated: now})

	got, err := store.ListByMemberIDAndDateRange(ctx, "m1", "2025-08-01", "2025-08-05")
	if err != nil {
		t.Fatalf("ListByMemberIDAndDateRange: %v", err)
	}
	want := []string{"2025-08-01", "2025-08-03", "2025-08-05"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Date != want[i] {
			t.Errorf("record[%d].Date = %s, want %s", i, got[i].Date, want[i])
		}
	}

	all, err := store.ListByMemberID(ctx, "m1")
	if err != nil || len(all) != 4 || all[0].Date != "2025-07-31" {
		t.Errorf("ListByMemberID = %v, %v", all, err)
	}
}

// TestSQLiteStore_SaveBatchReplaces drops prior check-in data.
func TestSQLiteStore_SaveBatchReplaces(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	store.Save(ctx, domain.Record{MemberID: "m1", Date: "2025-08-26", CheckInTime: now, LateArrival: true, LastUpdated: now})

	batch := []domain.Record{
		{MemberID: "m1", Date: "2025-08-26", Status: domain.StatusAbsent, LastUpdated: now},
		{MemberID: "m2", Date: "2025-08-26", Status: domain.StatusAbsent, LastUpdated: now},
	}
	if err := store.SaveBatch(ctx, batch); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	got, err := store.Get(ctx, "m1", "2025-08-26")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CheckInTime.IsZero() || got.LateArrival || got.Status != domain.StatusAbsent {
		t.Errorf("after batch = %+v", got)
	}
}

// TestSQLiteStore_ResolveCorrection commits correction and record together.
func TestSQLiteStore_ResolveCorrection(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 8, 27, 9, 0, 0, 0, time.UTC)

	c := domain.Correction{ID: "c1", MemberID: "m1", Date: "2025-08-26", Reason: "forgot", Status: domain.CorrectionPending, RequestedAt: now}
	if err := store.SaveCorrection(ctx, c); err != nil {
		t.Fatalf("SaveCorrection: %v", err)
	}
	if err := c.Resolve(true, "admin", now); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	rec := domain.Record{MemberID: "m1", Date: "2025-08-26", Status: domain.StatusPresentCorrected, LastUpdated: now}
	if err := store.ResolveCorrection(ctx, c, &rec); err != nil {
		t.Fatalf("ResolveCorrection: %v", err)
	}

	got, err := store.GetCorrection(ctx, "c1")
	if err != nil {
		t.Fatalf("GetCorrection: %v", err)
	}
	if got.Status != domain.CorrectionApproved || got.HandledBy != "admin" || !got.HandledAt.Equal(now) {
		t.Errorf("correction = %+v", got)
	}
	r, err := store.Get(ctx, "m1", "2025-08-26")
	if err != nil || r.Status != domain.StatusPresentCorrected {
		t.Errorf("record = %+v, %v", r, err)
	}

	// A second resolution must not apply.
	err = store.ResolveCorrection(ctx, c, nil)
	if !errors.Is(err, domain.ErrAlreadyHandled) {
		t.Errorf("second ResolveCorrection = %v, want ErrAlreadyHandled", err)
	}
	if n := countRows(t, db, "attendance_record"); n != 1 {
		t.Errorf("attendance rows = %d, want 1", n)
	}
}

// TestSQLiteStore_ListCorrections filters by status.
func TestSQLiteStore_ListCorrections(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, status := range []string{domain.CorrectionPending, domain.CorrectionDenied, domain.CorrectionPending} {
		c := domain.Correction{ID: string(rune('a' + i)), MemberID: "m1", Date: "2025-08-01", Status: status, RequestedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.SaveCorrection(ctx, c); err != nil {
			t.Fatalf("SaveCorrection: %v", err)
		}
	}
	pending, err := store.ListCorrections(ctx, domain.CorrectionPending)
	if err != nil {
		t.Fatalf("ListCorrections: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Errorf("pending = %+v", pending)
	}
	all, _ := store.ListCorrections(ctx, "")
	if len(all) != 3 {
		t.Errorf("all = %d, want 3", len(all))
	}
}
