package trainer

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/trainer"
)

func openTestStore(t *testing.T) *SQLiteStore {
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
	return NewSQLiteStore(db)
}

func TestSQLiteStore_ListSessionsHalfOpenRange(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	for _, s := range []domain.ScheduledSession{
		{ID: "late", TrainerID: "t1", StartsAt: start.Add(50 * time.Hour), Type: domain.TypeClass},
		{ID: "early", TrainerID: "t1", MemberID: "m1", StartsAt: start, Type: domain.TypePersonal},
		{ID: "at-end", TrainerID: "t1", MemberID: "m1", StartsAt: end, Type: domain.TypePersonal},
		{ID: "before", TrainerID: "t1", MemberID: "m1", StartsAt: start.Add(-time.Nanosecond), Type: domain.TypePersonal},
		{ID: "other", TrainerID: "t2", StartsAt: start.Add(time.Hour), Type: domain.TypeClass},
	} {
		s.Status = domain.StatusScheduled
		s.CreatedAt = start.Add(-24 * time.Hour)
		if err := store.SaveSession(ctx, s); err != nil {
			t.Fatalf("SaveSession %s: %v", s.ID, err)
		}
	}

	got, err := store.ListSessions(ctx, "t1", start, end)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 2 || got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("got %+v, want [early late]", got)
	}
	if !got[0].StartsAt.Equal(start) {
		t.Errorf("StartsAt = %v, want %v", got[0].StartsAt, start)
	}
}

func TestSQLiteStore_AvailabilityRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.GetAvailability(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("before save: got %v, want ErrNotFound", err)
	}

	a := domain.Availability{
		TrainerID: "t1",
		Slots: []domain.Slot{
			{Day: "Monday", From: "06:00", To: "10:00"},
			{Day: "Thursday", From: "17:00", To: "21:00"},
		},
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveAvailability(ctx, a); err != nil {
		t.Fatalf("SaveAvailability: %v", err)
	}
	a.Slots = a.Slots[:1]
	if err := store.SaveAvailability(ctx, a); err != nil {
		t.Fatalf("SaveAvailability replace: %v", err)
	}

	got, err := store.GetAvailability(ctx, "t1")
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(got.Slots) != 1 || got.Slots[0] != (domain.Slot{Day: "Monday", From: "06:00", To: "10:00"}) {
		t.Errorf("Slots = %+v", got.Slots)
	}
	if !got.UpdatedAt.Equal(a.UpdatedAt) {
		t.Errorf("UpdatedAt = %v", got.UpdatedAt)
	}
}
