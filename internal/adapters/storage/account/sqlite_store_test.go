package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/account"
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

func TestSQLiteStore_GetByEmailIgnoresCase(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, domain.Account{ID: "a1", Email: "Rina@Gym.test", Role: domain.RoleMember, MemberID: "m1", CreatedAt: created}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByEmail(ctx, "rina@gym.test")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "a1" || got.MemberID != "m1" {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if !got.LockedUntil.IsZero() {
		t.Errorf("LockedUntil = %v, want zero", got.LockedUntil)
	}
}

func TestSQLiteStore_SaveUpdatesLockout(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	a := domain.Account{ID: "a1", Email: "coach@gym.test", Role: domain.RoleTrainer, CreatedAt: time.Now()}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	locked := time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC)
	a.FailedLogins = domain.MaxFailedLogins
	a.LockedUntil = locked
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := store.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FailedLogins != domain.MaxFailedLogins || !got.LockedUntil.Equal(locked) {
		t.Errorf("got FailedLogins=%d LockedUntil=%v", got.FailedLogins, got.LockedUntil)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSQLiteStore_GetByGoogleSubject(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, domain.Account{ID: "a1", Email: "a@gym.test", Role: domain.RoleMember, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, domain.Account{ID: "a2", Email: "b@gym.test", Role: domain.RoleMember, GoogleSubject: "g-42", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByGoogleSubject(ctx, "g-42")
	if err != nil {
		t.Fatalf("GetByGoogleSubject: %v", err)
	}
	if got.ID != "a2" {
		t.Errorf("got %q, want a2", got.ID)
	}
	if _, err := store.GetByGoogleSubject(ctx, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("empty subject: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_UnknownAccount(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
