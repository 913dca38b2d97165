package chat

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/chat"
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

// TestSQLiteStore_MessageReactions persists reactions and the soft-delete flag.
func TestSQLiteStore_MessageReactions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	sent := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
	m := domain.Message{ID: "x1", RoomID: "r1", SenderID: "u1", Content: "hi", Type: domain.TypeText, Status: domain.StatusSent, SentAt: sent}
	if err := store.SaveMessage(ctx, m); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}

	m.ToggleReaction("👍", "u2")
	m.SoftDelete(sent.Add(time.Minute))
	if err := store.SaveMessage(ctx, m); err != nil {
		t.Fatalf("SaveMessage update: %v", err)
	}

	got, err := store.GetMessage(ctx, "x1")
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if len(got.Reactions["👍"]) != 1 || !got.Deleted || got.DeletedAt.IsZero() {
		t.Errorf("got %+v", got)
	}
}

// TestSQLiteStore_Typing sets and clears the roomId_userId indicator.
func TestSQLiteStore_Typing(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Now()
	for _, u := range []string{"u1", "u2", "u1"} {
		if err := store.SetTyping(ctx, domain.Typing{RoomID: "r1", UserID: u, At: now}); err != nil {
			t.Fatalf("SetTyping: %v", err)
		}
	}
	list, err := store.ListTyping(ctx, "r1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListTyping = %v, %v; want 2 entries", list, err)
	}
	if err := store.ClearTyping(ctx, "r1", "u1"); err != nil {
		t.Fatalf("ClearTyping: %v", err)
	}
	if err := store.ClearTyping(ctx, "r1", "nobody"); err != nil {
		t.Fatalf("ClearTyping absent: %v", err)
	}
	list, _ = store.ListTyping(ctx, "r1")
	if len(list) != 1 || list[0].UserID != "u2" {
		t.Errorf("after clear = %v", list)
	}
}
