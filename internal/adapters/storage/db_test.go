package storage

import (
	"database/sql"
	"sort"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after InitDB.
var expectedTables = []string{
	"account",
	"attendance_correction",
	"attendance_record",
	"badge",
	"bill",
	"chat_message",
	"diet_comment",
	"diet_plan",
	"event_log",
	"favorite_meal",
	"installment_plan",
	"member",
	"notification",
	"nutrient_intake",
	"outbox",
	"payment",
	"presence",
	"product",
	"product_review",
	"progress_log",
	"routine",
	"scheduled_session",
	"supplement_recommendation",
	"theme_preferences",
	"trainer_availability",
	"training_session_log",
	"typing_status",
	"water_intake",
	"wishlist_item",
}

// TestInitDB_CreatesAllTables verifies the schema.
func TestInitDB_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	got := getTableNames(t, db)
	if len(got) != len(expectedTables) {
		t.Fatalf("tables = %v, want %v", got, expectedTables)
	}
	for i := range got {
		if got[i] != expectedTables[i] {
			t.Errorf("table[%d] = %q, want %q", i, got[i], expectedTables[i])
		}
	}
}

// TestInitDB_Idempotent allows repeated initialisation.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 2; i++ {
		if err := InitDB(db); err != nil {
			t.Fatalf("InitDB run %d: %v", i+1, err)
		}
	}
}

// TestInitDB_AttendanceUnique enforces one record per member and day.
func TestInitDB_AttendanceUnique(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	insert := "INSERT INTO attendance_record (id, member_id, date, last_updated) VALUES (?, 'm1', '2025-08-26', 'x')"
	if _, err := db.Exec(insert, "a"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Exec(insert, "b"); err == nil {
		t.Error("expected unique violation for second record on the same day")
	}
}

// TestParseTime accepts stored layouts and rejects garbage.
func TestParseTime(t *testing.T) {
	want := time.Date(2025, 8, 26, 7, 30, 0, 0, time.UTC)
	for _, s := range []string{FormatTime(want), "2025-08-26T07:30:00Z", "2025-08-26 07:30:00"} {
		got, err := ParseTime(s)
		if err != nil || !got.Equal(want) {
			t.Errorf("ParseTime(%q) = %v, %v", s, got, err)
		}
	}
	if got, err := ParseTime(""); err != nil || !got.IsZero() {
		t.Errorf("ParseTime(\"\") = %v, %v", got, err)
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if NullTime(time.Time{}) != nil {
		t.Error("NullTime(zero) should be nil")
	}
}
