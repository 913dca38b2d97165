package projections

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainAttendance "gymhub/internal/domain/attendance"

	"github.com/xuri/excelize/v2"
)

func augustStore() *mockAttendanceStore {
	in := time.Date(2025, 8, 2, 6, 5, 0, 0, time.UTC)
	return &mockAttendanceStore{records: []domainAttendance.Record{
		{MemberID: "m1", Date: "2025-08-03", Status: domainAttendance.StatusAbsent},
		{MemberID: "m1", Date: "2025-08-02", CheckInTime: in, Status: domainAttendance.StatusPresent},
		{MemberID: "m1", Date: "2025-07-31", Status: domainAttendance.StatusPresent},
		{MemberID: "m2", Date: "2025-08-02", Status: domainAttendance.StatusPresent},
	}}
}

// TestQueryGetAttendanceRecords_SortsAndBounds returns only in-range records in date order.
func TestQueryGetAttendanceRecords_SortsAndBounds(t *testing.T) {
	store := augustStore()
	got, err := QueryGetAttendanceRecords(context.Background(), GetAttendanceRecordsQuery{
		MemberID: "m1", StartDate: "2025-08-01", EndDate: "2025-08-31",
	}, store)
	if err != nil {
		t.Fatalf("QueryGetAttendanceRecords: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2025-08-02" || got[1].Date != "2025-08-03" {
		t.Fatalf("records = %+v", got)
	}

	_, err = QueryGetAttendanceRecords(context.Background(), GetAttendanceRecordsQuery{
		MemberID: "m1", StartDate: "08/01/2025", EndDate: "2025-08-31",
	}, store)
	if !errors.Is(err, domainAttendance.ErrInvalidDate) {
		t.Errorf("bad date error = %v, want ErrInvalidDate", err)
	}
}

// TestQueryGetAttendanceSummary_ReturnsStoreErrors does not hide a failing store behind zeros.
func TestQueryGetAttendanceSummary_ReturnsStoreErrors(t *testing.T) {
	deps := GetAttendanceSummaryDeps{AttendanceStore: &mockAttendanceStore{err: errStore}}
	if _, err := QueryGetAttendanceSummary(context.Background(), "m1", deps); !errors.Is(err, errStore) {
		t.Fatalf("error = %v, want errStore", err)
	}
}

// TestQueryGetAttendanceSummary_UsesGymToday counts the streak against today in the gym location.
func TestQueryGetAttendanceSummary_UsesGymToday(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	store := &mockAttendanceStore{records: []domainAttendance.Record{
		{MemberID: "m1", Date: "2025-08-20", Status: domainAttendance.StatusPresent},
		{MemberID: "m1", Date: "2025-08-21", Status: domainAttendance.StatusPresentCorrected},
	}}
	// 2025-08-20 20:00 UTC is already 2025-08-21 in WIB.
	now := time.Date(2025, 8, 20, 20, 0, 0, 0, time.UTC)
	got, err := QueryGetAttendanceSummary(context.Background(), "m1", GetAttendanceSummaryDeps{
		AttendanceStore: store,
		Location:        wib,
		Now:             func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("QueryGetAttendanceSummary: %v", err)
	}
	want := domainAttendance.Summary{Present: 2, Absent: 0, CurrentStreak: 2}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}

	got, _ = QueryGetAttendanceSummary(context.Background(), "m1", GetAttendanceSummaryDeps{
		AttendanceStore: store,
		Location:        time.UTC,
		Now:             func() time.Time { return now },
	})
	if got.CurrentStreak != 0 {
		t.Errorf("UTC streak = %d, want 0 because 2025-08-21 is in the future", got.CurrentStreak)
	}
}

// TestQueryGenerateMonthlyReport_CSV queries the whole month and renders sorted rows.
func TestQueryGenerateMonthlyReport_CSV(t *testing.T) {
	store := augustStore()
	out, err := QueryGenerateMonthlyReport(context.Background(), MonthlyReportQuery{MemberID: "m1", Year: 2025, Month: 8}, store)
	if err != nil {
		t.Fatalf("QueryGenerateMonthlyReport: %v", err)
	}
	if store.ranges[0] != [2]string{"2025-08-01", "2025-08-31"} {
		t.Errorf("range = %v", store.ranges[0])
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Date,CheckIn,CheckOut,LateArrival,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-08-02,2025-08-02T06:05:00Z,,No,present" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2025-08-03,,,No,absent" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

// TestQueryGenerateMonthlyReport_InvalidMonth rejects months outside 1-12 before querying.
func TestQueryGenerateMonthlyReport_InvalidMonth(t *testing.T) {
	store := augustStore()
	for _, month := range []int{0, 13} {
		if _, err := QueryGenerateMonthlyReport(context.Background(), MonthlyReportQuery{MemberID: "m1", Year: 2025, Month: month}, store); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("month %d error = %v, want ErrInvalidMonth", month, err)
		}
	}
	if len(store.ranges) != 0 {
		t.Errorf("store queried %d times, want 0", len(store.ranges))
	}
}

// TestQueryGenerateMonthlyReportXLSX_MatchesCSVRows writes the same cells as the CSV report.
func TestQueryGenerateMonthlyReportXLSX_MatchesCSVRows(t *testing.T) {
	data, err := QueryGenerateMonthlyReportXLSX(context.Background(), MonthlyReportQuery{MemberID: "m1", Year: 2025, Month: 8}, augustStore())
	if err != nil {
		t.Fatalf("QueryGenerateMonthlyReportXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ReportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != "Date,CheckIn,CheckOut,LateArrival,Status" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2025-08-02" || rows[1][1] != "2025-08-02T06:05:00Z" || rows[1][4] != "present" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][3] != "No" || rows[2][4] != "absent" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

// TestQueryListCorrections_StatusFilter passes known statuses through and rejects unknown ones.
func TestQueryListCorrections_StatusFilter(t *testing.T) {
	store := &mockCorrectionLister{}
	for _, status := range []string{"", domainAttendance.CorrectionPending, domainAttendance.CorrectionDenied} {
		if _, err := QueryListCorrections(context.Background(), status, store); err != nil {
			t.Errorf("status %q: %v", status, err)
		}
	}
	if _, err := QueryListCorrections(context.Background(), "maybe", store); err == nil {
		t.Error("expected error for unknown status")
	}
	if len(store.statuses) != 3 {
		t.Errorf("store calls = %v", store.statuses)
	}
}
