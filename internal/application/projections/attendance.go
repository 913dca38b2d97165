package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainAttendance "gymhub/internal/domain/attendance"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidMonth is returned for a report month outside 1-12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// ReportSheet is the worksheet name of the XLSX monthly report.
const ReportSheet = "Attendance"

// GetAttendanceRecordsQuery carries query parameters.
type GetAttendanceRecordsQuery struct {
	MemberID  string
	StartDate string
	EndDate   string
}

// QueryGetAttendanceRecords lists a member's records in an inclusive date range.
// PRE: dates are YYYY-MM-DD
// POST: Returns records sorted ascending by date
func QueryGetAttendanceRecords(ctx context.Context, query GetAttendanceRecordsQuery, store AttendanceStore) ([]domainAttendance.Record, error) {
	if query.MemberID == "" {
		return nil, domainAttendance.ErrEmptyMemberID
	}
	for _, d := range []string{query.StartDate, query.EndDate} {
		if _, err := time.Parse(domainAttendance.DateLayout, d); err != nil {
			return nil, domainAttendance.ErrInvalidDate
		}
	}
	records, err := store.ListByMemberIDAndDateRange(ctx, query.MemberID, query.StartDate, query.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	domainAttendance.SortByDate(records)
	return records, nil
}

// GetAttendanceSummaryDeps holds dependencies for QueryGetAttendanceSummary.
type GetAttendanceSummaryDeps struct {
	AttendanceStore AttendanceStore
	Location        *time.Location
	Now             func() time.Time
}

// QueryGetAttendanceSummary counts present and absent days and the current streak.
// PRE: memberID is non-empty
// POST: Store failures are returned, never reported as an empty summary
func QueryGetAttendanceSummary(ctx context.Context, memberID string, deps GetAttendanceSummaryDeps) (domainAttendance.Summary, error) {
	if memberID == "" {
		return domainAttendance.Summary{}, domainAttendance.ErrEmptyMemberID
	}
	records, err := deps.AttendanceStore.ListByMemberID(ctx, memberID)
	if err != nil {
		return domainAttendance.Summary{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	today := domainAttendance.DateOf(nowFrom(deps.Now), locationOr(deps.Location))
	return domainAttendance.Summarize(records, today), nil
}

// MonthlyReportQuery carries query parameters.
type MonthlyReportQuery struct {
	MemberID string
	Year     int
	Month    int
}

func monthlyRecords(ctx context.Context, query MonthlyReportQuery, store AttendanceStore) ([]domainAttendance.Record, error) {
	if query.Month < 1 || query.Month > 12 {
		return nil, ErrInvalidMonth
	}
	start, end := domainAttendance.MonthBounds(query.Year, query.Month)
	return QueryGetAttendanceRecords(ctx, GetAttendanceRecordsQuery{MemberID: query.MemberID, StartDate: start, EndDate: end}, store)
}

// QueryGenerateMonthlyReport renders a member's month as CSV.
// PRE: query.Month is 1-12
// POST: Header is Date,CheckIn,CheckOut,LateArrival,Status; rows sorted by date
func QueryGenerateMonthlyReport(ctx context.Context, query MonthlyReportQuery, store AttendanceStore) (string, error) {
	records, err := monthlyRecords(ctx, query, store)
	if err != nil {
		return "", err
	}
	return domainAttendance.MonthlyCSV(records)
}

// QueryGenerateMonthlyReportXLSX renders the same rows as QueryGenerateMonthlyReport into a workbook.
// POST: Returns the encoded .xlsx bytes with one sheet named ReportSheet
func QueryGenerateMonthlyReportXLSX(ctx context.Context, query MonthlyReportQuery, store AttendanceStore) ([]byte, error) {
	records, err := monthlyRecords(ctx, query, store)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, domainAttendance.ReportHeader)
	for _, r := range records {
		rows = append(rows, domainAttendance.ReportRow(r))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ReportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// QueryListCorrections returns the correction requests with the given status.
// An empty status lists every request.
func QueryListCorrections(ctx context.Context, status string, store CorrectionLister) ([]domainAttendance.Correction, error) {
	switch status {
	case "", domainAttendance.CorrectionPending, domainAttendance.CorrectionApproved, domainAttendance.CorrectionDenied:
	default:
		return nil, fmt.Errorf("unknown correction status %q", status)
	}
	corrections, err := store.ListCorrections(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return corrections, nil
}
