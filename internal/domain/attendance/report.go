package attendance

import (
	"bytes"
	"encoding/csv"
	"time"
)

// ReportHeader is the fixed column order of the monthly report.
var ReportHeader = []string{"Date", "CheckIn", "CheckOut", "LateArrival", "Status"}

// ReportRow renders one record as report columns.
// Missing times and status render as empty strings.
func ReportRow(r Record) []string {
	late := "No"
	if r.LateArrival {
		late = "Yes"
	}
	return []string{r.Date, formatTime(r.CheckInTime), formatTime(r.CheckOutTime), late, r.Status}
}

// MonthlyCSV renders records as CSV with a header row.
// Fields containing commas, quotes, or newlines are quoted.
func MonthlyCSV(records []Record) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ReportHeader); err != nil {
		return "", err
	}
	for _, r := range records {
		if err := w.Write(ReportRow(r)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
