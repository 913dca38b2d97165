package progress_test

import (
	"strings"
	"testing"

	"gymhub/internal/domain/progress"
)

func f(v float64) *float64 { return &v }

func TestLog_Validate(t *testing.T) {
	tests := []struct {
		name string
		log  progress.Log
		want error
	}{
		{"weight only", progress.Log{MemberID: "m1", Date: "2025-08-01", WeightKg: f(80)}, nil},
		{"no measurement", progress.Log{MemberID: "m1", Date: "2025-08-01"}, progress.ErrNoMeasurement},
		{"zero weight", progress.Log{MemberID: "m1", Date: "2025-08-01", WeightKg: f(0)}, progress.ErrInvalidWeight},
		{"heavy", progress.Log{MemberID: "m1", Date: "2025-08-01", WeightKg: f(501)}, progress.ErrInvalidWeight},
		{"bmi", progress.Log{MemberID: "m1", Date: "2025-08-01", BMI: f(120)}, progress.ErrInvalidBMI},
		{"zero body fat allowed", progress.Log{MemberID: "m1", Date: "2025-08-01", BodyFatPct: f(0)}, nil},
		{"muscle", progress.Log{MemberID: "m1", Date: "2025-08-01", MuscleMassKg: f(250)}, progress.ErrInvalidMuscleMass},
		{"bad date", progress.Log{MemberID: "m1", Date: "yesterday", WeightKg: f(80)}, progress.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.log.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateTrends(t *testing.T) {
	if _, err := progress.CalculateTrends([]progress.Log{{Date: "2025-08-01"}}); err != progress.ErrNotEnoughData {
		t.Fatalf("single log: %v", err)
	}
	logs := []progress.Log{
		{Date: "2025-08-15", WeightKg: f(78), BMI: f(24)},
		{Date: "2025-08-01", WeightKg: f(80)},
		{Date: "2025-08-08", WeightKg: f(79)},
	}
	progress.SortByDate(logs)
	tr, err := progress.CalculateTrends(logs)
	if err != nil {
		t.Fatalf("CalculateTrends: %v", err)
	}
	if tr.WeightChange == nil || *tr.WeightChange != -2 {
		t.Errorf("WeightChange = %v", tr.WeightChange)
	}
	if tr.BMIChange != nil {
		t.Errorf("BMIChange should be nil when first log has no BMI")
	}
	if tr.FirstDate != "2025-08-01" || tr.LastDate != "2025-08-15" || tr.Entries != 3 {
		t.Errorf("trends = %+v", tr)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		length  int
		want    string
	}{
		{25, 20, "[#####---------------] 25%"},
		{0, 10, "[----------] 0%"},
		{100, 4, "[####] 100%"},
		{150, 4, "[####] 100%"},
		{50, 0, "[##########----------] 50%"},
	}
	for _, tt := range tests {
		if got := progress.ProgressBar(tt.percent, tt.length); got != tt.want {
			t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.percent, tt.length, got, tt.want)
		}
	}
}

func TestExportCSV(t *testing.T) {
	out, err := progress.ExportCSV([]progress.Log{
		{Date: "2025-08-01", WeightKg: f(80.5), Notes: `felt "strong", slept well`},
	})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	want := "Date,Weight (kg),BMI,Body Fat %,Muscle Mass (kg),Notes\n" +
		"2025-08-01,80.5,,,,\"felt \"\"strong\"\", slept well\"\n"
	if out != want {
		t.Errorf("ExportCSV() = %q, want %q", out, want)
	}
	if !strings.HasPrefix(out, "Date,") {
		t.Error("missing header")
	}
}
