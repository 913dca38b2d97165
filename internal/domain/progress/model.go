package progress

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyMemberID     = errors.New("member ID cannot be empty")
	ErrNoMeasurement     = errors.New("at least one measurement must be provided")
	ErrInvalidWeight     = errors.New("weight must be between 0 and 500 kg")
	ErrInvalidBMI        = errors.New("BMI must be between 0 and 100")
	ErrInvalidBodyFat    = errors.New("body fat % must be between 0 and 100")
	ErrInvalidMuscleMass = errors.New("muscle mass must be between 0 and 200 kg")
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
	ErrNotEnoughData     = errors.New("not enough data for trends")
)

// Log is one body-composition measurement. Nil measurements were not taken.
type Log struct {
	ID           string
	MemberID     string
	Date         string
	WeightKg     *float64
	BMI          *float64
	BodyFatPct   *float64
	MuscleMassKg *float64
	Notes        string
	RecordedAt   time.Time
}

// Validate checks ranges and that at least one measurement is present.
// Weight and BMI must be strictly positive; body fat and muscle mass may be zero.
// PRE: Log struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Log) Validate() error {
	if l.MemberID == "" {
		return ErrEmptyMemberID
	}
	if _, err := time.Parse("2006-01-02", l.Date); err != nil {
		return ErrInvalidDate
	}
	if l.WeightKg == nil && l.BMI == nil && l.BodyFatPct == nil && l.MuscleMassKg == nil {
		return ErrNoMeasurement
	}
	if l.WeightKg != nil && (*l.WeightKg <= 0 || *l.WeightKg > 500) {
		return ErrInvalidWeight
	}
	if l.BMI != nil && (*l.BMI <= 0 || *l.BMI > 100) {
		return ErrInvalidBMI
	}
	if l.BodyFatPct != nil && (*l.BodyFatPct < 0 || *l.BodyFatPct > 100) {
		return ErrInvalidBodyFat
	}
	if l.MuscleMassKg != nil && (*l.MuscleMassKg < 0 || *l.MuscleMassKg > 200) {
		return ErrInvalidMuscleMass
	}
	return nil
}

// SortByDate orders logs ascending by date in place.
func SortByDate(logs []Log) {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
}

// Trends compares the first and last log of a date-ordered series.
// A change is nil when either endpoint lacks that measurement.
type Trends struct {
	WeightChange *float64
	BMIChange    *float64
	FirstDate    string
	LastDate     string
	Entries      int
}

// CalculateTrends summarises a series sorted ascending by date.
// PRE: logs sorted by SortByDate
func CalculateTrends(logs []Log) (Trends, error) {
	if len(logs) < 2 {
		return Trends{}, ErrNotEnoughData
	}
	first, last := logs[0], logs[len(logs)-1]
	return Trends{
		WeightChange: diff(first.WeightKg, last.WeightKg),
		BMIChange:    diff(first.BMI, last.BMI),
		FirstDate:    first.Date,
		LastDate:     last.Date,
		Entries:      len(logs),
	}, nil
}

func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := *b - *a
	return &d
}

// ProgressBar draws a text bar like `[#####---------------] 25%`.
// percent is clamped to 0-100; length defaults to 20 when not positive.
func ProgressBar(percent float64, length int) string {
	if length <= 0 {
		length = 20
	}
	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * float64(length)))
	return fmt.Sprintf("[%s%s] %s%%",
		strings.Repeat("#", filled),
		strings.Repeat("-", length-filled),
		strconv.FormatFloat(percent, 'f', -1, 64))
}

// ExportCSV renders logs with header `Date,Weight (kg),BMI,Body Fat %,Muscle Mass (kg),Notes`.
// Missing measurements render empty; notes are quoted when needed.
func ExportCSV(logs []Log) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Weight (kg)", "BMI", "Body Fat %", "Muscle Mass (kg)", "Notes"}); err != nil {
		return "", err
	}
	for _, l := range logs {
		row := []string{l.Date, optional(l.WeightKg), optional(l.BMI), optional(l.BodyFatPct), optional(l.MuscleMassKg), l.Notes}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
