package attendance

import "sort"

// Summary aggregates a member's attendance history.
type Summary struct {
	Present       int
	Absent        int
	CurrentStreak int
}

// SortByDate orders records ascending by date in place.
func SortByDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

// Summarize counts present/absent days and the current streak.
// Records may arrive in any order; a sorted copy is used.
// The streak scans from the most recent record backward and stops at the first
// record that is not present or is dated after today.
// PRE: today is YYYY-MM-DD
func Summarize(records []Record, today string) Summary {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	SortByDate(sorted)

	var s Summary
	for i := range sorted {
		switch {
		case sorted[i].IsPresent():
			s.Present++
		case sorted[i].Status == StatusAbsent:
			s.Absent++
		}
	}

	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].IsPresent() || sorted[i].Date > today {
			break
		}
		s.CurrentStreak++
	}
	return s
}
