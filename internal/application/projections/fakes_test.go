package projections

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymhub/internal/adapters/storage"
	memberStore "gymhub/internal/adapters/storage/member"
	domainAttendance "gymhub/internal/domain/attendance"
	domainDiet "gymhub/internal/domain/diet"
	domainMember "gymhub/internal/domain/member"
	domainTrainer "gymhub/internal/domain/trainer"
)

var errStore = errors.New("store unavailable")

type mockAttendanceStore struct {
	records []domainAttendance.Record
	err     error
	ranges  [][2]string
}

// ListByMemberID returns seeded records for the member.
// PRE: memberID is non-empty
// POST: Returns the seeded error when set
func (m *mockAttendanceStore) ListByMemberID(_ context.Context, memberID string) ([]domainAttendance.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainAttendance.Record
	for _, r := range m.records {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListByMemberIDAndDateRange returns seeded records in the inclusive range and records the bounds.
func (m *mockAttendanceStore) ListByMemberIDAndDateRange(_ context.Context, memberID, start, end string) ([]domainAttendance.Record, error) {
	m.ranges = append(m.ranges, [2]string{start, end})
	if m.err != nil {
		return nil, m.err
	}
	var out []domainAttendance.Record
	for _, r := range m.records {
		if r.MemberID == memberID && r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockCorrectionLister struct {
	statuses []string
}

// ListCorrections records the requested status and returns nothing.
func (m *mockCorrectionLister) ListCorrections(_ context.Context, status string) ([]domainAttendance.Correction, error) {
	m.statuses = append(m.statuses, status)
	return nil, nil
}

type mockMemberStore struct {
	members []domainMember.Member
	filters []memberStore.ListFilter
}

// List returns all seeded members.
func (m *mockMemberStore) List(_ context.Context, filter memberStore.ListFilter) ([]domainMember.Member, error) {
	m.filters = append(m.filters, filter)
	return m.members, nil
}

// ListByTrainerID returns seeded members assigned to the trainer.
func (m *mockMemberStore) ListByTrainerID(_ context.Context, trainerID string) ([]domainMember.Member, error) {
	var out []domainMember.Member
	for _, mem := range m.members {
		if mem.TrainerID == trainerID {
			out = append(out, mem)
		}
	}
	return out, nil
}

// Count returns the number of seeded members.
func (m *mockMemberStore) Count(_ context.Context) (int, error) {
	return len(m.members), nil
}

type mockDietStore struct {
	plan  *domainDiet.Plan
	water map[string]domainDiet.WaterIntake
}

// LatestPlan returns the seeded plan or a not-found error.
func (m *mockDietStore) LatestPlan(_ context.Context, _ string) (domainDiet.Plan, error) {
	if m.plan == nil {
		return domainDiet.Plan{}, storage.NotFound("diet plan", sql.ErrNoRows)
	}
	return *m.plan, nil
}

// GetNutrientIntake always reports nothing logged.
func (m *mockDietStore) GetNutrientIntake(_ context.Context, _, _ string) (domainDiet.NutrientIntake, error) {
	return domainDiet.NutrientIntake{}, storage.NotFound("nutrient intake", sql.ErrNoRows)
}

// GetWaterIntake returns the seeded intake for the day key.
func (m *mockDietStore) GetWaterIntake(_ context.Context, memberID, date string) (domainDiet.WaterIntake, error) {
	w, ok := m.water[domainDiet.Key(memberID, date)]
	if !ok {
		return domainDiet.WaterIntake{}, storage.NotFound("water intake", sql.ErrNoRows)
	}
	return w, nil
}

// ListRecommendations returns nothing.
func (m *mockDietStore) ListRecommendations(_ context.Context, _ string) ([]domainDiet.Recommendation, error) {
	return nil, nil
}

// ListFavoriteMeals returns nothing.
func (m *mockDietStore) ListFavoriteMeals(_ context.Context, _ string) ([]domainDiet.FavoriteMeal, error) {
	return nil, nil
}

// ListComments returns nothing.
func (m *mockDietStore) ListComments(_ context.Context, _ string) ([]domainDiet.Comment, error) {
	return nil, nil
}

type mockSessionLister struct {
	sessions []domainTrainer.ScheduledSession
	start    time.Time
	end      time.Time
}

// ListSessions returns seeded sessions starting in [start, end) and records the bounds.
func (m *mockSessionLister) ListSessions(_ context.Context, trainerID string, start, end time.Time) ([]domainTrainer.ScheduledSession, error) {
	m.start, m.end = start, end
	var out []domainTrainer.ScheduledSession
	for _, s := range m.sessions {
		if s.TrainerID == trainerID && !s.StartsAt.Before(start) && s.StartsAt.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func openTestDB(t *testing.T) *sql.DB {
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
	return db
}
