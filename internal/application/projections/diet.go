package projections

import (
	"context"
	"errors"
	"fmt"

	"gymhub/internal/adapters/storage"
	domainDiet "gymhub/internal/domain/diet"
)

// QueryDietPlan returns the member's most recently assigned plan.
// POST: Returns diet.ErrNoPlan when none was ever assigned
func QueryDietPlan(ctx context.Context, memberID string, store DietStore) (domainDiet.Plan, error) {
	if memberID == "" {
		return domainDiet.Plan{}, domainDiet.ErrEmptyMemberID
	}
	p, err := store.LatestPlan(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return domainDiet.Plan{}, domainDiet.ErrNoPlan
	}
	if err != nil {
		return domainDiet.Plan{}, fmt.Errorf("failed to load diet plan: %w", err)
	}
	return p, nil
}

// QueryExportDietPlanCSV renders the current plan's meals as CSV.
func QueryExportDietPlanCSV(ctx context.Context, memberID string, store DietStore) (string, error) {
	p, err := QueryDietPlan(ctx, memberID, store)
	if err != nil {
		return "", err
	}
	return p.ExportCSV()
}

// DayQuery addresses a member's day.
type DayQuery struct {
	MemberID string
	Date     string
}

// QueryNutrientIntake returns the macro intake logged for one day.
// POST: A day with nothing logged returns a zero intake for that day
func QueryNutrientIntake(ctx context.Context, query DayQuery, store DietStore) (domainDiet.NutrientIntake, error) {
	empty := domainDiet.NutrientIntake{MemberID: query.MemberID, Date: query.Date}
	if err := empty.Validate(); err != nil {
		return domainDiet.NutrientIntake{}, err
	}
	n, err := store.GetNutrientIntake(ctx, query.MemberID, query.Date)
	if errors.Is(err, storage.ErrNotFound) {
		return empty, nil
	}
	if err != nil {
		return domainDiet.NutrientIntake{}, fmt.Errorf("failed to load nutrient intake: %w", err)
	}
	return n, nil
}

// QueryWaterIntake returns the liters logged for one day, 0 when nothing was logged.
func QueryWaterIntake(ctx context.Context, query DayQuery, store DietStore) (float64, error) {
	probe := domainDiet.WaterIntake{MemberID: query.MemberID, Date: query.Date}
	if err := probe.Validate(); err != nil {
		return 0, err
	}
	w, err := store.GetWaterIntake(ctx, query.MemberID, query.Date)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load water intake: %w", err)
	}
	return w.Liters, nil
}

// QuerySupplementRecommendations lists trainer recommendations for a member.
func QuerySupplementRecommendations(ctx context.Context, memberID string, store DietStore) ([]domainDiet.Recommendation, error) {
	if memberID == "" {
		return nil, domainDiet.ErrEmptyMemberID
	}
	recs, err := store.ListRecommendations(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// QueryFavoriteMeals lists a member's bookmarked meals.
func QueryFavoriteMeals(ctx context.Context, memberID string, store DietStore) ([]domainDiet.FavoriteMeal, error) {
	if memberID == "" {
		return nil, domainDiet.ErrEmptyMemberID
	}
	meals, err := store.ListFavoriteMeals(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite meals: %w", err)
	}
	return meals, nil
}

// QueryDietComments lists a member's diet comments.
func QueryDietComments(ctx context.Context, memberID string, store DietStore) ([]domainDiet.Comment, error) {
	if memberID == "" {
		return nil, domainDiet.ErrEmptyMemberID
	}
	comments, err := store.ListComments(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
