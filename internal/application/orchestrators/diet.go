package orchestrators

import (
	"context"
	"fmt"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/domain/diet"
	domainEvent "gymhub/internal/domain/eventlog"
)

// DietStore is the diet persistence surface used by commands.
type DietStore interface {
	SavePlan(ctx context.Context, p diet.Plan) error
	SaveNutrientIntake(ctx context.Context, n diet.NutrientIntake) error
	SaveWaterIntake(ctx context.Context, w diet.WaterIntake) error
	SaveRecommendation(ctx context.Context, r diet.Recommendation) error
	SaveFavoriteMeal(ctx context.Context, f diet.FavoriteMeal) error
	SaveComment(ctx context.Context, c diet.Comment) error
}

// DietDeps holds dependencies for diet commands.
type DietDeps struct {
	Diet       DietStore
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

// ExecuteSaveDietPlan assigns a new plan; the latest assigned plan is the member's current plan.
// POST: AssignedAt = now; earlier plans are kept
func ExecuteSaveDietPlan(ctx context.Context, p diet.Plan, actorID string, deps DietDeps) (diet.Plan, error) {
	p.ID = newID(deps.GenerateID)
	p.AssignedAt = nowFrom(deps.Now)
	if err := p.Validate(); err != nil {
		return diet.Plan{}, err
	}
	if err := deps.Diet.SavePlan(ctx, p); err != nil {
		return diet.Plan{}, fmt.Errorf("failed to save diet plan: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventDietPlanSaved,
		"member_id", p.MemberID, "plan_id", p.ID, "meals", len(p.Meals)).WithActor(actorID))
	return p, nil
}

// NutrientIntakeInput carries one day's macro totals.
type NutrientIntakeInput struct {
	MemberID string  `validate:"required"`
	Date     string  `validate:"required,datetime=2006-01-02"`
	Calories int     `validate:"gte=0,lte=20000"`
	Protein  float64 `validate:"gte=0"`
	Fat      float64 `validate:"gte=0"`
	Carbs    float64 `validate:"gte=0"`
}

// ExecuteLogNutrientIntake replaces the member's intake for the day.
// INVARIANT: one intake per memberId_date
func ExecuteLogNutrientIntake(ctx context.Context, input NutrientIntakeInput, deps DietDeps) (diet.NutrientIntake, error) {
	if err := validateInput(input); err != nil {
		return diet.NutrientIntake{}, err
	}
	n := diet.NutrientIntake(input)
	if err := n.Validate(); err != nil {
		return diet.NutrientIntake{}, err
	}
	if err := deps.Diet.SaveNutrientIntake(ctx, n); err != nil {
		return diet.NutrientIntake{}, fmt.Errorf("failed to save nutrient intake: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventNutrientLogged, "member_id", n.MemberID, "date", n.Date))
	return n, nil
}

// WaterIntakeInput carries one day's water total.
type WaterIntakeInput struct {
	MemberID string  `validate:"required"`
	Date     string  `validate:"required,datetime=2006-01-02"`
	Liters   float64 `validate:"gte=0,lte=20"`
}

// ExecuteLogWaterIntake replaces the member's water intake for the day.
func ExecuteLogWaterIntake(ctx context.Context, input WaterIntakeInput, deps DietDeps) (diet.WaterIntake, error) {
	if err := validateInput(input); err != nil {
		return diet.WaterIntake{}, err
	}
	w := diet.WaterIntake(input)
	if err := w.Validate(); err != nil {
		return diet.WaterIntake{}, err
	}
	if err := deps.Diet.SaveWaterIntake(ctx, w); err != nil {
		return diet.WaterIntake{}, fmt.Errorf("failed to save water intake: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventWaterLogged, "member_id", w.MemberID, "date", w.Date, "liters", w.Liters))
	return w, nil
}

// ExecuteAddSupplementRecommendation records a supplement suggested for a member.
func ExecuteAddSupplementRecommendation(ctx context.Context, r diet.Recommendation, actorID string, deps DietDeps) (diet.Recommendation, error) {
	r.ID = newID(deps.GenerateID)
	if err := r.Validate(); err != nil {
		return diet.Recommendation{}, err
	}
	if err := deps.Diet.SaveRecommendation(ctx, r); err != nil {
		return diet.Recommendation{}, fmt.Errorf("failed to save recommendation: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventSupplementRecAdded,
		"member_id", r.MemberID, "supplement", r.Name).WithActor(actorID))
	return r, nil
}

// ExecuteAddFavoriteMeal bookmarks a meal for a member.
func ExecuteAddFavoriteMeal(ctx context.Context, memberID string, meal diet.Meal, deps DietDeps) (diet.FavoriteMeal, error) {
	if memberID == "" {
		return diet.FavoriteMeal{}, diet.ErrEmptyMemberID
	}
	if err := meal.Validate(); err != nil {
		return diet.FavoriteMeal{}, err
	}
	f := diet.FavoriteMeal{ID: newID(deps.GenerateID), MemberID: memberID, Meal: meal, AddedAt: nowFrom(deps.Now)}
	if err := deps.Diet.SaveFavoriteMeal(ctx, f); err != nil {
		return diet.FavoriteMeal{}, fmt.Errorf("failed to save favorite meal: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventFavoriteMealAdded, "member_id", memberID, "meal", meal.Name))
	return f, nil
}

// ExecutePostDietComment attaches a comment to a member's diet.
func ExecutePostDietComment(ctx context.Context, c diet.Comment, deps DietDeps) (diet.Comment, error) {
	c.ID = newID(deps.GenerateID)
	c.PostedAt = nowFrom(deps.Now)
	if err := c.Validate(); err != nil {
		return diet.Comment{}, err
	}
	if err := deps.Diet.SaveComment(ctx, c); err != nil {
		return diet.Comment{}, fmt.Errorf("failed to save comment: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventDietCommentPosted, "member_id", c.MemberID, "plan_id", c.PlanID))
	return c, nil
}
