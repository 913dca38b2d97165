package diet

import (
	"context"

	domain "gymhub/internal/domain/diet"
)

// Store persists diet plans and the per-day intake logs.
type Store interface {
	SavePlan(ctx context.Context, value domain.Plan) error
	// LatestPlan returns the most recently assigned plan.
	// POST: error wraps storage.ErrNotFound when the member has none
	LatestPlan(ctx context.Context, memberID string) (domain.Plan, error)
	SaveNutrientIntake(ctx context.Context, value domain.NutrientIntake) error
	GetNutrientIntake(ctx context.Context, memberID, date string) (domain.NutrientIntake, error)
	SaveWaterIntake(ctx context.Context, value domain.WaterIntake) error
	GetWaterIntake(ctx context.Context, memberID, date string) (domain.WaterIntake, error)
	SaveRecommendation(ctx context.Context, value domain.Recommendation) error
	ListRecommendations(ctx context.Context, memberID string) ([]domain.Recommendation, error)
	SaveFavoriteMeal(ctx context.Context, value domain.FavoriteMeal) error
	ListFavoriteMeals(ctx context.Context, memberID string) ([]domain.FavoriteMeal, error)
	SaveComment(ctx context.Context, value domain.Comment) error
	ListComments(ctx context.Context, memberID string) ([]domain.Comment, error)
}
