package diet

import (
	"context"
	"encoding/json"
	"fmt"

	"gymhub/internal/adapters/storage"
	domain "gymhub/internal/domain/diet"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new diet store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// SavePlan inserts a Plan. Older plans are kept; the latest one is current.
// PRE: plan has been validated
func (s *SQLiteStore) SavePlan(ctx context.Context, p domain.Plan) error {
	meals, err := json.Marshal(nonNilMeals(p.Meals))
	if err != nil {
		return fmt.Errorf("failed to encode meals: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diet_plan (id, member_id, meals, calories_goal, protein_goal, fat_goal, carbs_goal, assigned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.MemberID, string(meals), p.CaloriesGoal, p.ProteinGoal, p.FatGoal, p.CarbsGoal, storage.FormatTime(p.AssignedAt))
	return err
}

func nonNilMeals(m []domain.Meal) []domain.Meal {
	if m == nil {
		return []domain.Meal{}
	}
	return m
}

// LatestPlan retrieves the member's most recently assigned plan.
func (s *SQLiteStore) LatestPlan(ctx context.Context, memberID string) (domain.Plan, error) {
	var p domain.Plan
	var meals, assigned string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, member_id, meals, calories_goal, protein_goal, fat_goal, carbs_goal, assigned_at
		 FROM diet_plan WHERE member_id = ? ORDER BY assigned_at DESC LIMIT 1`, memberID).
		Scan(&p.ID, &p.MemberID, &meals, &p.CaloriesGoal, &p.ProteinGoal, &p.FatGoal, &p.CarbsGoal, &assigned)
	if err != nil {
		return domain.Plan{}, storage.NotFound("diet plan", err)
	}
	if err := json.Unmarshal([]byte(meals), &p.Meals); err != nil {
		return domain.Plan{}, fmt.Errorf("failed to decode meals: %w", err)
	}
	if p.AssignedAt, err = storage.ParseTime(assigned); err != nil {
		return domain.Plan{}, fmt.Errorf("failed to parse assigned_at: %w", err)
	}
	return p, nil
}

// SaveNutrientIntake upserts the day's intake under memberId_date.
func (s *SQLiteStore) SaveNutrientIntake(ctx context.Context, n domain.NutrientIntake) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nutrient_intake (id, member_id, date, calories, protein, fat, carbs) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET calories=excluded.calories, protein=excluded.protein, fat=excluded.fat, carbs=excluded.carbs`,
		domain.Key(n.MemberID, n.Date), n.MemberID, n.Date, n.Calories, n.Protein, n.Fat, n.Carbs)
	return err
}

// GetNutrientIntake retrieves a day's intake.
// POST: error wraps storage.ErrNotFound when nothing was logged
func (s *SQLiteStore) GetNutrientIntake(ctx context.Context, memberID, date string) (domain.NutrientIntake, error) {
	var n domain.NutrientIntake
	err := s.db.QueryRowContext(ctx,
		"SELECT member_id, date, calories, protein, fat, carbs FROM nutrient_intake WHERE id = ?", domain.Key(memberID, date)).
		Scan(&n.MemberID, &n.Date, &n.Calories, &n.Protein, &n.Fat, &n.Carbs)
	if err != nil {
		return domain.NutrientIntake{}, storage.NotFound("nutrient intake", err)
	}
	return n, nil
}

// SaveWaterIntake upserts the day's water intake under memberId_date.
func (s *SQLiteStore) SaveWaterIntake(ctx context.Context, w domain.WaterIntake) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO water_intake (id, member_id, date, liters) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET liters=excluded.liters`,
		domain.Key(w.MemberID, w.Date), w.MemberID, w.Date, w.Liters)
	return err
}

// GetWaterIntake retrieves a day's water intake.
// POST: error wraps storage.ErrNotFound when nothing was logged
func (s *SQLiteStore) GetWaterIntake(ctx context.Context, memberID, date string) (domain.WaterIntake, error) {
	var w domain.WaterIntake
	err := s.db.QueryRowContext(ctx,
		"SELECT member_id, date, liters FROM water_intake WHERE id = ?", domain.Key(memberID, date)).
		Scan(&w.MemberID, &w.Date, &w.Liters)
	if err != nil {
		return domain.WaterIntake{}, storage.NotFound("water intake", err)
	}
	return w, nil
}

// SaveRecommendation inserts a supplement recommendation.
func (s *SQLiteStore) SaveRecommendation(ctx context.Context, r domain.Recommendation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO supplement_recommendation (id, member_id, name, dosage, start_date, end_date) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.MemberID, r.Name, r.Dosage, r.StartDate, r.EndDate)
	return err
}

// ListRecommendations returns a member's supplement recommendations by start date.
func (s *SQLiteStore) ListRecommendations(ctx context.Context, memberID string) ([]domain.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, name, dosage, start_date, end_date FROM supplement_recommendation
		 WHERE member_id = ? ORDER BY start_date ASC, name ASC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Recommendation
	for rows.Next() {
		var r domain.Recommendation
		if err := rows.Scan(&r.ID, &r.MemberID, &r.Name, &r.Dosage, &r.StartDate, &r.EndDate); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SaveFavoriteMeal inserts a bookmarked meal.
func (s *SQLiteStore) SaveFavoriteMeal(ctx context.Context, f domain.FavoriteMeal) error {
	meal, err := json.Marshal(f.Meal)
	if err != nil {
		return fmt.Errorf("failed to encode meal: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO favorite_meal (id, member_id, meal, added_at) VALUES (?, ?, ?, ?)",
		f.ID, f.MemberID, string(meal), storage.FormatTime(f.AddedAt))
	return err
}

// ListFavoriteMeals returns a member's bookmarked meals, oldest first.
func (s *SQLiteStore) ListFavoriteMeals(ctx context.Context, memberID string) ([]domain.FavoriteMeal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, meal, added_at FROM favorite_meal WHERE member_id = ? ORDER BY added_at ASC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.FavoriteMeal
	for rows.Next() {
		var f domain.FavoriteMeal
		var meal, added string
		if err := rows.Scan(&f.ID, &f.MemberID, &meal, &added); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meal), &f.Meal); err != nil {
			return nil, fmt.Errorf("failed to decode meal: %w", err)
		}
		if f.AddedAt, err = storage.ParseTime(added); err != nil {
			return nil, fmt.Errorf("failed to parse added_at: %w", err)
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

// SaveComment inserts a diet comment.
func (s *SQLiteStore) SaveComment(ctx context.Context, c domain.Comment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO diet_comment (id, member_id, plan_id, body, posted_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.MemberID, c.PlanID, c.Body, storage.FormatTime(c.PostedAt))
	return err
}

// ListComments returns a member's diet comments, oldest first.
func (s *SQLiteStore) ListComments(ctx context.Context, memberID string) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, plan_id, body, posted_at FROM diet_comment WHERE member_id = ? ORDER BY posted_at ASC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var posted string
		if err := rows.Scan(&c.ID, &c.MemberID, &c.PlanID, &c.Body, &posted); err != nil {
			return nil, err
		}
		if c.PostedAt, err = storage.ParseTime(posted); err != nil {
			return nil, fmt.Errorf("failed to parse posted_at: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
