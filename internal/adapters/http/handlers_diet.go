package web

import (
	"net/http"

	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainAttendance "gymhub/internal/domain/attendance"
	domainDiet "gymhub/internal/domain/diet"
)

func dietDeps() orchestrators.DietDeps {
	return orchestrators.DietDeps{
		Diet:       stores.DietStore,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	}
}

// dayOrToday returns date, or today's date in the gym location when empty.
func dayOrToday(date string) string {
	if date != "" {
		return date
	}
	return timeNow().In(gymLocation()).Format(domainAttendance.DateLayout)
}

// handleDietPlan handles GET /api/diet/plan?member_id=
func handleDietPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	p, err := projections.QueryDietPlan(r.Context(), memberID, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	p.Meals = nonNil(p.Meals)
	writeJSON(w, http.StatusOK, p)
}

// handleSaveDietPlan handles POST /api/diet/plan (staff)
func handleSaveDietPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID     string            `json:"MemberID"`
		Meals        []domainDiet.Meal `json:"Meals"`
		CaloriesGoal int               `json:"CaloriesGoal"`
		ProteinGoal  float64           `json:"ProteinGoal"`
		FatGoal      float64           `json:"FatGoal"`
		CarbsGoal    float64           `json:"CarbsGoal"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteSaveDietPlan(r.Context(), domainDiet.Plan{
		MemberID:     input.MemberID,
		Meals:        input.Meals,
		CaloriesGoal: input.CaloriesGoal,
		ProteinGoal:  input.ProteinGoal,
		FatGoal:      input.FatGoal,
		CarbsGoal:    input.CarbsGoal,
	}, sess.AccountID, dietDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleExportDietPlan handles GET /api/diet/plan/export?member_id=
func handleExportDietPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	out, err := projections.QueryExportDietPlanCSV(r.Context(), memberID, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCSV(w, "diet-plan-"+memberID+".csv", out)
}

// handleNutrientIntake handles GET /api/diet/nutrients?member_id=&date=
func handleNutrientIntake(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	n, err := projections.QueryNutrientIntake(r.Context(), projections.DayQuery{
		MemberID: memberID,
		Date:     dayOrToday(r.URL.Query().Get("date")),
	}, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handleLogNutrientIntake handles POST /api/diet/nutrients
func handleLogNutrientIntake(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID string  `json:"MemberID"`
		Date     string  `json:"Date"`
		Calories int     `json:"Calories"`
		Protein  float64 `json:"Protein"`
		Fat      float64 `json:"Fat"`
		Carbs    float64 `json:"Carbs"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	n, err := orchestrators.ExecuteLogNutrientIntake(r.Context(), orchestrators.NutrientIntakeInput{
		MemberID: memberID,
		Date:     dayOrToday(input.Date),
		Calories: input.Calories,
		Protein:  input.Protein,
		Fat:      input.Fat,
		Carbs:    input.Carbs,
	}, dietDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handleWaterIntake handles GET /api/diet/water?member_id=&date=
func handleWaterIntake(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	date := dayOrToday(r.URL.Query().Get("date"))
	liters, err := projections.QueryWaterIntake(r.Context(), projections.DayQuery{MemberID: memberID, Date: date}, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domainDiet.WaterIntake{MemberID: memberID, Date: date, Liters: liters})
}

// handleLogWaterIntake handles POST /api/diet/water
func handleLogWaterIntake(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID string  `json:"MemberID"`
		Date     string  `json:"Date"`
		Liters   float64 `json:"Liters"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	wi, err := orchestrators.ExecuteLogWaterIntake(r.Context(), orchestrators.WaterIntakeInput{
		MemberID: memberID,
		Date:     dayOrToday(input.Date),
		Liters:   input.Liters,
	}, dietDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wi)
}

// handleRecommendations handles GET /api/diet/recommendations?member_id=
func handleRecommendations(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	recs, err := projections.QuerySupplementRecommendations(r.Context(), memberID, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, recs)
}

// handleAddRecommendation handles POST /api/diet/recommendations (staff)
func handleAddRecommendation(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID  string `json:"MemberID"`
		Name      string `json:"Name"`
		Dosage    string `json:"Dosage"`
		StartDate string `json:"StartDate"`
		EndDate   string `json:"EndDate"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	rec, err := orchestrators.ExecuteAddSupplementRecommendation(r.Context(), domainDiet.Recommendation{
		MemberID:  input.MemberID,
		Name:      input.Name,
		Dosage:    input.Dosage,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}, sess.AccountID, dietDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleFavoriteMeals handles GET /api/diet/favorites?member_id=
func handleFavoriteMeals(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	meals, err := projections.QueryFavoriteMeals(r.Context(), memberID, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, meals)
}

// handleAddFavoriteMeal handles POST /api/diet/favorites
func handleAddFavoriteMeal(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID string          `json:"MemberID"`
		Meal     domainDiet.Meal `json:"Meal"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	f, err := orchestrators.ExecuteAddFavoriteMeal(r.Context(), memberID, input.Meal, dietDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// handleDietComments handles GET /api/diet/comments?member_id=
func handleDietComments(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	comments, err := projections.QueryDietComments(r.Context(), memberID, stores.DietStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, comments)
}

// handlePostDietComment handles POST /api/diet/comments
func handlePostDietComment(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID string `json:"MemberID"`
		PlanID   string `json:"PlanID"`
		Body     string `json:"Body"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	c, err := orchestrators.ExecutePostDietComment(r.Context(), domainDiet.Comment{
		MemberID: memberID,
		PlanID:   input.PlanID,
		Body:     input.Body,
	}, dietDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
