package diet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyMemberID   = errors.New("member ID cannot be empty")
	ErrNoPlan          = errors.New("member has no diet plan")
	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrNegativeValue   = errors.New("nutrient values cannot be negative")
	ErrEmptyMealName   = errors.New("meal name cannot be empty")
	ErrEmptyComment    = errors.New("comment cannot be empty")
	ErrEmptySupplement = errors.New("supplement name cannot be empty")
)

// Meal is one entry of a diet plan. Macros are grams.
type Meal struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Validate checks if the Meal has valid data.
func (m *Meal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyMealName
	}
	if m.Calories < 0 || m.Protein < 0 || m.Fat < 0 || m.Carbs < 0 {
		return ErrNegativeValue
	}
	return nil
}

// Plan is a personalised diet plan. The most recently assigned plan is current.
type Plan struct {
	ID           string
	MemberID     string
	Meals        []Meal
	CaloriesGoal int
	ProteinGoal  float64
	FatGoal      float64
	CarbsGoal    float64
	AssignedAt   time.Time
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Plan) Validate() error {
	if p.MemberID == "" {
		return ErrEmptyMemberID
	}
	if p.CaloriesGoal < 0 || p.ProteinGoal < 0 || p.FatGoal < 0 || p.CarbsGoal < 0 {
		return ErrNegativeValue
	}
	for i := range p.Meals {
		if err := p.Meals[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ExportCSV renders the plan's meals with header `Meal,Calories,Protein(g),Fat(g),Carbs(g)`.
func (p *Plan) ExportCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Meal", "Calories", "Protein(g)", "Fat(g)", "Carbs(g)"}); err != nil {
		return "", err
	}
	for _, m := range p.Meals {
		row := []string{m.Name, strconv.Itoa(m.Calories), formatGrams(m.Protein), formatGrams(m.Fat), formatGrams(m.Carbs)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func formatGrams(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}

// Key returns the per-day identity `memberId_date` used by intake logs.
func Key(memberID, date string) string {
	return memberID + "_" + date
}

// NutrientIntake is a member's macro intake for one day.
// INVARIANT: one per (MemberID, Date)
type NutrientIntake struct {
	MemberID string
	Date     string
	Calories int
	Protein  float64
	Fat      float64
	Carbs    float64
}

// Validate checks if the NutrientIntake has valid data.
func (n *NutrientIntake) Validate() error {
	if n.MemberID == "" {
		return ErrEmptyMemberID
	}
	if !validDate(n.Date) {
		return ErrInvalidDate
	}
	if n.Calories < 0 || n.Protein < 0 || n.Fat < 0 || n.Carbs < 0 {
		return ErrNegativeValue
	}
	return nil
}

// WaterIntake is a member's water intake for one day. A missing day reads as 0 liters.
type WaterIntake struct {
	MemberID string
	Date     string
	Liters   float64
}

// Validate checks if the WaterIntake has valid data.
func (w *WaterIntake) Validate() error {
	if w.MemberID == "" {
		return ErrEmptyMemberID
	}
	if !validDate(w.Date) {
		return ErrInvalidDate
	}
	if w.Liters < 0 {
		return ErrNegativeValue
	}
	return nil
}

// Recommendation is a supplement a trainer recommends to a member.
type Recommendation struct {
	ID        string
	MemberID  string
	Name      string
	Dosage    string
	StartDate string
	EndDate   string
}

// Validate checks if the Recommendation has valid data.
func (r *Recommendation) Validate() error {
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptySupplement
	}
	for _, d := range []string{r.StartDate, r.EndDate} {
		if d != "" && !validDate(d) {
			return ErrInvalidDate
		}
	}
	return nil
}

// FavoriteMeal is a meal a member bookmarked.
type FavoriteMeal struct {
	ID       string
	MemberID string
	Meal     Meal
	AddedAt  time.Time
}

// Comment is a member's note on a diet plan.
type Comment struct {
	ID       string
	MemberID string
	PlanID   string
	Body     string
	PostedAt time.Time
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(c.Body) == "" {
		return ErrEmptyComment
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
