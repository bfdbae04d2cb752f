package store

import (
	"fmt"
	"math"
	"time"

	"fuelyt"
)

// DateLayout is the day-granularity format used for nutrition logs and
// scheduled items.
const DateLayout = "2006-01-02"

type Profile struct {
	Name                string   `json:"name"`
	Age                 int      `json:"age"`
	Gender              string   `json:"gender"`
	HeightCM            float64  `json:"height_cm"`
	WeightKG            float64  `json:"weight_kg"`
	ActivityLevel       string   `json:"activity_level"`
	Sport               string   `json:"sport,omitempty"`
	ExperienceLevel     string   `json:"experience_level,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
}

type Goals struct {
	PrimaryGoal        string               `json:"primary_goal"`
	TargetWeightKG     *float64             `json:"target_weight_kg,omitempty"`
	DailyCalorieTarget *float64             `json:"daily_calorie_target,omitempty"`
	MacroTargets       *fuelyt.MacroTargets `json:"macro_targets,omitempty"`
}

// Workout is one append-only entry in the logged workout history.
type Workout struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Type            string    `json:"workout_type"`
	DurationMinutes int       `json:"duration_minutes"`
	CaloriesBurned  *int      `json:"calories_burned,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

type Workouts struct {
	LoggedWorkouts  []Workout       `json:"logged_workouts"`
	PlannedWorkouts []ScheduledItem `json:"planned_workouts"`
}

type Meal struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	MealType    string    `json:"meal_type"`
	Description string    `json:"description"`
	Calories    float64   `json:"calories"`
	ProteinG    float64   `json:"protein_g"`
	CarbsG      float64   `json:"carbs_g"`
	FatG        float64   `json:"fat_g"`
}

type DailyTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// DailyLog aggregates all meals for one calendar day. DailyTotals is always
// recomputed from the meal list, never adjusted incrementally.
type DailyLog struct {
	Date        string      `json:"date"`
	Meals       []Meal      `json:"meals"`
	DailyTotals DailyTotals `json:"daily_totals"`
}

// Recompute recalculates the daily totals from the meal list.
func (d *DailyLog) Recompute() {
	totals := DailyTotals{}
	for _, m := range d.Meals {
		totals.Calories += m.Calories
		totals.ProteinG += m.ProteinG
		totals.CarbsG += m.CarbsG
		totals.FatG += m.FatG
	}
	d.DailyTotals = totals
}

type MealPlan struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Nutrition struct {
	DailyLogs     []DailyLog `json:"daily_logs"`
	FavoriteFoods []string   `json:"favorite_foods"`
	MealPlans     []MealPlan `json:"meal_plans"`
}

// DayLog returns the log for the given date, or nil if the day has no
// entries yet.
func (n *Nutrition) DayLog(date string) *DailyLog {
	for i := range n.DailyLogs {
		if n.DailyLogs[i].Date == date {
			return &n.DailyLogs[i]
		}
	}
	return nil
}

// ScheduledItem is a calendar entry: a planned workout when WorkoutDate is
// set, a planned meal when MealDate is set.
type ScheduledItem struct {
	ID              string `json:"id"`
	WorkoutDate     string `json:"workout_date,omitempty"`
	TimeOfDay       string `json:"time_of_day,omitempty"`
	WorkoutType     string `json:"workout_type,omitempty"`
	Intensity       string `json:"intensity,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	MealDate        string `json:"meal_date,omitempty"`
	MealType        string `json:"meal_type,omitempty"`
	Description     string `json:"description,omitempty"`
	Calories        *int   `json:"calories,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Date returns whichever date field is present on the item.
func (s ScheduledItem) Date() string {
	if s.WorkoutDate != "" {
		return s.WorkoutDate
	}
	return s.MealDate
}

type Calendar struct {
	ScheduledItems []ScheduledItem `json:"scheduled_items"`
}

type Conversation struct {
	Timestamp     time.Time `json:"timestamp"`
	UserMessage   string    `json:"user_message"`
	AgentResponse string    `json:"agent_response"`
}

type AIContext struct {
	ConversationHistory []Conversation `json:"conversation_history"`
	PreferencesLearned  map[string]any `json:"preferences_learned"`
}

// UserRecord is the per-user root aggregate. Every section is populated
// with empty-but-present containers on creation so downstream code can
// append without existence checks.
type UserRecord struct {
	UserID    string    `json:"user_id"`
	Profile   Profile   `json:"profile"`
	Goals     Goals     `json:"goals"`
	Workouts  Workouts  `json:"workouts"`
	Nutrition Nutrition `json:"nutrition"`
	Calendar  Calendar  `json:"calendar"`
	AIContext AIContext `json:"ai_context"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultProfile returns the documented bootstrap profile for first-contact
// users.
func DefaultProfile(userID string) Profile {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return Profile{
		Name:                fmt.Sprintf("User %s", short),
		Age:                 25,
		Gender:              "not_specified",
		HeightCM:            170.0,
		WeightKG:            70.0,
		ActivityLevel:       fuelyt.ActivityModeratelyActive,
		ExperienceLevel:     "beginner",
		DietaryRestrictions: []string{},
		Allergies:           []string{},
	}
}

// NewUserRecord builds a fully-populated record for userID. A nil profile
// selects the defaults; the daily calorie target is derived from the
// profile via Mifflin-St Jeor.
func NewUserRecord(userID string, profile *Profile) *UserRecord {
	p := DefaultProfile(userID)
	if profile != nil {
		p = *profile
		if p.DietaryRestrictions == nil {
			p.DietaryRestrictions = []string{}
		}
		if p.Allergies == nil {
			p.Allergies = []string{}
		}
	}

	bmr := fuelyt.CalculateBMR(p.WeightKG, p.HeightCM, p.Age, p.Gender)
	calories := math.Round(fuelyt.CalculateTDEE(bmr, p.ActivityLevel))
	macros := fuelyt.MacroTargetsFor(fuelyt.GoalMaintenance, calories)
	targetWeight := p.WeightKG

	now := time.Now().UTC()
	return &UserRecord{
		UserID:  userID,
		Profile: p,
		Goals: Goals{
			PrimaryGoal:        fuelyt.GoalMaintenance,
			TargetWeightKG:     &targetWeight,
			DailyCalorieTarget: &calories,
			MacroTargets:       &macros,
		},
		Workouts: Workouts{
			LoggedWorkouts:  []Workout{},
			PlannedWorkouts: []ScheduledItem{},
		},
		Nutrition: Nutrition{
			DailyLogs:     []DailyLog{},
			FavoriteFoods: []string{},
			MealPlans:     []MealPlan{},
		},
		Calendar: Calendar{
			ScheduledItems: []ScheduledItem{},
		},
		AIContext: AIContext{
			ConversationHistory: []Conversation{},
			PreferencesLearned:  map[string]any{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
