package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"fuelyt"
	"fuelyt/store"
)

// GetNutritionTargets computes the user's personalized daily nutrition
// requirements from their profile and primary goal: BMR, TDEE, a
// goal-adjusted calorie target, and macro gram targets.
type GetNutritionTargets struct{ records store.RecordStore }

func NewGetNutritionTargets(records store.RecordStore) *GetNutritionTargets {
	return &GetNutritionTargets{records: records}
}

func (t *GetNutritionTargets) Name() string  { return "get_nutrition_targets" }
func (t *GetNutritionTargets) Title() string { return "Get Nutrition Targets" }
func (t *GetNutritionTargets) Description() string {
	return "Calculates the user's daily calorie and macro targets from their profile, activity level, and primary goal."
}

func (t *GetNutritionTargets) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user to calculate targets for.",
			},
		},
		Required: []string{"user_id"},
	}
}

// nutritionTargets is the tool's JSON result payload.
type nutritionTargets struct {
	DailyCalories int     `json:"daily_calories"`
	DailyProteinG float64 `json:"daily_protein_g"`
	DailyCarbsG   float64 `json:"daily_carbs_g"`
	DailyFatG     float64 `json:"daily_fat_g"`
	BMR           int     `json:"bmr"`
	TDEE          int     `json:"tdee"`
	ProteinPerKG  float64 `json:"protein_per_kg"`
	MinProteinG   float64 `json:"min_protein_g"`
}

func (t *GetNutritionTargets) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}

	rec, err := t.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	targets := computeNutritionTargets(rec.Profile, rec.Goals.PrimaryGoal)
	b, err := json.Marshal(targets)
	if err != nil {
		return "", fmt.Errorf("encode nutrition targets for user %s: %w", userID, err)
	}
	return string(b), nil
}

// computeNutritionTargets derives the daily requirements for a profile and
// primary goal. An empty or unrecognized goal is treated as maintenance.
func computeNutritionTargets(profile store.Profile, goal string) nutritionTargets {
	if !fuelyt.ValidGoal(goal) {
		goal = fuelyt.GoalMaintenance
	}

	bmr := fuelyt.CalculateBMR(profile.WeightKG, profile.HeightCM, profile.Age, profile.Gender)
	tdee := fuelyt.CalculateTDEE(bmr, profile.ActivityLevel)
	adjusted := tdee + fuelyt.GoalCalorieAdjustment(goal)
	macros := fuelyt.MacroTargetsFor(goal, adjusted)
	perKG := fuelyt.ProteinPerKG(goal)

	return nutritionTargets{
		DailyCalories: int(math.Round(adjusted)),
		DailyProteinG: round1(macros.ProteinG),
		DailyCarbsG:   round1(macros.CarbsG),
		DailyFatG:     round1(macros.FatG),
		BMR:           int(math.Round(bmr)),
		TDEE:          int(math.Round(tdee)),
		ProteinPerKG:  perKG,
		MinProteinG:   round1(profile.WeightKG * perKG),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
