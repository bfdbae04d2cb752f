package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"fuelyt/store"
)

type LogMeal struct{ records store.RecordStore }

func NewLogMeal(records store.RecordStore) *LogMeal { return &LogMeal{records: records} }

func (t *LogMeal) Name() string  { return "log_meal" }
func (t *LogMeal) Title() string { return "Log Meal" }
func (t *LogMeal) Description() string {
	return "Logs a meal to the user's nutrition log for today, updating the daily totals."
}

func (t *LogMeal) InputSchema() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user logging the meal.",
			},
			"meal_type": {
				Type:        "string",
				Description: "The type of meal (e.g., 'breakfast', 'lunch', 'dinner', 'snack').",
			},
			"description": {
				Type:        "string",
				Description: "A description of the meal.",
			},
			"calories": {
				Type:        "number",
				Description: "The estimated number of calories in the meal.",
				Minimum:     &zero,
			},
			"protein_g": {
				Type:        "number",
				Description: "The estimated grams of protein.",
				Minimum:     &zero,
			},
			"carbs_g": {
				Type:        "number",
				Description: "The estimated grams of carbohydrates.",
				Minimum:     &zero,
			},
			"fat_g": {
				Type:        "number",
				Description: "The estimated grams of fat.",
				Minimum:     &zero,
			},
		},
		Required: []string{"user_id", "meal_type", "description"},
	}
}

func (t *LogMeal) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}
	mealType, ok := stringArg(input, "meal_type")
	if !ok {
		return errMissing("meal_type"), nil
	}
	description, ok := stringArg(input, "description")
	if !ok {
		return errMissing("description"), nil
	}

	meal := store.Meal{
		ID:          uuid.NewString(),
		Time:        time.Now().UTC(),
		MealType:    mealType,
		Description: description,
	}
	for key, dst := range map[string]*float64{
		"calories":  &meal.Calories,
		"protein_g": &meal.ProteinG,
		"carbs_g":   &meal.CarbsG,
		"fat_g":     &meal.FatG,
	} {
		v, present := floatArg(input, key)
		if !present {
			continue
		}
		if v < 0 {
			return fmt.Sprintf("Error: '%s' must not be negative.", key), nil
		}
		*dst = v
	}

	rec, err := t.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	today := meal.Time.Format(store.DateLayout)
	day := rec.Nutrition.DayLog(today)
	if day == nil {
		rec.Nutrition.DailyLogs = append(rec.Nutrition.DailyLogs, store.DailyLog{
			Date:  today,
			Meals: []store.Meal{},
		})
		day = &rec.Nutrition.DailyLogs[len(rec.Nutrition.DailyLogs)-1]
	}
	day.Meals = append(day.Meals, meal)
	day.Recompute()

	if _, err := t.records.Update(ctx, userID, map[string]any{"nutrition": rec.Nutrition}); err != nil {
		return "", fmt.Errorf("save meal for user %s: %w", userID, err)
	}

	return fmt.Sprintf("Successfully logged a %s for user %s.", mealType, userID), nil
}
