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

// ScheduleWorkout appends a planned workout to the user's calendar.
type ScheduleWorkout struct{ records store.RecordStore }

func NewScheduleWorkout(records store.RecordStore) *ScheduleWorkout {
	return &ScheduleWorkout{records: records}
}

func (t *ScheduleWorkout) Name() string  { return "schedule_workout" }
func (t *ScheduleWorkout) Title() string { return "Schedule Workout" }
func (t *ScheduleWorkout) Description() string {
	return "Schedules a planned workout on the user's calendar for a future date."
}

func (t *ScheduleWorkout) InputSchema() *jsonschema.Schema {
	minDuration := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user scheduling the workout.",
			},
			"workout_date": {
				Type:        "string",
				Description: "The date of the planned workout, formatted YYYY-MM-DD.",
			},
			"time_of_day": {
				Type:        "string",
				Description: "When in the day the workout happens (e.g., 'morning', 'afternoon', 'evening').",
			},
			"workout_type": {
				Type:        "string",
				Description: "The type of workout (e.g., 'run', 'lift', 'cycle').",
			},
			"intensity": {
				Type:        "string",
				Description: "The planned intensity (e.g., 'low', 'medium', 'high').",
			},
			"duration_minutes": {
				Type:        "integer",
				Description: "The planned duration in minutes.",
				Minimum:     &minDuration,
			},
			"notes": {
				Type:        "string",
				Description: "Any additional notes about the planned workout.",
			},
		},
		Required: []string{"user_id", "workout_date", "time_of_day", "workout_type", "intensity"},
	}
}

func (t *ScheduleWorkout) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}
	date, ok := stringArg(input, "workout_date")
	if !ok {
		return errMissing("workout_date"), nil
	}
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return fmt.Sprintf("Error: '%s' is not a valid date; use YYYY-MM-DD.", date), nil
	}
	timeOfDay, ok := stringArg(input, "time_of_day")
	if !ok {
		return errMissing("time_of_day"), nil
	}
	workoutType, ok := stringArg(input, "workout_type")
	if !ok {
		return errMissing("workout_type"), nil
	}
	intensity, ok := stringArg(input, "intensity")
	if !ok {
		return errMissing("intensity"), nil
	}

	rec, err := t.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	item := store.ScheduledItem{
		ID:          uuid.NewString(),
		WorkoutDate: date,
		TimeOfDay:   timeOfDay,
		WorkoutType: workoutType,
		Intensity:   intensity,
	}
	if duration, ok := intArg(input, "duration_minutes"); ok {
		item.DurationMinutes = &duration
	}
	if notes, ok := stringArg(input, "notes"); ok {
		item.Notes = notes
	}

	rec.Calendar.ScheduledItems = append(rec.Calendar.ScheduledItems, item)
	if _, err := t.records.Update(ctx, userID, map[string]any{"calendar": rec.Calendar}); err != nil {
		return "", fmt.Errorf("save schedule for user %s: %w", userID, err)
	}

	return fmt.Sprintf("Successfully scheduled a %s workout for user %s on %s (%s).", workoutType, userID, date, timeOfDay), nil
}

// ScheduleMeal appends a planned meal to the user's calendar.
type ScheduleMeal struct{ records store.RecordStore }

func NewScheduleMeal(records store.RecordStore) *ScheduleMeal {
	return &ScheduleMeal{records: records}
}

func (t *ScheduleMeal) Name() string  { return "schedule_meal" }
func (t *ScheduleMeal) Title() string { return "Schedule Meal" }
func (t *ScheduleMeal) Description() string {
	return "Schedules a planned meal on the user's calendar for a future date."
}

func (t *ScheduleMeal) InputSchema() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user scheduling the meal.",
			},
			"meal_date": {
				Type:        "string",
				Description: "The date of the planned meal, formatted YYYY-MM-DD.",
			},
			"meal_type": {
				Type:        "string",
				Description: "The type of meal (e.g., 'breakfast', 'lunch', 'dinner', 'snack').",
			},
			"description": {
				Type:        "string",
				Description: "A description of the planned meal.",
			},
			"calories": {
				Type:        "integer",
				Description: "The estimated number of calories in the meal.",
				Minimum:     &zero,
			},
		},
		Required: []string{"user_id", "meal_date", "meal_type", "description"},
	}
}

func (t *ScheduleMeal) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}
	date, ok := stringArg(input, "meal_date")
	if !ok {
		return errMissing("meal_date"), nil
	}
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return fmt.Sprintf("Error: '%s' is not a valid date; use YYYY-MM-DD.", date), nil
	}
	mealType, ok := stringArg(input, "meal_type")
	if !ok {
		return errMissing("meal_type"), nil
	}
	description, ok := stringArg(input, "description")
	if !ok {
		return errMissing("description"), nil
	}

	rec, err := t.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	item := store.ScheduledItem{
		ID:          uuid.NewString(),
		MealDate:    date,
		MealType:    mealType,
		Description: description,
	}
	if calories, ok := intArg(input, "calories"); ok {
		item.Calories = &calories
	}

	rec.Calendar.ScheduledItems = append(rec.Calendar.ScheduledItems, item)
	if _, err := t.records.Update(ctx, userID, map[string]any{"calendar": rec.Calendar}); err != nil {
		return "", fmt.Errorf("save schedule for user %s: %w", userID, err)
	}

	return fmt.Sprintf("Successfully scheduled a %s for user %s on %s.", mealType, userID, date), nil
}
