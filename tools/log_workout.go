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

type LogWorkout struct{ records store.RecordStore }

func NewLogWorkout(records store.RecordStore) *LogWorkout { return &LogWorkout{records: records} }

func (t *LogWorkout) Name() string  { return "log_workout" }
func (t *LogWorkout) Title() string { return "Log Workout" }
func (t *LogWorkout) Description() string {
	return "Logs a completed workout to the user's workout history."
}

func (t *LogWorkout) InputSchema() *jsonschema.Schema {
	minDuration := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user logging the workout.",
			},
			"workout_type": {
				Type:        "string",
				Description: "The type of workout (e.g., 'run', 'lift', 'cycle').",
			},
			"duration_minutes": {
				Type:        "integer",
				Description: "The duration of the workout in minutes.",
				Minimum:     &minDuration,
			},
			"calories_burned": {
				Type:        "integer",
				Description: "The number of calories burned during the workout.",
			},
			"notes": {
				Type:        "string",
				Description: "Any additional notes about the workout.",
			},
		},
		Required: []string{"user_id", "workout_type", "duration_minutes"},
	}
}

func (t *LogWorkout) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}
	workoutType, ok := stringArg(input, "workout_type")
	if !ok {
		return errMissing("workout_type"), nil
	}
	duration, ok := intArg(input, "duration_minutes")
	if !ok || duration <= 0 {
		return errMissing("duration_minutes"), nil
	}

	rec, err := t.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	entry := store.Workout{
		ID:              uuid.NewString(),
		Date:            time.Now().UTC(),
		Type:            workoutType,
		DurationMinutes: duration,
	}
	if burned, ok := intArg(input, "calories_burned"); ok {
		entry.CaloriesBurned = &burned
	}
	if notes, ok := stringArg(input, "notes"); ok {
		entry.Notes = notes
	}

	rec.Workouts.LoggedWorkouts = append(rec.Workouts.LoggedWorkouts, entry)
	if _, err := t.records.Update(ctx, userID, map[string]any{"workouts": rec.Workouts}); err != nil {
		return "", fmt.Errorf("save workout for user %s: %w", userID, err)
	}

	return fmt.Sprintf("Successfully logged a %d-minute %s workout for user %s.", duration, workoutType, userID), nil
}
