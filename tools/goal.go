package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"fuelyt"
	"fuelyt/store"
)

type CreateOrUpdateGoal struct{ records store.RecordStore }

func NewCreateOrUpdateGoal(records store.RecordStore) *CreateOrUpdateGoal {
	return &CreateOrUpdateGoal{records: records}
}

func (t *CreateOrUpdateGoal) Name() string  { return "create_or_update_goal" }
func (t *CreateOrUpdateGoal) Title() string { return "Create or Update Goal" }
func (t *CreateOrUpdateGoal) Description() string {
	return "Creates or updates the user's fitness goals. Only the provided fields change."
}

func (t *CreateOrUpdateGoal) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user whose goal is being updated.",
			},
			"primary_goal": {
				Type:        "string",
				Description: "The user's primary fitness goal (e.g., 'weight_loss', 'muscle_gain').",
				Enum: []any{
					fuelyt.GoalWeightLoss, fuelyt.GoalMuscleGain, fuelyt.GoalEndurance,
					fuelyt.GoalStrength, fuelyt.GoalMaintenance, fuelyt.GoalPerformance,
				},
			},
			"target_weight_kg": {
				Type:        "number",
				Description: "The user's target weight in kilograms.",
			},
			"daily_calorie_target": {
				Type:        "number",
				Description: "The user's daily calorie target.",
			},
		},
		Required: []string{"user_id"},
	}
}

func (t *CreateOrUpdateGoal) Run(ctx context.Context, input map[string]any) (string, error) {
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

	if goal, ok := stringArg(input, "primary_goal"); ok {
		if !fuelyt.ValidGoal(goal) {
			return fmt.Sprintf("Error: '%s' is not a recognized primary goal.", goal), nil
		}
		rec.Goals.PrimaryGoal = goal
	}
	if weight, ok := floatArg(input, "target_weight_kg"); ok {
		rec.Goals.TargetWeightKG = &weight
	}
	if calories, ok := floatArg(input, "daily_calorie_target"); ok {
		rec.Goals.DailyCalorieTarget = &calories
	}

	if _, err := t.records.Update(ctx, userID, map[string]any{"goals": rec.Goals}); err != nil {
		return "", fmt.Errorf("save goals for user %s: %w", userID, err)
	}

	return fmt.Sprintf("Successfully updated goals for user %s.", userID), nil
}
