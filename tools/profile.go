package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"fuelyt"
	"fuelyt/store"
)

type UpdateUserProfile struct{ records store.RecordStore }

func NewUpdateUserProfile(records store.RecordStore) *UpdateUserProfile {
	return &UpdateUserProfile{records: records}
}

func (t *UpdateUserProfile) Name() string  { return "update_user_profile" }
func (t *UpdateUserProfile) Title() string { return "Update User Profile" }
func (t *UpdateUserProfile) Description() string {
	return "Updates the user's profile information. Only the provided fields change."
}

func (t *UpdateUserProfile) InputSchema() *jsonschema.Schema {
	minAge, maxAge := 13.0, 100.0
	minWeight, maxWeight := 30.0, 300.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user to update.",
			},
			"name": {
				Type:        "string",
				Description: "The user's name.",
			},
			"age": {
				Type:        "integer",
				Description: "The user's age.",
				Minimum:     &minAge,
				Maximum:     &maxAge,
			},
			"gender": {
				Type:        "string",
				Description: "The user's gender.",
			},
			"height_cm": {
				Type:        "number",
				Description: "The user's height in centimeters.",
			},
			"weight_kg": {
				Type:        "number",
				Description: "The user's weight in kilograms.",
				Minimum:     &minWeight,
				Maximum:     &maxWeight,
			},
			"activity_level": {
				Type:        "string",
				Description: "The user's activity level.",
				Enum: []any{
					fuelyt.ActivitySedentary, fuelyt.ActivityLightlyActive,
					fuelyt.ActivityModeratelyActive, fuelyt.ActivityVeryActive,
					fuelyt.ActivityExtremelyActive,
				},
			},
			"sport": {
				Type:        "string",
				Description: "The user's primary sport.",
			},
			"experience_level": {
				Type:        "string",
				Description: "The user's experience level.",
			},
			"dietary_restrictions": {
				Type:        "array",
				Description: "A list of dietary restrictions.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"allergies": {
				Type:        "array",
				Description: "A list of allergies.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"user_id"},
	}
}

func (t *UpdateUserProfile) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}

	if _, err := t.records.Get(ctx, userID); errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	} else if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	fields := map[string]any{}
	if name, ok := stringArg(input, "name"); ok {
		fields["name"] = name
	}
	if age, ok := intArg(input, "age"); ok {
		if age < 13 || age > 100 {
			return "Error: 'age' must be between 13 and 100.", nil
		}
		fields["age"] = age
	}
	if gender, ok := stringArg(input, "gender"); ok {
		fields["gender"] = gender
	}
	if height, ok := floatArg(input, "height_cm"); ok {
		fields["height_cm"] = height
	}
	if weight, ok := floatArg(input, "weight_kg"); ok {
		if weight < 30 || weight > 300 {
			return "Error: 'weight_kg' must be between 30 and 300.", nil
		}
		fields["weight_kg"] = weight
	}
	if level, ok := stringArg(input, "activity_level"); ok {
		if !fuelyt.ValidActivityLevel(level) {
			return fmt.Sprintf("Error: '%s' is not a recognized activity level.", level), nil
		}
		fields["activity_level"] = level
	}
	if sport, ok := stringArg(input, "sport"); ok {
		fields["sport"] = sport
	}
	if exp, ok := stringArg(input, "experience_level"); ok {
		fields["experience_level"] = exp
	}
	if restrictions, ok := stringsArg(input, "dietary_restrictions"); ok {
		fields["dietary_restrictions"] = restrictions
	}
	if allergies, ok := stringsArg(input, "allergies"); ok {
		fields["allergies"] = allergies
	}

	if len(fields) == 0 {
		return "No profile fields to update.", nil
	}

	if _, err := t.records.Update(ctx, userID, map[string]any{"profile": fields}); err != nil {
		return "", fmt.Errorf("save profile for user %s: %w", userID, err)
	}

	return fmt.Sprintf("Successfully updated profile for user %s.", userID), nil
}
