package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"fuelyt/store"
)

// GetSchedule reports calendar items within an inclusive date window.
type GetSchedule struct{ records store.RecordStore }

func NewGetSchedule(records store.RecordStore) *GetSchedule {
	return &GetSchedule{records: records}
}

func (t *GetSchedule) Name() string  { return "get_schedule" }
func (t *GetSchedule) Title() string { return "Get Schedule" }
func (t *GetSchedule) Description() string {
	return "Returns the user's scheduled workouts and meals between start_date and end_date inclusive. end_date defaults to start_date."
}

func (t *GetSchedule) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_id": {
				Type:        "string",
				Description: "The ID of the user whose schedule to look up.",
			},
			"start_date": {
				Type:        "string",
				Description: "The first date of the window, formatted YYYY-MM-DD.",
			},
			"end_date": {
				Type:        "string",
				Description: "The last date of the window, formatted YYYY-MM-DD. Defaults to start_date.",
			},
		},
		Required: []string{"user_id", "start_date"},
	}
}

func (t *GetSchedule) Run(ctx context.Context, input map[string]any) (string, error) {
	userID, ok := stringArg(input, "user_id")
	if !ok {
		return errMissing("user_id"), nil
	}
	startRaw, ok := stringArg(input, "start_date")
	if !ok {
		return errMissing("start_date"), nil
	}
	start, err := time.Parse(store.DateLayout, startRaw)
	if err != nil {
		return fmt.Sprintf("Error: '%s' is not a valid date; use YYYY-MM-DD.", startRaw), nil
	}
	end := start
	if endRaw, ok := stringArg(input, "end_date"); ok {
		end, err = time.Parse(store.DateLayout, endRaw)
		if err != nil {
			return fmt.Sprintf("Error: '%s' is not a valid date; use YYYY-MM-DD.", endRaw), nil
		}
	}
	if end.Before(start) {
		return "Error: end_date must not be before start_date.", nil
	}

	rec, err := t.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return errUserNotFound(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	matched := []store.ScheduledItem{}
	for _, item := range rec.Calendar.ScheduledItems {
		day, err := time.Parse(store.DateLayout, item.Date())
		if err != nil {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		matched = append(matched, item)
	}

	if len(matched) == 0 {
		return fmt.Sprintf("No scheduled items found for user %s between %s and %s.",
			userID, start.Format(store.DateLayout), end.Format(store.DateLayout)), nil
	}

	b, err := json.Marshal(matched)
	if err != nil {
		return "", fmt.Errorf("encode schedule for user %s: %w", userID, err)
	}
	return string(b), nil
}
