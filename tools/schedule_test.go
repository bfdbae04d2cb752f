package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelyt/store"
)

func TestScheduleWorkout_Run(t *testing.T) {
	tests := []struct {
		name       string
		input      map[string]any
		wantResult string
	}{
		{
			name: "happy path",
			input: map[string]any{
				"user_id":      "u1",
				"workout_date": "2026-09-01",
				"time_of_day":  "morning",
				"workout_type": "intervals",
				"intensity":    "high",
			},
			wantResult: "Successfully scheduled a intervals workout for user u1 on 2026-09-01 (morning).",
		},
		{
			name: "bad date",
			input: map[string]any{
				"user_id":      "u1",
				"workout_date": "next tuesday",
				"time_of_day":  "morning",
				"workout_type": "run",
				"intensity":    "low",
			},
			wantResult: "Error: 'next tuesday' is not a valid date; use YYYY-MM-DD.",
		},
		{
			name: "unknown user",
			input: map[string]any{
				"user_id":      "ghost",
				"workout_date": "2026-09-01",
				"time_of_day":  "morning",
				"workout_type": "run",
				"intensity":    "low",
			},
			wantResult: "Error: User with ID 'ghost' not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, "u1")
			tool := NewScheduleWorkout(s)

			got, err := tool.Run(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got)
		})
	}
}

func TestScheduleMeal_Run(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "u1")
	tool := NewScheduleMeal(s)

	got, err := tool.Run(ctx, map[string]any{
		"user_id":     "u1",
		"meal_date":   "2026-09-02",
		"meal_type":   "dinner",
		"description": "salmon and rice",
		"calories":    700.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully scheduled a dinner for user u1 on 2026-09-02.", got)

	rec, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec.Calendar.ScheduledItems, 1)

	item := rec.Calendar.ScheduledItems[0]
	assert.Equal(t, "2026-09-02", item.MealDate)
	assert.Empty(t, item.WorkoutDate)
	assert.Equal(t, "2026-09-02", item.Date())
}

func TestGetSchedule_Run(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "u1")

	seed := []map[string]any{
		{"user_id": "u1", "workout_date": "2026-09-01", "time_of_day": "morning", "workout_type": "run", "intensity": "low"},
		{"user_id": "u1", "workout_date": "2026-09-03", "time_of_day": "evening", "workout_type": "lift", "intensity": "high"},
	}
	sw := NewScheduleWorkout(s)
	for _, input := range seed {
		_, err := sw.Run(ctx, input)
		require.NoError(t, err)
	}
	sm := NewScheduleMeal(s)
	_, err := sm.Run(ctx, map[string]any{
		"user_id": "u1", "meal_date": "2026-09-02", "meal_type": "lunch", "description": "wrap",
	})
	require.NoError(t, err)

	tool := NewGetSchedule(s)

	t.Run("window is inclusive on both ends", func(t *testing.T) {
		got, err := tool.Run(ctx, map[string]any{
			"user_id": "u1", "start_date": "2026-09-01", "end_date": "2026-09-03",
		})
		require.NoError(t, err)

		var items []store.ScheduledItem
		require.NoError(t, json.Unmarshal([]byte(got), &items))
		assert.Len(t, items, 3)
	})

	t.Run("end date defaults to start date", func(t *testing.T) {
		got, err := tool.Run(ctx, map[string]any{
			"user_id": "u1", "start_date": "2026-09-02",
		})
		require.NoError(t, err)

		var items []store.ScheduledItem
		require.NoError(t, json.Unmarshal([]byte(got), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "lunch", items[0].MealType)
	})

	t.Run("empty window reports none found", func(t *testing.T) {
		got, err := tool.Run(ctx, map[string]any{
			"user_id": "u1", "start_date": "2026-10-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "No scheduled items found for user u1 between 2026-10-01 and 2026-10-01.", got)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		got, err := tool.Run(ctx, map[string]any{
			"user_id": "u1", "start_date": "2026-09-03", "end_date": "2026-09-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "Error: end_date must not be before start_date.", got)
	})
}

func TestRegistry(t *testing.T) {
	s := newTestStore(t)
	registry, err := NewRegistry(s)
	require.NoError(t, err)

	names := []string{}
	for _, tool := range registry.GetTools() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		"create_or_update_goal",
		"get_nutrition_targets",
		"get_schedule",
		"log_meal",
		"log_workout",
		"schedule_meal",
		"schedule_workout",
		"update_user_profile",
	}, names)

	tool, err := registry.GetTool("log_workout")
	require.NoError(t, err)
	assert.Equal(t, "log_workout", tool.Name())

	_, err = registry.GetTool("nope")
	assert.Error(t, err)
}
