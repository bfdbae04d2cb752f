package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelyt/store"
)

func TestLogMeal_Run(t *testing.T) {
	tests := []struct {
		name       string
		input      map[string]any
		wantResult string
	}{
		{
			name: "happy path",
			input: map[string]any{
				"user_id":     "u1",
				"meal_type":   "lunch",
				"description": "chicken salad",
				"calories":    520.0,
				"protein_g":   42.0,
			},
			wantResult: "Successfully logged a lunch for user u1.",
		},
		{
			name: "unknown user",
			input: map[string]any{
				"user_id":     "ghost",
				"meal_type":   "lunch",
				"description": "chicken salad",
			},
			wantResult: "Error: User with ID 'ghost' not found.",
		},
		{
			name: "missing description",
			input: map[string]any{
				"user_id":   "u1",
				"meal_type": "lunch",
			},
			wantResult: "Error: Missing or invalid required field 'description'.",
		},
		{
			name: "negative macros rejected",
			input: map[string]any{
				"user_id":     "u1",
				"meal_type":   "snack",
				"description": "protein bar",
				"protein_g":   -5.0,
			},
			wantResult: "Error: 'protein_g' must not be negative.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, "u1")
			tool := NewLogMeal(s)

			got, err := tool.Run(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got)
		})
	}
}

func TestLogMeal_DailyTotalsRecomputed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "u1")
	tool := NewLogMeal(s)

	meals := []map[string]any{
		{"user_id": "u1", "meal_type": "breakfast", "description": "oats", "calories": 350.0, "protein_g": 12.0, "carbs_g": 60.0, "fat_g": 6.0},
		{"user_id": "u1", "meal_type": "lunch", "description": "chicken salad", "calories": 520.0, "protein_g": 42.0, "carbs_g": 20.0, "fat_g": 28.0},
	}
	for _, input := range meals {
		_, err := tool.Run(ctx, input)
		require.NoError(t, err)
	}

	rec, err := s.Get(ctx, "u1")
	require.NoError(t, err)

	today := time.Now().UTC().Format(store.DateLayout)
	day := rec.Nutrition.DayLog(today)
	require.NotNil(t, day, "today's aggregate should exist")
	require.Len(t, day.Meals, 2)

	// Totals must equal the sum of the meals, recomputed.
	assert.Equal(t, 870.0, day.DailyTotals.Calories)
	assert.Equal(t, 54.0, day.DailyTotals.ProteinG)
	assert.Equal(t, 80.0, day.DailyTotals.CarbsG)
	assert.Equal(t, 34.0, day.DailyTotals.FatG)

	// Only one aggregate for today regardless of meal count.
	require.Len(t, rec.Nutrition.DailyLogs, 1)
}
