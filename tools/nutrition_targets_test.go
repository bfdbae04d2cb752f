package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNutritionTargets_Run(t *testing.T) {
	s := newTestStore(t, "u1")
	_, err := s.Update(context.Background(), "u1", map[string]any{
		"profile": map[string]any{
			"age":            30,
			"gender":         "male",
			"height_cm":      180.0,
			"weight_kg":      80.0,
			"activity_level": "moderately_active",
		},
		"goals": map[string]any{"primary_goal": "muscle_gain"},
	})
	require.NoError(t, err)

	tool := NewGetNutritionTargets(s)

	t.Run("computes goal-adjusted targets from the profile", func(t *testing.T) {
		result, err := tool.Run(context.Background(), map[string]any{"user_id": "u1"})
		require.NoError(t, err)

		var got nutritionTargets
		require.NoError(t, json.Unmarshal([]byte(result), &got))

		// BMR 1780, TDEE 1780*1.55 = 2759, +300 for muscle gain = 3059
		assert.Equal(t, 1780, got.BMR)
		assert.Equal(t, 2759, got.TDEE)
		assert.Equal(t, 3059, got.DailyCalories)
		assert.InDelta(t, 191.2, got.DailyProteinG, 0.001)
		assert.InDelta(t, 344.1, got.DailyCarbsG, 0.001)
		assert.InDelta(t, 102.0, got.DailyFatG, 0.001)
		assert.InDelta(t, 1.8, got.ProteinPerKG, 0.001)
		assert.InDelta(t, 144.0, got.MinProteinG, 0.001)
	})

	t.Run("bootstrap defaults use the maintenance goal", func(t *testing.T) {
		s2 := newTestStore(t, "u2")
		result, err := NewGetNutritionTargets(s2).Run(context.Background(), map[string]any{"user_id": "u2"})
		require.NoError(t, err)

		var got nutritionTargets
		require.NoError(t, json.Unmarshal([]byte(result), &got))

		// bootstrap defaults: 70 kg, 170 cm, age 25, female formula, moderately active
		assert.Equal(t, 1477, got.BMR)
		assert.Equal(t, 2289, got.TDEE)
		assert.Equal(t, got.TDEE, got.DailyCalories)
		assert.InDelta(t, 1.4, got.ProteinPerKG, 0.001)
		assert.InDelta(t, 98.0, got.MinProteinG, 0.001)
	})

	t.Run("unknown user", func(t *testing.T) {
		result, err := tool.Run(context.Background(), map[string]any{"user_id": "ghost"})
		require.NoError(t, err)
		assert.Equal(t, "Error: User with ID 'ghost' not found.", result)
	})

	t.Run("missing user id", func(t *testing.T) {
		result, err := tool.Run(context.Background(), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "Error: Missing or invalid required field 'user_id'.", result)
	})
}
