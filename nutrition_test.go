package fuelyt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBMR(t *testing.T) {
	tests := []struct {
		name     string
		weightKG float64
		heightCM float64
		age      int
		gender   string
		want     float64
	}{
		{
			name:     "male",
			weightKG: 80,
			heightCM: 180,
			age:      30,
			gender:   "male",
			want:     10*80 + 6.25*180 - 5*30 + 5,
		},
		{
			name:     "female",
			weightKG: 60,
			heightCM: 165,
			age:      28,
			gender:   "female",
			want:     10*60 + 6.25*165 - 5*28 - 161,
		},
		{
			name:     "gender is case insensitive",
			weightKG: 80,
			heightCM: 180,
			age:      30,
			gender:   "Male",
			want:     10*80 + 6.25*180 - 5*30 + 5,
		},
		{
			name:     "unknown gender uses the female formula",
			weightKG: 70,
			heightCM: 170,
			age:      25,
			gender:   "",
			want:     10*70 + 6.25*170 - 5*25 - 161,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBMR(tt.weightKG, tt.heightCM, tt.age, tt.gender)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestCalculateTDEE(t *testing.T) {
	const bmr = 1700.0

	tests := []struct {
		name          string
		activityLevel string
		want          float64
	}{
		{name: "sedentary", activityLevel: ActivitySedentary, want: bmr * 1.2},
		{name: "moderately active", activityLevel: ActivityModeratelyActive, want: bmr * 1.55},
		{name: "extremely active", activityLevel: ActivityExtremelyActive, want: bmr * 1.9},
		{name: "unknown level falls back to moderately active", activityLevel: "couch_potato", want: bmr * 1.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateTDEE(bmr, tt.activityLevel), 0.001)
		})
	}
}

func TestMacroTargetsFor(t *testing.T) {
	tests := []struct {
		name     string
		goal     string
		calories float64
		want     MacroTargets
	}{
		{
			name:     "weight loss",
			goal:     GoalWeightLoss,
			calories: 2000,
			want:     MacroTargets{ProteinG: 150, CarbsG: 200, FatG: 66.667},
		},
		{
			name:     "endurance favors carbs",
			goal:     GoalEndurance,
			calories: 2400,
			want:     MacroTargets{ProteinG: 90, CarbsG: 390, FatG: 53.333},
		},
		{
			name:     "unknown goal uses the maintenance split",
			goal:     "get_swole",
			calories: 2000,
			want:     MacroTargets{ProteinG: 100, CarbsG: 250, FatG: 66.667},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MacroTargetsFor(tt.goal, tt.calories)
			assert.InDelta(t, tt.want.ProteinG, got.ProteinG, 0.001)
			assert.InDelta(t, tt.want.CarbsG, got.CarbsG, 0.001)
			assert.InDelta(t, tt.want.FatG, got.FatG, 0.001)
		})
	}
}

func TestProteinPerKG(t *testing.T) {
	assert.Equal(t, 2.0, ProteinPerKG(GoalWeightLoss))
	assert.Equal(t, 1.8, ProteinPerKG(GoalMuscleGain))
	assert.Equal(t, 1.4, ProteinPerKG("unknown"))
}

func TestValidGoal(t *testing.T) {
	assert.True(t, ValidGoal(GoalStrength))
	assert.False(t, ValidGoal("bulking"))
	assert.False(t, ValidGoal(""))
}

func TestValidActivityLevel(t *testing.T) {
	assert.True(t, ValidActivityLevel(ActivityVeryActive))
	assert.False(t, ValidActivityLevel("hyperactive"))
}
