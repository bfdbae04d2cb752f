package fuelyt

import "strings"

// Nutrition planning constants. Calorie math uses the Mifflin-St Jeor
// equation; macro splits and protein requirements vary by primary goal.

const (
	ProteinCaloriesPerGram = 4
	CarbCaloriesPerGram    = 4
	FatCaloriesPerGram     = 9
)

const (
	GoalWeightLoss  = "weight_loss"
	GoalMuscleGain  = "muscle_gain"
	GoalEndurance   = "endurance"
	GoalStrength    = "strength"
	GoalMaintenance = "maintenance"
	GoalPerformance = "performance"
)

const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtremelyActive  = "extremely_active"
)

// MacroSplit describes the fraction of daily calories per macronutrient.
type MacroSplit struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// MacroTargets is a daily gram target per macronutrient.
type MacroTargets struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

var macroRatios = map[string]MacroSplit{
	GoalWeightLoss:  {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
	GoalMuscleGain:  {Protein: 0.25, Carbs: 0.45, Fat: 0.30},
	GoalEndurance:   {Protein: 0.15, Carbs: 0.65, Fat: 0.20},
	GoalStrength:    {Protein: 0.25, Carbs: 0.45, Fat: 0.30},
	GoalMaintenance: {Protein: 0.20, Carbs: 0.50, Fat: 0.30},
	GoalPerformance: {Protein: 0.20, Carbs: 0.55, Fat: 0.25},
}

var activityMultipliers = map[string]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

// ProteinPerKG returns the daily protein requirement in grams per kilogram
// of body weight for a primary goal.
func ProteinPerKG(goal string) float64 {
	reqs := map[string]float64{
		GoalWeightLoss:  2.0,
		GoalMuscleGain:  1.8,
		GoalEndurance:   1.2,
		GoalStrength:    1.6,
		GoalMaintenance: 1.4,
		GoalPerformance: 1.6,
	}
	if r, ok := reqs[goal]; ok {
		return r
	}
	return 1.4
}

// ValidGoal reports whether goal is one of the supported primary goals.
func ValidGoal(goal string) bool {
	_, ok := macroRatios[goal]
	return ok
}

// ValidActivityLevel reports whether level is a supported activity level.
func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// CalculateBMR computes Basal Metabolic Rate via Mifflin-St Jeor.
func CalculateBMR(weightKG, heightCM float64, age int, gender string) float64 {
	if strings.EqualFold(gender, "male") {
		return 10*weightKG + 6.25*heightCM - 5*float64(age) + 5
	}
	return 10*weightKG + 6.25*heightCM - 5*float64(age) - 161
}

// CalculateTDEE computes Total Daily Energy Expenditure from BMR and an
// activity level. Unknown levels fall back to moderately active.
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	m, ok := activityMultipliers[activityLevel]
	if !ok {
		m = activityMultipliers[ActivityModeratelyActive]
	}
	return bmr * m
}

// GoalCalorieAdjustment is the daily calorie delta applied on top of TDEE
// for a primary goal.
func GoalCalorieAdjustment(goal string) float64 {
	adjustments := map[string]float64{
		GoalWeightLoss:  -500,
		GoalMuscleGain:  300,
		GoalPerformance: 200,
		GoalMaintenance: 0,
	}
	return adjustments[goal]
}

// MacroTargetsFor splits totalCalories into gram targets using the goal's
// macro ratios. Unknown goals use the maintenance split.
func MacroTargetsFor(goal string, totalCalories float64) MacroTargets {
	ratios, ok := macroRatios[goal]
	if !ok {
		ratios = macroRatios[GoalMaintenance]
	}
	return MacroTargets{
		ProteinG: totalCalories * ratios.Protein / ProteinCaloriesPerGram,
		CarbsG:   totalCalories * ratios.Carbs / CarbCaloriesPerGram,
		FatG:     totalCalories * ratios.Fat / FatCaloriesPerGram,
	}
}
