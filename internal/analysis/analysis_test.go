package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const sampleFoodResponse = `{
  "valid": true,
  "errorMessage": "",
  "food": "Pepián de pollo",
  "estimatedWeightG": 350,
  "calories": {"total": 520, "range": "480-560"},
  "macros": {"proteinG": 32, "carbsG": 41, "fatG": 24, "fiberG": 6},
  "micros": [{"nutrient": "Iron", "amount": "4mg"}],
  "cost": {
    "homeCost": 18.5,
    "restaurantCost": 45,
    "currency": "GTQ",
    "savings": 26.5,
    "savingsMessage": "Cooking at home saved you Q26.50 today."
  },
  "balanced": true,
  "summary": "A hearty traditional stew with a good protein share.",
  "recommendations": ["Pair with a smaller portion of rice."]
}`

func TestDecodeFoodResponse(t *testing.T) {
	var a domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(sampleFoodResponse), &a))
	require.NoError(t, ValidateAnalysis(a))

	assert.True(t, a.Valid)
	assert.Equal(t, "Pepián de pollo", a.Food)
	assert.Equal(t, 520.0, a.Calories.Total)
	assert.Equal(t, "480-560", a.Calories.Range)
	assert.Equal(t, 32.0, a.Macros.ProteinG)
	assert.Len(t, a.Micros, 1)
	assert.Equal(t, domain.Currency("GTQ"), a.Cost.Currency)
	assert.Equal(t, 26.5, a.Cost.Savings)
	assert.True(t, a.Balanced)
	assert.Len(t, a.Recommendations, 1)
}

func TestValidateRejectsNonFood(t *testing.T) {
	a := domain.Analysis{Valid: false, ErrorMessage: "The image shows a keyboard."}

	err := ValidateAnalysis(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFood))
	assert.Contains(t, err.Error(), "keyboard")
}

func TestValidateRejectsNonFoodWithoutMessage(t *testing.T) {
	err := ValidateAnalysis(domain.Analysis{Valid: false})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFood))
}

func TestValidateRejectsBrokenShapes(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*domain.Analysis)
	}{
		{"missing food name", func(a *domain.Analysis) { a.Food = "  " }},
		{"negative calories", func(a *domain.Analysis) { a.Calories.Total = -10 }},
		{"negative home cost", func(a *domain.Analysis) { a.Cost.HomeCost = -1 }},
		{"negative restaurant cost", func(a *domain.Analysis) { a.Cost.RestaurantCost = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a domain.Analysis
			require.NoError(t, json.Unmarshal([]byte(sampleFoodResponse), &a))
			tc.mod(&a)

			err := ValidateAnalysis(a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadResponse))
		})
	}
}

func TestDecodeInsightReport(t *testing.T) {
	payload := `{
	  "financial": {
	    "totalSpentRestaurant": 120.5,
	    "totalCostHome": 64,
	    "potentialSavings": 56.5,
	    "currency": "Q",
	    "insight": "Mostly home cooking this fortnight."
	  },
	  "emotional": {"mainMood": "relaxed", "insight": "Snacks follow stressful days."},
	  "health": {"avgDailyCalories": 1850, "insight": "Calories on target."},
	  "suggestions": [
	    {"title": "Meal prep", "icon": "wallet", "text": "Batch-cook on Sundays."},
	    {"title": "Move more", "icon": "flame", "text": "Add one cardio session."}
	  ]
	}`

	var r domain.InsightReport
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, 120.5, r.Financial.TotalSpentRestaurant)
	assert.Equal(t, "Q", r.Financial.Currency)
	assert.Equal(t, "Snacks follow stressful days.", r.Emotional.Insight)
	assert.Equal(t, 1850.0, r.Health.AvgDailyCalories)
	require.Len(t, r.Suggestions, 2)
	assert.Equal(t, "wallet", r.Suggestions[0].Icon)
}

func TestFoodSystemPromptIncludesContext(t *testing.T) {
	profile := &domain.Profile{
		Age:      30,
		Gender:   "female",
		HeightCm: 165,
		WeightKg: 62,
		Currency: "GTQ",
	}

	prompt := foodSystemPrompt(profile, domain.LanguageSpanish)
	assert.Contains(t, prompt, "Quetzales (Q)")
	assert.Contains(t, prompt, "BMI: 22.8")
	assert.Contains(t, prompt, "ESPAÑOL")

	english := foodSystemPrompt(nil, domain.LanguageEnglish)
	assert.Contains(t, english, "Dólares (USD)")
	assert.Contains(t, english, "ENGLISH")
	assert.False(t, strings.Contains(english, "USER CONTEXT"))
}
