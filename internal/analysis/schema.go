package analysis

import "google.golang.org/genai"

// foodSchema constrains the provider to the analysis document shape.
var foodSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"valid":            {Type: genai.TypeBoolean},
		"errorMessage":     {Type: genai.TypeString},
		"food":             {Type: genai.TypeString},
		"estimatedWeightG": {Type: genai.TypeNumber},
		"calories": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"total": {Type: genai.TypeNumber},
				"range": {Type: genai.TypeString},
			},
			Required: []string{"total", "range"},
		},
		"macros": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"proteinG": {Type: genai.TypeNumber},
				"carbsG":   {Type: genai.TypeNumber},
				"fatG":     {Type: genai.TypeNumber},
				"fiberG":   {Type: genai.TypeNumber},
			},
			Required: []string{"proteinG", "carbsG", "fatG", "fiberG"},
		},
		"micros": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"nutrient": {Type: genai.TypeString},
					"amount":   {Type: genai.TypeString},
				},
				Required: []string{"nutrient", "amount"},
			},
		},
		"cost": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"homeCost":       {Type: genai.TypeNumber, Description: "Estimated ingredient cost to cook one portion at home"},
				"restaurantCost": {Type: genai.TypeNumber, Description: "Estimated restaurant or delivery price"},
				"currency":       {Type: genai.TypeString, Description: "Currency symbol, e.g. Q, $, €"},
				"savings":        {Type: genai.TypeNumber, Description: "Restaurant price minus home cost"},
				"savingsMessage": {Type: genai.TypeString, Description: "Short motivational phrase about the savings"},
			},
			Required: []string{"homeCost", "restaurantCost", "currency", "savings", "savingsMessage"},
		},
		"balanced":        {Type: genai.TypeBoolean},
		"summary":         {Type: genai.TypeString},
		"recommendations": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{
		"valid", "errorMessage", "food", "estimatedWeightG", "calories",
		"macros", "micros", "cost", "balanced", "summary", "recommendations",
	},
}

// insightSchema constrains the periodic report shape.
var insightSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"financial": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"totalSpentRestaurant": {Type: genai.TypeNumber},
				"totalCostHome":        {Type: genai.TypeNumber},
				"potentialSavings":     {Type: genai.TypeNumber},
				"currency":             {Type: genai.TypeString},
				"insight":              {Type: genai.TypeString},
			},
			Required: []string{"totalSpentRestaurant", "totalCostHome", "potentialSavings", "currency", "insight"},
		},
		"emotional": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"mainMood": {Type: genai.TypeString},
				"insight":  {Type: genai.TypeString},
			},
			Required: []string{"mainMood", "insight"},
		},
		"health": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"avgDailyCalories": {Type: genai.TypeNumber},
				"insight":          {Type: genai.TypeString},
			},
			Required: []string{"avgDailyCalories", "insight"},
		},
		"suggestions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": {Type: genai.TypeString},
					"text":  {Type: genai.TypeString},
					"icon":  {Type: genai.TypeString, Description: "One of: wallet, heart, flame, brain"},
				},
			},
		},
	},
	Required: []string{"financial", "emotional", "health", "suggestions"},
}
