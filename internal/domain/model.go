package domain

// Language selects the output language for analyses and notifications.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

// MealType classifies a food entry by time of day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// EatingMood is the self-reported mood attached to a single meal.
type EatingMood string

// FoodSource distinguishes home cooking from restaurant food.
type FoodSource string

const (
	SourceHomemade   FoodSource = "homemade"
	SourceRestaurant FoodSource = "restaurant"
)

// DailyMood is the overall mood recorded for a day.
type DailyMood string

const DailyMoodNeutral DailyMood = "neutral"

// ExerciseSource distinguishes manual entries from fitness-provider imports.
type ExerciseSource string

const (
	ExerciseManual    ExerciseSource = "manual"
	ExerciseGoogleFit ExerciseSource = "google_fit"
)

// Calories holds the caloric estimate for a dish.
type Calories struct {
	Total float64 `json:"total" firestore:"total"`
	Range string  `json:"range" firestore:"range"`
}

// Macros holds the macronutrient breakdown in grams.
type Macros struct {
	ProteinG float64 `json:"proteinG" firestore:"proteinG"`
	CarbsG   float64 `json:"carbsG" firestore:"carbsG"`
	FatG     float64 `json:"fatG" firestore:"fatG"`
	FiberG   float64 `json:"fiberG" firestore:"fiberG"`
}

// MicroNutrient is a named micronutrient with a human-readable amount.
type MicroNutrient struct {
	Nutrient string `json:"nutrient" firestore:"nutrient"`
	Amount   string `json:"amount" firestore:"amount"`
}

// CostAnalysis estimates what the dish cost at home versus eating out.
type CostAnalysis struct {
	HomeCost       float64 `json:"homeCost" firestore:"homeCost"`
	RestaurantCost float64 `json:"restaurantCost" firestore:"restaurantCost"`
	Currency       string  `json:"currency" firestore:"currency"`
	Savings        float64 `json:"savings" firestore:"savings"`
	SavingsMessage string  `json:"savingsMessage" firestore:"savingsMessage"`
}

// Analysis is the structured result of a single food photo analysis.
type Analysis struct {
	Valid            bool            `json:"valid" firestore:"valid"`
	ErrorMessage     string          `json:"errorMessage,omitempty" firestore:"errorMessage"`
	Food             string          `json:"food" firestore:"food"`
	EstimatedWeightG float64         `json:"estimatedWeightG" firestore:"estimatedWeightG"`
	Calories         Calories        `json:"calories" firestore:"calories"`
	Macros           Macros          `json:"macros" firestore:"macros"`
	Micros           []MicroNutrient `json:"micros" firestore:"micros"`
	Cost             CostAnalysis    `json:"cost" firestore:"cost"`
	Balanced         bool            `json:"balanced" firestore:"balanced"`
	Summary          string          `json:"summary" firestore:"summary"`
	Recommendations  []string        `json:"recommendations" firestore:"recommendations"`
}

// HistoryItem is a persisted food analysis with user annotations.
type HistoryItem struct {
	Analysis

	ID          string     `json:"id" firestore:"id"`
	Timestamp   int64      `json:"timestamp" firestore:"timestamp"`
	ImageBase64 string     `json:"imageBase64,omitempty" firestore:"imageBase64"`
	EatingMood  EatingMood `json:"eatingMood,omitempty" firestore:"eatingMood"`
	MealType    MealType   `json:"mealType,omitempty" firestore:"mealType"`
	Source      FoodSource `json:"source,omitempty" firestore:"source"`
	RealCost    float64    `json:"realCost,omitempty" firestore:"realCost"`
}

// ExerciseLog records one exercise session. DateString is the local
// calendar day (YYYY-MM-DD) used for streak and aggregation grouping.
type ExerciseLog struct {
	ID         string         `json:"id" firestore:"id"`
	Timestamp  int64          `json:"timestamp" firestore:"timestamp"`
	DateString string         `json:"dateString" firestore:"dateString"`
	Type       string         `json:"type" firestore:"type"`
	Amount     float64        `json:"amount" firestore:"amount"`
	Unit       string         `json:"unit" firestore:"unit"`
	Source     ExerciseSource `json:"source,omitempty" firestore:"source"`
}

// WeightLog is a dated weigh-in.
type WeightLog struct {
	ID     string  `json:"id" firestore:"id"`
	Date   string  `json:"date" firestore:"date"`
	Weight float64 `json:"weight" firestore:"weight"`
}

// DailyLog is the per-day wellness summary keyed by local date.
type DailyLog struct {
	Date          string    `json:"date" firestore:"date"`
	Mood          DailyMood `json:"mood" firestore:"mood"`
	Note          string    `json:"note,omitempty" firestore:"note"`
	SleepHours    float64   `json:"sleepHours,omitempty" firestore:"sleepHours"`
	WaterGlasses  int       `json:"waterGlasses,omitempty" firestore:"waterGlasses"`
	ExerciseMins  int       `json:"exerciseMins,omitempty" firestore:"exerciseMins"`
	TotalCalories float64   `json:"totalCalories,omitempty" firestore:"totalCalories"`
	FoodCount     int       `json:"foodCount,omitempty" firestore:"foodCount"`
}

// GamificationStats carries the user's progression counters.
type GamificationStats struct {
	XP                int      `json:"xp" firestore:"xp"`
	Level             int      `json:"level" firestore:"level"`
	UnlockedBadges    []string `json:"unlockedBadges" firestore:"unlockedBadges"`
	TotalFoodLogs     int      `json:"totalFoodLogs" firestore:"totalFoodLogs"`
	TotalWaterLogs    int      `json:"totalWaterLogs" firestore:"totalWaterLogs"`
	TotalExerciseLogs int      `json:"totalExerciseLogs" firestore:"totalExerciseLogs"`
}

// SocialProfile links the user to an accountability partner.
type SocialProfile struct {
	PartnerID         string `json:"partnerId,omitempty" firestore:"partnerId"`
	PartnerName       string `json:"partnerName,omitempty" firestore:"partnerName"`
	PartnerEmail      string `json:"partnerEmail,omitempty" firestore:"partnerEmail"`
	LastChallengeDate string `json:"lastChallengeDate,omitempty" firestore:"lastChallengeDate"`
}

// Profile is the full user profile document.
type Profile struct {
	Name        string   `json:"name" firestore:"name"`
	Email       string   `json:"email,omitempty" firestore:"email"`
	PhotoURL    string   `json:"photoUrl,omitempty" firestore:"photoUrl"`
	HeightCm    float64  `json:"heightCm" firestore:"heightCm"`
	WeightKg    float64  `json:"weightKg" firestore:"weightKg"`
	StartWeight float64  `json:"startWeight" firestore:"startWeight"`
	Age         int      `json:"age" firestore:"age"`
	Gender      string   `json:"gender" firestore:"gender"`
	Currency    Currency `json:"currency" firestore:"currency"`
	Language    Language `json:"language,omitempty" firestore:"language"`

	SleepHours     float64 `json:"sleepHours" firestore:"sleepHours"`
	WaterGlasses   int     `json:"waterGlasses" firestore:"waterGlasses"`
	ExerciseDays   int     `json:"exerciseDays" firestore:"exerciseDays"`
	ExerciseType   string  `json:"exerciseType" firestore:"exerciseType"`
	ExerciseAmount float64 `json:"exerciseAmount" firestore:"exerciseAmount"`
	ExerciseUnit   string  `json:"exerciseUnit" firestore:"exerciseUnit"`

	TargetWeightKg float64 `json:"targetWeightKg" firestore:"targetWeightKg"`
	GoalWeeks      int     `json:"goalWeeks" firestore:"goalWeeks"`
	GoalStartDate  string  `json:"goalStartDate,omitempty" firestore:"goalStartDate"`
	Dieting        bool    `json:"dieting" firestore:"dieting"`

	NotificationsEnabled bool  `json:"notificationsEnabled" firestore:"notificationsEnabled"`
	FitSync              bool  `json:"fitSync,omitempty" firestore:"fitSync"`
	LastFitSync          int64 `json:"lastFitSync,omitempty" firestore:"lastFitSync"`

	CurrentStreak    int    `json:"currentStreak,omitempty" firestore:"currentStreak"`
	LastExerciseDate string `json:"lastExerciseDate,omitempty" firestore:"lastExerciseDate"`

	WeightHistory []WeightLog `json:"weightHistory,omitempty" firestore:"weightHistory"`
	DailyLogs     []DailyLog  `json:"dailyLogs,omitempty" firestore:"dailyLogs"`

	Gamification GamificationStats `json:"gamification" firestore:"gamification"`
	Social       *SocialProfile    `json:"social,omitempty" firestore:"social"`
}

// WaterLog is the rolling water counter for a single local day.
type WaterLog struct {
	Date  string `json:"date" firestore:"date"`
	Count int    `json:"count" firestore:"count"`
}

// UserData is the complete per-user state as stored in the user document.
type UserData struct {
	Profile         Profile       `json:"profile" firestore:"profile"`
	History         []HistoryItem `json:"history" firestore:"history"`
	ExerciseHistory []ExerciseLog `json:"exerciseHistory" firestore:"exerciseHistory"`
	WaterLog        WaterLog      `json:"waterLog" firestore:"waterLog"`
	LastUpdated     int64         `json:"lastUpdated" firestore:"lastUpdated"`
}

// InsightSuggestion is one actionable tip inside an insight report.
type InsightSuggestion struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Icon  string `json:"icon"`
}

// InsightReport is the periodic AI-generated summary over recent activity.
type InsightReport struct {
	Financial struct {
		TotalSpentRestaurant float64 `json:"totalSpentRestaurant"`
		TotalCostHome        float64 `json:"totalCostHome"`
		PotentialSavings     float64 `json:"potentialSavings"`
		Currency             string  `json:"currency"`
		Insight              string  `json:"insight"`
	} `json:"financial"`
	Emotional struct {
		MainMood string `json:"mainMood"`
		Insight  string `json:"insight"`
	} `json:"emotional"`
	Health struct {
		AvgDailyCalories float64 `json:"avgDailyCalories"`
		Insight          string  `json:"insight"`
	} `json:"health"`
	Suggestions []InsightSuggestion `json:"suggestions"`
}
