package nutrition

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZarakiLancelot/NutriSnap/internal/analysis"
	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
	"github.com/ZarakiLancelot/NutriSnap/internal/goal"
	"github.com/ZarakiLancelot/NutriSnap/internal/store"
)

type fakeRepo struct {
	mu    sync.Mutex
	data  map[string]*domain.UserData
	water map[string]domain.WaterLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{data: make(map[string]*domain.UserData), water: make(map[string]domain.WaterLog)}
}

func (r *fakeRepo) seed(userID string, data domain.UserData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[userID] = &data
}

func (r *fakeRepo) Load(ctx context.Context, userID string) (*domain.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.data[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *data
	if log, ok := r.water[userID]; ok {
		cp.WaterLog = log
	}
	return &cp, nil
}

func (r *fakeRepo) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(userID).Profile = profile
	return nil
}

func (r *fakeRepo) SaveHistory(ctx context.Context, userID string, history []domain.HistoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(userID).History = history
	return nil
}

func (r *fakeRepo) SaveExerciseHistory(ctx context.Context, userID string, history []domain.ExerciseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(userID).ExerciseHistory = history
	return nil
}

func (r *fakeRepo) SaveWaterLog(ctx context.Context, userID string, log domain.WaterLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.water[userID] = log
	return nil
}

func (r *fakeRepo) ensure(userID string) *domain.UserData {
	data, ok := r.data[userID]
	if !ok {
		data = &domain.UserData{}
		r.data[userID] = data
	}
	return data
}

type fakeAnalyzer struct {
	result  domain.Analysis
	err     error
	started chan struct{}
	release chan struct{}
}

func (a *fakeAnalyzer) AnalyzeFood(ctx context.Context, img analysis.ImageInput, profile *domain.Profile, lang domain.Language) (domain.Analysis, error) {
	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.release != nil {
		<-a.release
	}
	return a.result, a.err
}

func (a *fakeAnalyzer) GenerateInsights(ctx context.Context, digestPrompt string, currencySymbol string, lang domain.Language) (domain.InsightReport, error) {
	var r domain.InsightReport
	r.Financial.Currency = currencySymbol
	return r, nil
}

func (a *fakeAnalyzer) Close() error { return nil }

type fakeFit struct {
	mu        sync.Mutex
	steps     int
	sleep     float64
	pushed    []string
	stepsErr  error
	weightKgs []float64
}

func (f *fakeFit) DailySteps(ctx context.Context) (int, error) { return f.steps, f.stepsErr }
func (f *fakeFit) SleepHours(ctx context.Context) (float64, error) {
	return f.sleep, nil
}
func (f *fakeFit) PushWeight(ctx context.Context, kg float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, "weight")
	f.weightKgs = append(f.weightKgs, kg)
	return nil
}
func (f *fakeFit) PushNutrition(ctx context.Context, item domain.Analysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, "nutrition")
	return nil
}
func (f *fakeFit) PushExercise(ctx context.Context, log domain.ExerciseLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, "exercise")
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(repo *fakeRepo, an analysis.Analyzer, fp FitProvider) *Service {
	var factory func(string) FitProvider
	if fp != nil {
		factory = func(string) FitProvider { return fp }
	}
	svc := New(repo, an, factory, testLogger())
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 10, 13, 0, 0, 0, time.UTC)
	}
	id := 0
	svc.newID = func() string {
		id++
		return string(rune('a' + id - 1))
	}
	return svc
}

func seedUser(repo *fakeRepo, mutate func(*domain.UserData)) {
	var data domain.UserData
	data.Profile = domain.Profile{
		Name:           "Ana",
		WeightKg:       80,
		StartWeight:    80,
		TargetWeightKg: 70,
		WaterGlasses:   4,
		Currency:       "GTQ",
		Language:       domain.LanguageEnglish,
	}
	if mutate != nil {
		mutate(&data)
	}
	repo.seed("u1", data)
}

func TestLogWaterModuloTwoGate(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	wantHydrated := []bool{false, true, false, true, false}
	for i, want := range wantHydrated {
		res, err := svc.LogWater(ctx, "u1", 1)
		require.NoError(t, err)
		assert.Equal(t, i+1, res.Log.Count)
		assert.Empty(t, res.NewBadges)
		if want {
			assert.Equal(t, "Hydrated!", res.Notification.Title, "increment %d", i+1)
		} else {
			assert.True(t, res.Notification.empty(), "increment %d", i+1)
		}
	}

	data, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 25, data.Profile.Gamification.XP)
	assert.Equal(t, 5, data.Profile.Gamification.TotalWaterLogs)

	// The daily log mirrors the counter without touching other fields.
	require.Len(t, data.Profile.DailyLogs, 1)
	assert.Equal(t, 5, data.Profile.DailyLogs[0].WaterGlasses)
	assert.Equal(t, domain.DailyMoodNeutral, data.Profile.DailyLogs[0].Mood)
}

func TestLogWaterClampsAtZero(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	res, err := svc.LogWater(ctx, "u1", -3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Log.Count)
	assert.True(t, res.Notification.empty())

	data, _ := svc.Load(ctx, "u1")
	assert.Zero(t, data.Profile.Gamification.XP)
}

func TestLogWaterIgnoresStaleCounter(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	repo.water["u1"] = domain.WaterLog{Date: "2026-03-09", Count: 7}
	svc := testService(repo, &fakeAnalyzer{}, nil)

	res, err := svc.LogWater(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", res.Log.Date)
	assert.Equal(t, 1, res.Log.Count)
}

func TestLogExerciseManual(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	res, err := svc.LogExercise(ctx, "u1", ExerciseEntry{Type: "Running", Amount: 30, Unit: "min"}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 30, res.Stats.XP)
	assert.Equal(t, domain.ExerciseManual, res.Log.Source)
	assert.Equal(t, "Workout Logged!", res.Notification.Title)

	data, _ := svc.Load(ctx, "u1")
	assert.Equal(t, "2026-03-10", data.Profile.LastExerciseDate)
	require.Len(t, data.Profile.DailyLogs, 1)
	assert.Equal(t, 30, data.Profile.DailyLogs[0].ExerciseMins)
}

func TestLogExerciseReplacesSameDaySteps(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	entry := ExerciseEntry{Type: googleFitStepsType, Amount: 4000, Unit: "steps", Source: domain.ExerciseGoogleFit}
	first, err := svc.LogExercise(ctx, "u1", entry, "")
	require.NoError(t, err)
	assert.Zero(t, first.Stats.XP, "platform imports earn no XP")

	entry.Amount = 9000
	second, err := svc.LogExercise(ctx, "u1", entry, "")
	require.NoError(t, err)
	assert.Equal(t, first.Log.ID, second.Log.ID)
	assert.Equal(t, 9000.0, second.Log.Amount)

	data, _ := svc.Load(ctx, "u1")
	require.Len(t, data.ExerciseHistory, 1)
	assert.Equal(t, 9000.0, data.ExerciseHistory[0].Amount)
	// Minutes were accumulated once, from the original import.
	assert.Equal(t, 40, data.Profile.DailyLogs[0].ExerciseMins)
}

func TestDeleteExercise(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	res, err := svc.LogExercise(ctx, "u1", ExerciseEntry{Type: "Yoga", Amount: 20, Unit: "min"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(ctx, "u1", res.Log.ID))

	data, _ := svc.Load(ctx, "u1")
	assert.Empty(t, data.ExerciseHistory)
	assert.Zero(t, data.Profile.CurrentStreak)

	assert.ErrorIs(t, svc.DeleteExercise(ctx, "u1", "nope"), ErrItemNotFound)
}

func TestLogWeightFeedbackAndOrder(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, func(d *domain.UserData) {
		d.Profile.WeightHistory = []domain.WeightLog{
			{ID: "w1", Date: "2026-03-01", Weight: 80},
		}
	})
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	res, err := svc.LogWeight(ctx, "u1", 78.5, "", "")
	require.NoError(t, err)
	assert.Equal(t, goal.FeedbackProgressing, res.Feedback)
	assert.Equal(t, "2026-03-10", res.Log.Date)

	data, _ := svc.Load(ctx, "u1")
	assert.Equal(t, 78.5, data.Profile.WeightKg)
	require.Len(t, data.Profile.WeightHistory, 2)
	assert.Equal(t, "2026-03-01", data.Profile.WeightHistory[0].Date)
	assert.Equal(t, "2026-03-10", data.Profile.WeightHistory[1].Date)

	// Same-date weigh-in replaces instead of duplicating.
	res, err = svc.LogWeight(ctx, "u1", 79.5, "2026-03-10", "")
	require.NoError(t, err)
	assert.Equal(t, goal.FeedbackRegressing, res.Feedback)

	data, _ = svc.Load(ctx, "u1")
	require.Len(t, data.Profile.WeightHistory, 2)
	assert.Equal(t, 79.5, data.Profile.WeightHistory[1].Weight)
}

func TestLogMoodAndSleepShareDailyEntry(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	_, err := svc.LogWater(ctx, "u1", 2)
	require.NoError(t, err)

	note, err := svc.LogMood(ctx, "u1", domain.DailyMood("happy"), "good day")
	require.NoError(t, err)
	assert.Equal(t, "Mood Logged!", note.Title)

	require.NoError(t, svc.LogSleep(ctx, "u1", 7.5))

	data, _ := svc.Load(ctx, "u1")
	require.Len(t, data.Profile.DailyLogs, 1)
	entry := data.Profile.DailyLogs[0]
	assert.Equal(t, domain.DailyMood("happy"), entry.Mood)
	assert.Equal(t, "good day", entry.Note)
	assert.Equal(t, 7.5, entry.SleepHours)
	assert.Equal(t, 2, entry.WaterGlasses)
}

func TestAnalyzeFoodLogsAndRewards(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	an := &fakeAnalyzer{result: domain.Analysis{Valid: true, Food: "Tacos", Balanced: true}}
	an.result.Calories.Total = 450
	svc := testService(repo, an, nil)
	ctx := context.Background()

	res, err := svc.AnalyzeFood(ctx, "u1", analysis.ImageInput{Data: []byte("not an image"), MIMEType: "image/jpeg"}, "")
	require.NoError(t, err)

	assert.Equal(t, "Tacos", res.Item.Food)
	assert.Equal(t, domain.MealLunch, res.Item.MealType)
	assert.Equal(t, domain.SourceHomemade, res.Item.Source)
	assert.Empty(t, res.Item.ImageBase64, "undecodable capture is stored without a thumbnail")

	// First scan: 50 XP for the action plus the first-scan badge.
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "first_scan", res.NewBadges[0].ID)
	assert.Equal(t, 100, res.Stats.XP)
	assert.Equal(t, "New Badge Unlocked!", res.Notification.Title)

	data, _ := svc.Load(ctx, "u1")
	require.Len(t, data.History, 1)
	assert.Equal(t, res.Item.ID, data.History[0].ID)
}

func TestAnalyzeFoodBusyGuard(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	an := &fakeAnalyzer{
		result:  domain.Analysis{Valid: true, Food: "Soup"},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := testService(repo, an, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.AnalyzeFood(ctx, "u1", analysis.ImageInput{Data: []byte("x")}, "")
		done <- err
	}()

	<-an.started
	_, err := svc.AnalyzeFood(ctx, "u1", analysis.ImageInput{Data: []byte("y")}, "")
	assert.ErrorIs(t, err, ErrBusy)

	close(an.release)
	require.NoError(t, <-done)

	// The guard clears once the first analysis finishes.
	an.started = nil
	an.release = nil
	_, err = svc.AnalyzeFood(ctx, "u1", analysis.ImageInput{Data: []byte("z")}, "")
	require.NoError(t, err)
}

func TestUpdateHistoryItem(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, func(d *domain.UserData) {
		d.History = []domain.HistoryItem{{ID: "h1", MealType: domain.MealSnack}}
	})
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	meal := domain.MealDinner
	src := domain.SourceRestaurant
	cost := 45.0
	item, err := svc.UpdateHistoryItem(ctx, "u1", "h1", HistoryUpdate{MealType: &meal, Source: &src, RealCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, domain.MealDinner, item.MealType)
	assert.Equal(t, domain.SourceRestaurant, item.Source)
	assert.Equal(t, 45.0, item.RealCost)

	_, err = svc.UpdateHistoryItem(ctx, "u1", "missing", HistoryUpdate{MealType: &meal})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteHistoryItem(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, func(d *domain.UserData) {
		d.History = []domain.HistoryItem{{ID: "h1"}, {ID: "h2"}}
	})
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteHistoryItem(ctx, "u1", "h1"))
	data, _ := svc.Load(ctx, "u1")
	require.Len(t, data.History, 1)
	assert.Equal(t, "h2", data.History[0].ID)

	assert.ErrorIs(t, svc.DeleteHistoryItem(ctx, "u1", "h1"), ErrItemNotFound)
}

func TestSaveProfileRedenominatesCosts(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, func(d *domain.UserData) {
		item := domain.HistoryItem{ID: "h1", RealCost: 10}
		item.Cost = domain.CostAnalysis{HomeCost: 20, RestaurantCost: 50, Savings: 30, Currency: "Q"}
		item.Calories.Total = 600
		d.History = []domain.HistoryItem{item}
	})
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	data, _ := svc.Load(ctx, "u1")
	profile := data.Profile
	profile.Currency = "USD"
	require.NoError(t, svc.SaveProfile(ctx, "u1", profile))

	data, _ = svc.Load(ctx, "u1")
	h := data.History[0]
	assert.Equal(t, "$", h.Cost.Currency)
	assert.InDelta(t, 2.56, h.Cost.HomeCost, 0.001)
	assert.InDelta(t, 6.41, h.Cost.RestaurantCost, 0.001)
	assert.InDelta(t, 3.85, h.Cost.Savings, 0.001)
	assert.InDelta(t, 1.28, h.RealCost, 0.001)
	assert.Equal(t, 600.0, h.Calories.Total, "calories are not money")
	assert.Equal(t, domain.Currency("USD"), data.Profile.Currency)
}

func TestSaveProfileAnchorsStartWeight(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	data, _ := svc.Load(ctx, "u1")

	// Editing the profile without touching the target keeps the anchor.
	profile := data.Profile
	profile.WeightKg = 77
	profile.StartWeight = 77
	require.NoError(t, svc.SaveProfile(ctx, "u1", profile))

	data, _ = svc.Load(ctx, "u1")
	assert.Equal(t, 80.0, data.Profile.StartWeight)

	// A new target restarts the goal from the submitted weight.
	profile = data.Profile
	profile.TargetWeightKg = 65
	profile.StartWeight = 77
	require.NoError(t, svc.SaveProfile(ctx, "u1", profile))

	data, _ = svc.Load(ctx, "u1")
	assert.Equal(t, 77.0, data.Profile.StartWeight)
}

func TestSyncFit(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, func(d *domain.UserData) {
		d.Profile.FitSync = true
	})
	fp := &fakeFit{steps: 4200, sleep: 7.2}
	svc := testService(repo, &fakeAnalyzer{}, fp)
	ctx := context.Background()

	res, err := svc.SyncFit(ctx, "u1", "tok", true)
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.Equal(t, 4200, res.Steps)
	assert.Equal(t, 7.2, res.SleepHours)

	data, _ := svc.Load(ctx, "u1")
	require.Len(t, data.ExerciseHistory, 1)
	assert.Equal(t, googleFitStepsType, data.ExerciseHistory[0].Type)
	assert.Equal(t, domain.ExerciseGoogleFit, data.ExerciseHistory[0].Source)
	assert.Zero(t, data.Profile.Gamification.XP)
	require.Len(t, data.Profile.DailyLogs, 1)
	assert.Equal(t, 7.2, data.Profile.DailyLogs[0].SleepHours)
	assert.Equal(t, 42, data.Profile.DailyLogs[0].ExerciseMins)
	assert.NotZero(t, data.Profile.LastFitSync)

	// A fresh automatic sync inside the interval is skipped.
	res, err = svc.SyncFit(ctx, "u1", "tok", false)
	require.NoError(t, err)
	assert.False(t, res.Synced)

	// A forced sync replaces the same-day step import.
	fp.steps = 9000
	res, err = svc.SyncFit(ctx, "u1", "tok", true)
	require.NoError(t, err)
	assert.True(t, res.Synced)

	data, _ = svc.Load(ctx, "u1")
	require.Len(t, data.ExerciseHistory, 1)
	assert.Equal(t, 9000.0, data.ExerciseHistory[0].Amount)
}

func TestInsightsRequireData(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, nil)
	svc := testService(repo, &fakeAnalyzer{}, nil)
	ctx := context.Background()

	_, err := svc.Insights(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = svc.LogExercise(ctx, "u1", ExerciseEntry{Type: "Running", Amount: 20, Unit: "min"}, "")
	require.NoError(t, err)

	reportOut, err := svc.Insights(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Q", reportOut.Financial.Currency)
}

func TestMealTypeForHour(t *testing.T) {
	cases := map[int]domain.MealType{
		5:  domain.MealBreakfast,
		10: domain.MealBreakfast,
		11: domain.MealLunch,
		14: domain.MealLunch,
		15: domain.MealSnack,
		18: domain.MealDinner,
		21: domain.MealDinner,
		22: domain.MealSnack,
		2:  domain.MealSnack,
	}
	for hour, want := range cases {
		assert.Equal(t, want, mealTypeForHour(hour), "hour %d", hour)
	}
}
