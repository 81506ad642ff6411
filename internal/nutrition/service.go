package nutrition

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ZarakiLancelot/NutriSnap/internal/analysis"
	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
	"github.com/ZarakiLancelot/NutriSnap/internal/gamification"
	"github.com/ZarakiLancelot/NutriSnap/internal/goal"
	"github.com/ZarakiLancelot/NutriSnap/internal/reconcile"
	"github.com/ZarakiLancelot/NutriSnap/internal/report"
	"github.com/ZarakiLancelot/NutriSnap/internal/store"
	"github.com/ZarakiLancelot/NutriSnap/internal/streak"
	"github.com/ZarakiLancelot/NutriSnap/internal/workout"
)

const (
	googleFitStepsType = "Google Fit Steps"
	stepsPerMinute     = 100
	autoSyncInterval   = 3 * time.Hour
	fitPushTimeout     = 10 * time.Second
	defaultLanguage    = domain.LanguageSpanish
)

var (
	// ErrBusy is returned when the user already has an analysis in flight.
	ErrBusy = errors.New("analysis already in progress")
	// ErrItemNotFound is returned when a log id matches nothing.
	ErrItemNotFound = errors.New("item not found")
	// ErrNoData is returned when there is not enough activity to report on.
	ErrNoData = errors.New("not enough logged data")
)

// Repository is the persistence facade the service mutates through.
// Satisfied by *reconcile.Service.
type Repository interface {
	Load(ctx context.Context, userID string) (*domain.UserData, error)
	SaveProfile(ctx context.Context, userID string, profile domain.Profile) error
	SaveHistory(ctx context.Context, userID string, history []domain.HistoryItem) error
	SaveExerciseHistory(ctx context.Context, userID string, history []domain.ExerciseLog) error
	SaveWaterLog(ctx context.Context, userID string, log domain.WaterLog) error
}

// FitProvider is the fitness platform boundary. Satisfied by *fit.Client.
type FitProvider interface {
	DailySteps(ctx context.Context) (int, error)
	SleepHours(ctx context.Context) (float64, error)
	PushWeight(ctx context.Context, weightKg float64) error
	PushNutrition(ctx context.Context, item domain.Analysis) error
	PushExercise(ctx context.Context, log domain.ExerciseLog) error
}

// Service orchestrates all tracking flows on top of the reconciler.
// Mutations for one user are serialized through a per-user lock; the slow
// AI call happens outside it so logging water never waits on Gemini.
type Service struct {
	repo     Repository
	analyzer analysis.Analyzer
	logger   *slog.Logger

	// fitForToken builds a fitness client for a request-scoped OAuth
	// token. Nil disables fitness integration.
	fitForToken func(accessToken string) FitProvider

	mu        sync.Mutex
	locks     map[string]*sync.Mutex
	analyzing map[string]bool

	now   func() time.Time
	newID func() string
}

// New builds the service. fitForToken may be nil.
func New(repo Repository, analyzer analysis.Analyzer, fitForToken func(string) FitProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		analyzer:    analyzer,
		logger:      logger,
		fitForToken: fitForToken,
		locks:       make(map[string]*sync.Mutex),
		analyzing:   make(map[string]bool),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *Service) today() string {
	return domain.DateString(s.now())
}

// Load returns the user's full state with gamification counters
// normalized.
func (s *Service) Load(ctx context.Context, userID string) (*domain.UserData, error) {
	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	data.Profile.Gamification = gamification.Normalize(data.Profile.Gamification)
	return data, nil
}

func languageOf(p domain.Profile) domain.Language {
	if p.Language == "" {
		return defaultLanguage
	}
	return p.Language
}

// AnalyzeResult is the outcome of a food photo analysis.
type AnalyzeResult struct {
	Item         domain.HistoryItem       `json:"item"`
	Stats        domain.GamificationStats `json:"stats"`
	NewBadges    []gamification.Badge     `json:"newBadges"`
	Notification Notification             `json:"notification"`
}

// AnalyzeFood runs the AI analysis on a photo and logs the result. A
// second request while one is in flight for the same user fails fast
// with ErrBusy. fitToken, when present, mirrors the meal to the fitness
// platform.
func (s *Service) AnalyzeFood(ctx context.Context, userID string, img analysis.ImageInput, fitToken string) (AnalyzeResult, error) {
	s.mu.Lock()
	if s.analyzing[userID] {
		s.mu.Unlock()
		return AnalyzeResult{}, ErrBusy
	}
	s.analyzing[userID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.analyzing, userID)
		s.mu.Unlock()
	}()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return AnalyzeResult{}, err
	}
	lang := languageOf(data.Profile)

	result, err := s.analyzer.AnalyzeFood(ctx, img, &data.Profile, lang)
	if err != nil {
		return AnalyzeResult{}, err
	}

	thumb := s.thumbnail(img.Data)

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// Reload under the lock so a concurrent water or exercise log is
	// not lost while the provider was thinking.
	data, err = s.repo.Load(ctx, userID)
	if err != nil {
		return AnalyzeResult{}, err
	}

	now := s.now()
	item := domain.HistoryItem{
		Analysis:    result,
		ID:          s.newID(),
		Timestamp:   now.UnixMilli(),
		ImageBase64: thumb,
		MealType:    mealTypeForHour(now.Hour()),
		Source:      domain.SourceHomemade,
	}
	history := append([]domain.HistoryItem{item}, data.History...)

	stats, newBadges := gamification.Apply(
		data.Profile.Gamification, gamification.ActionFood,
		history, data.ExerciseHistory, data.Profile.CurrentStreak)
	data.Profile.Gamification = stats

	if err := s.repo.SaveHistory(ctx, userID, history); err != nil {
		return AnalyzeResult{}, err
	}
	if err := s.repo.SaveProfile(ctx, userID, data.Profile); err != nil {
		return AnalyzeResult{}, err
	}

	if data.Profile.FitSync && fitToken != "" {
		s.pushFit(fitToken, userID, func(ctx context.Context, fp FitProvider) error {
			return fp.PushNutrition(ctx, result)
		})
	}

	notification := analysisNotification(lang)
	if len(newBadges) > 0 {
		notification = badgeNotification(lang, newBadges[0].Name)
	}
	return AnalyzeResult{Item: item, Stats: stats, NewBadges: newBadges, Notification: notification}, nil
}

// thumbnail re-encodes the capture to the bounded storage size. A photo
// that cannot be decoded is stored without an image rather than failing
// the whole analysis.
func (s *Service) thumbnail(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	thumb, err := reconcile.RecompressBase64(encoded, reconcile.ThumbMaxPx, reconcile.ThumbQuality)
	if err != nil {
		s.logger.Warn("thumbnail encode failed", slog.Any("error", err))
		return ""
	}
	return thumb
}

func mealTypeForHour(hour int) domain.MealType {
	switch {
	case hour >= 5 && hour < 11:
		return domain.MealBreakfast
	case hour >= 11 && hour < 15:
		return domain.MealLunch
	case hour >= 18 && hour < 22:
		return domain.MealDinner
	default:
		return domain.MealSnack
	}
}

// WaterResult is the outcome of a water counter change.
type WaterResult struct {
	Log          domain.WaterLog          `json:"log"`
	Stats        domain.GamificationStats `json:"stats"`
	NewBadges    []gamification.Badge     `json:"newBadges"`
	Notification Notification             `json:"notification"`
}

// LogWater moves today's water counter by delta glasses, never below
// zero. Positive increments earn XP; the hydration toast only fires on
// even counts so it does not nag on every tap.
func (s *Service) LogWater(ctx context.Context, userID string, delta int) (WaterResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return WaterResult{}, err
	}
	lang := languageOf(data.Profile)
	today := s.today()

	current := 0
	if data.WaterLog.Date == today {
		current = data.WaterLog.Count
	}
	newCount := current + delta
	if newCount < 0 {
		newCount = 0
	}
	log := domain.WaterLog{Date: today, Count: newCount}

	data.Profile.DailyLogs = upsertDailyLog(data.Profile.DailyLogs, today, func(d *domain.DailyLog) {
		d.WaterGlasses = newCount
	})

	var newBadges []gamification.Badge
	var notification Notification
	if delta > 0 {
		stats, badges := gamification.Apply(
			data.Profile.Gamification, gamification.ActionWater,
			data.History, data.ExerciseHistory, data.Profile.CurrentStreak)
		data.Profile.Gamification = stats
		newBadges = badges
		if len(badges) > 0 {
			notification = badgeNotification(lang, badges[0].Name)
		} else if newCount%2 == 0 {
			notification = hydrationNotification(lang)
		}
	}

	if err := s.repo.SaveWaterLog(ctx, userID, log); err != nil {
		return WaterResult{}, err
	}
	if err := s.repo.SaveProfile(ctx, userID, data.Profile); err != nil {
		return WaterResult{}, err
	}
	return WaterResult{Log: log, Stats: data.Profile.Gamification, NewBadges: newBadges, Notification: notification}, nil
}

// ExerciseEntry is the input for a new exercise log.
type ExerciseEntry struct {
	Type   string                `json:"type" validate:"required"`
	Amount float64               `json:"amount" validate:"gt=0"`
	Unit   string                `json:"unit" validate:"required"`
	Source domain.ExerciseSource `json:"source,omitempty"`
}

// ExerciseResult is the outcome of logging an exercise session.
type ExerciseResult struct {
	Log          domain.ExerciseLog       `json:"log"`
	Streak       int                      `json:"streak"`
	Stats        domain.GamificationStats `json:"stats"`
	NewBadges    []gamification.Badge     `json:"newBadges"`
	Notification Notification             `json:"notification"`
}

// LogExercise records a session. A second platform step import on the
// same day replaces the earlier one instead of double counting. Only
// manual entries earn XP.
func (s *Service) LogExercise(ctx context.Context, userID string, entry ExerciseEntry, fitToken string) (ExerciseResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return ExerciseResult{}, err
	}
	lang := languageOf(data.Profile)
	now := s.now()
	today := s.today()

	source := entry.Source
	if source == "" {
		source = domain.ExerciseManual
	}

	if source == domain.ExerciseGoogleFit && entry.Type == googleFitStepsType {
		for i := range data.ExerciseHistory {
			if data.ExerciseHistory[i].DateString == today && data.ExerciseHistory[i].Type == googleFitStepsType {
				data.ExerciseHistory[i].Amount = entry.Amount
				data.ExerciseHistory[i].Timestamp = now.UnixMilli()
				if err := s.repo.SaveExerciseHistory(ctx, userID, data.ExerciseHistory); err != nil {
					return ExerciseResult{}, err
				}
				return ExerciseResult{
					Log:    data.ExerciseHistory[i],
					Streak: data.Profile.CurrentStreak,
					Stats:  data.Profile.Gamification,
				}, nil
			}
		}
	}

	log := domain.ExerciseLog{
		ID:         s.newID(),
		Timestamp:  now.UnixMilli(),
		DateString: today,
		Type:       entry.Type,
		Amount:     entry.Amount,
		Unit:       entry.Unit,
		Source:     source,
	}
	history := append([]domain.ExerciseLog{log}, data.ExerciseHistory...)

	data.Profile.CurrentStreak = streak.Compute(history, now)
	data.Profile.LastExerciseDate = today

	mins := exerciseMinutes(entry.Amount, entry.Unit)
	data.Profile.DailyLogs = upsertDailyLog(data.Profile.DailyLogs, today, func(d *domain.DailyLog) {
		d.ExerciseMins += mins
	})

	var newBadges []gamification.Badge
	var notification Notification
	if source == domain.ExerciseManual {
		stats, badges := gamification.Apply(
			data.Profile.Gamification, gamification.ActionExercise,
			data.History, history, data.Profile.CurrentStreak)
		data.Profile.Gamification = stats
		newBadges = badges
		if len(badges) > 0 {
			notification = badgeNotification(lang, badges[0].Name)
		} else {
			notification = workoutNotification(lang)
		}
	}

	if err := s.repo.SaveExerciseHistory(ctx, userID, history); err != nil {
		return ExerciseResult{}, err
	}
	if err := s.repo.SaveProfile(ctx, userID, data.Profile); err != nil {
		return ExerciseResult{}, err
	}

	if source == domain.ExerciseManual && data.Profile.FitSync && fitToken != "" {
		s.pushFit(fitToken, userID, func(ctx context.Context, fp FitProvider) error {
			return fp.PushExercise(ctx, log)
		})
	}

	return ExerciseResult{
		Log:          log,
		Streak:       data.Profile.CurrentStreak,
		Stats:        data.Profile.Gamification,
		NewBadges:    newBadges,
		Notification: notification,
	}, nil
}

// exerciseMinutes converts a logged amount into daily-log minutes. Step
// imports use the rough hundred-steps-per-minute walking pace; unknown
// units assume ten-minute sets.
func exerciseMinutes(amount float64, unit string) int {
	switch unit {
	case "min":
		return int(amount)
	case "steps":
		return int(amount) / stepsPerMinute
	default:
		return int(amount) * 10
	}
}

// DeleteExercise removes a session and recomputes the streak.
func (s *Service) DeleteExercise(ctx context.Context, userID, id string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}

	filtered := data.ExerciseHistory[:0:0]
	found := false
	for _, log := range data.ExerciseHistory {
		if log.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, log)
	}
	if !found {
		return ErrItemNotFound
	}

	data.Profile.CurrentStreak = streak.Compute(filtered, s.now())

	if err := s.repo.SaveExerciseHistory(ctx, userID, filtered); err != nil {
		return err
	}
	return s.repo.SaveProfile(ctx, userID, data.Profile)
}

// WeightResult is the outcome of a weigh-in.
type WeightResult struct {
	Log          domain.WeightLog `json:"log"`
	Feedback     goal.Feedback    `json:"feedback"`
	Notification Notification     `json:"notification"`
}

// LogWeight upserts the weigh-in for date (today when empty), keeps the
// history sorted ascending and updates the profile weight. The feedback
// grades the change against the previous weigh-in.
func (s *Service) LogWeight(ctx context.Context, userID string, weight float64, date string, fitToken string) (WeightResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return WeightResult{}, err
	}
	if date == "" {
		date = s.today()
	}

	previous := data.Profile.StartWeight
	if len(data.Profile.WeightHistory) > 0 {
		latest := data.Profile.WeightHistory[0]
		for _, log := range data.Profile.WeightHistory[1:] {
			if log.Date > latest.Date {
				latest = log
			}
		}
		previous = latest.Weight
	}

	log := domain.WeightLog{ID: s.newID(), Date: date, Weight: weight}
	history := data.Profile.WeightHistory
	replaced := false
	for i := range history {
		if history[i].Date == date {
			history[i] = log
			replaced = true
			break
		}
	}
	if !replaced {
		history = append(history, log)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })

	data.Profile.WeightHistory = history
	data.Profile.WeightKg = weight

	feedback := goal.Classify(weight, previous, data.Profile.StartWeight, data.Profile.TargetWeightKg)

	if err := s.repo.SaveProfile(ctx, userID, data.Profile); err != nil {
		return WeightResult{}, err
	}

	if data.Profile.FitSync && fitToken != "" {
		s.pushFit(fitToken, userID, func(ctx context.Context, fp FitProvider) error {
			return fp.PushWeight(ctx, weight)
		})
	}

	return WeightResult{
		Log:          log,
		Feedback:     feedback,
		Notification: weightNotification(languageOf(data.Profile), feedback),
	}, nil
}

// LogMood records today's overall mood.
func (s *Service) LogMood(ctx context.Context, userID string, mood domain.DailyMood, note string) (Notification, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return Notification{}, err
	}

	today := s.today()
	data.Profile.DailyLogs = upsertDailyLog(data.Profile.DailyLogs, today, func(d *domain.DailyLog) {
		d.Mood = mood
		if note != "" {
			d.Note = note
		}
	})

	if err := s.repo.SaveProfile(ctx, userID, data.Profile); err != nil {
		return Notification{}, err
	}
	return moodNotification(languageOf(data.Profile)), nil
}

// LogSleep records last night's sleep hours on today's entry.
func (s *Service) LogSleep(ctx context.Context, userID string, hours float64) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}

	data.Profile.DailyLogs = upsertDailyLog(data.Profile.DailyLogs, s.today(), func(d *domain.DailyLog) {
		d.SleepHours = hours
	})
	return s.repo.SaveProfile(ctx, userID, data.Profile)
}

// HistoryUpdate carries the user-editable annotations of a history item.
// Nil fields are left unchanged.
type HistoryUpdate struct {
	MealType   *domain.MealType   `json:"mealType,omitempty"`
	EatingMood *domain.EatingMood `json:"eatingMood,omitempty"`
	Source     *domain.FoodSource `json:"source,omitempty"`
	RealCost   *float64           `json:"realCost,omitempty"`
}

// UpdateHistoryItem patches a logged meal's annotations.
func (s *Service) UpdateHistoryItem(ctx context.Context, userID, id string, update HistoryUpdate) (domain.HistoryItem, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return domain.HistoryItem{}, err
	}

	for i := range data.History {
		if data.History[i].ID != id {
			continue
		}
		item := &data.History[i]
		if update.MealType != nil {
			item.MealType = *update.MealType
		}
		if update.EatingMood != nil {
			item.EatingMood = *update.EatingMood
		}
		if update.Source != nil {
			item.Source = *update.Source
		}
		if update.RealCost != nil {
			item.RealCost = *update.RealCost
		}
		if err := s.repo.SaveHistory(ctx, userID, data.History); err != nil {
			return domain.HistoryItem{}, err
		}
		return *item, nil
	}
	return domain.HistoryItem{}, ErrItemNotFound
}

// DeleteHistoryItem removes a logged meal.
func (s *Service) DeleteHistoryItem(ctx context.Context, userID, id string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return err
	}

	filtered := data.History[:0:0]
	found := false
	for _, item := range data.History {
		if item.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, item)
	}
	if !found {
		return ErrItemNotFound
	}
	return s.repo.SaveHistory(ctx, userID, filtered)
}

// SaveProfile persists profile edits. Switching currency rewrites every
// historical cost estimate with the fixed rate table so old meals stay
// comparable.
func (s *Service) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		data = nil
	}

	profile.Gamification = gamification.Normalize(profile.Gamification)

	// The starting weight anchors the goal projection. It only moves when
	// the user restarts with a new target.
	if data != nil && data.Profile.StartWeight > 0 && data.Profile.TargetWeightKg == profile.TargetWeightKg {
		profile.StartWeight = data.Profile.StartWeight
	}
	if profile.StartWeight == 0 {
		profile.StartWeight = profile.WeightKg
	}

	if data != nil && data.Profile.Currency != "" && data.Profile.Currency != profile.Currency && len(data.History) > 0 {
		RedenominateHistory(data.History, data.Profile.Currency, profile.Currency)
		if err := s.repo.SaveHistory(ctx, userID, data.History); err != nil {
			return err
		}
	}
	return s.repo.SaveProfile(ctx, userID, profile)
}

// Projection returns the user's goal trajectory.
func (s *Service) Projection(ctx context.Context, userID string) (goal.Projection, error) {
	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return goal.Projection{}, err
	}
	return goal.Project(data.Profile, s.now()), nil
}

// DailyReport returns the merged per-day activity view, newest first.
func (s *Service) DailyReport(ctx context.Context, userID string) ([]report.DaySummary, error) {
	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Daily(data.Profile.DailyLogs, data.History, s.now().Location()), nil
}

// WeeklyReport returns calorie and savings totals per calendar week.
func (s *Service) WeeklyReport(ctx context.Context, userID string) ([]report.WeekSummary, error) {
	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Weekly(data.History, s.now().Location()), nil
}

// WorkoutPlan is the ranked routine list plus today's featured pick.
type WorkoutPlan struct {
	Ranked   []workout.Scored `json:"ranked"`
	Featured *workout.Scored  `json:"featured,omitempty"`
}

// Workouts ranks the routine catalog for the user's goal and rotates the
// featured pick by day and shuffle counter.
func (s *Service) Workouts(ctx context.Context, userID string, shuffle int) (WorkoutPlan, error) {
	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return WorkoutPlan{}, err
	}
	ranked := workout.Rank(data.Profile)
	plan := WorkoutPlan{Ranked: ranked}
	if featured, ok := workout.Select(ranked, s.now(), shuffle); ok {
		plan.Featured = &featured
	}
	return plan, nil
}

// Insights builds the 15-day digest and asks the AI provider for the
// periodic report. ErrNoData when the user has nothing to report on.
func (s *Service) Insights(ctx context.Context, userID string) (domain.InsightReport, error) {
	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return domain.InsightReport{}, err
	}

	digest := report.BuildDigest(data.History, data.ExerciseHistory, data.Profile.DailyLogs, s.now().Location())
	if digest.Empty() {
		return domain.InsightReport{}, ErrNoData
	}

	symbol := Symbol(data.Profile.Currency)
	return s.analyzer.GenerateInsights(ctx, digest.Prompt(), symbol, languageOf(data.Profile))
}

// FitSyncResult summarizes what a fitness sync pulled in.
type FitSyncResult struct {
	Synced     bool    `json:"synced"`
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleepHours"`
}

// SyncFit pulls today's steps and last night's sleep from the fitness
// platform. Automatic syncs are rate limited to the sync interval;
// force bypasses the gate for manual syncs.
func (s *Service) SyncFit(ctx context.Context, userID, accessToken string, force bool) (FitSyncResult, error) {
	if s.fitForToken == nil {
		return FitSyncResult{}, fmt.Errorf("fitness integration disabled")
	}

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return FitSyncResult{}, err
	}
	if !force {
		last := time.UnixMilli(data.Profile.LastFitSync)
		if s.now().Sub(last) < autoSyncInterval {
			return FitSyncResult{}, nil
		}
	}

	client := s.fitForToken(accessToken)

	var steps int
	var sleep float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		steps, err = client.DailySteps(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sleep, err = client.SleepHours(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return FitSyncResult{}, err
	}

	if steps > 0 {
		entry := ExerciseEntry{
			Type:   googleFitStepsType,
			Amount: float64(steps),
			Unit:   "steps",
			Source: domain.ExerciseGoogleFit,
		}
		if _, err := s.LogExercise(ctx, userID, entry, ""); err != nil {
			return FitSyncResult{}, err
		}
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err = s.repo.Load(ctx, userID)
	if err != nil {
		return FitSyncResult{}, err
	}
	if sleep > 0 {
		data.Profile.DailyLogs = upsertDailyLog(data.Profile.DailyLogs, s.today(), func(d *domain.DailyLog) {
			d.SleepHours = sleep
		})
	}
	data.Profile.LastFitSync = s.now().UnixMilli()
	if err := s.repo.SaveProfile(ctx, userID, data.Profile); err != nil {
		return FitSyncResult{}, err
	}

	return FitSyncResult{Synced: true, Steps: steps, SleepHours: sleep}, nil
}

// SanitizeImages re-encodes oversized stored thumbnails and persists the
// smaller history. Run when the cloud document approaches capacity.
func (s *Service) SanitizeImages(ctx context.Context, userID string) (int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	data, err := s.repo.Load(ctx, userID)
	if err != nil {
		return 0, err
	}
	changed := reconcile.SanitizeHistoryImages(data.History)
	if changed == 0 {
		return 0, nil
	}
	if err := s.repo.SaveHistory(ctx, userID, data.History); err != nil {
		return changed, err
	}
	return changed, nil
}

// pushFit mirrors a write to the fitness platform in the background.
// Failures are logged and never surface to the user action.
func (s *Service) pushFit(accessToken, userID string, fn func(context.Context, FitProvider) error) {
	if s.fitForToken == nil {
		return
	}
	client := s.fitForToken(accessToken)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fitPushTimeout)
		defer cancel()
		if err := fn(ctx, client); err != nil {
			s.logger.Warn("fitness push failed", slog.String("userId", userID), slog.Any("error", err))
		}
	}()
}
