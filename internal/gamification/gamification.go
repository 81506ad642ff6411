// Package gamification computes XP, levels, and badge unlocks from
// tracked activity. All functions are pure; callers persist the result.
package gamification

import (
	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// Action is a loggable activity that earns XP.
type Action string

const (
	ActionFood     Action = "food"
	ActionWater    Action = "water"
	ActionExercise Action = "exercise"
)

// XP awarded per action.
const (
	xpFood     = 50
	xpWater    = 5
	xpExercise = 30
)

// Badge describes an unlockable achievement.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xpReward"`
}

// Badges is the fixed achievement catalog, in unlock-check order.
var Badges = []Badge{
	{ID: "first_scan", Name: "Explorer", Description: "First food analysis completed", Icon: "Search", XPReward: 50},
	{ID: "streak_3", Name: "On a Roll", Description: "3 consecutive days of logged activity", Icon: "Flame", XPReward: 100},
	{ID: "streak_7", Name: "Unstoppable", Description: "7 consecutive days of activity", Icon: "Zap", XPReward: 300},
	{ID: "water_master", Name: "Hydrated", Description: "Logged more than 50 glasses of water overall", Icon: "Droplet", XPReward: 150},
	{ID: "gym_rat", Name: "Athlete", Description: "5 exercise sessions logged", Icon: "Dumbbell", XPReward: 200},
	{ID: "balanced_eater", Name: "Balanced", Description: "Logged 5 balanced meals", Icon: "Scale", XPReward: 150},
}

// LevelThresholds holds the cumulative XP needed to enter each level.
// Level is the 1-based index of the highest threshold reached.
var LevelThresholds = []int{0, 200, 500, 1000, 2000, 4000, 8000, 15000}

// Level returns the level for a cumulative XP total.
func Level(xp int) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if xp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// NextLevelXP returns the XP total required to advance past the given level.
// Beyond the table the requirement grows by half of the final threshold.
func NextLevelXP(currentLevel int) int {
	if currentLevel >= 1 && currentLevel < len(LevelThresholds) {
		return LevelThresholds[currentLevel]
	}
	return LevelThresholds[len(LevelThresholds)-1] * 3 / 2
}

// BadgeByID looks up a catalog badge.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Normalize fills in the zero values a malformed or missing stats block
// can carry so that counters never go backwards.
func Normalize(stats domain.GamificationStats) domain.GamificationStats {
	if stats.Level < 1 {
		stats.Level = Level(stats.XP)
	}
	if stats.UnlockedBadges == nil {
		stats.UnlockedBadges = []string{}
	}
	return stats
}

// CheckNewBadges returns the catalog badges newly earned given the current
// counters and histories. Already unlocked badges are never returned again.
func CheckNewBadges(stats domain.GamificationStats, foodHistory []domain.HistoryItem, exerciseHistory []domain.ExerciseLog, currentStreak int) []Badge {
	unlocked := make(map[string]bool, len(stats.UnlockedBadges))
	for _, id := range stats.UnlockedBadges {
		unlocked[id] = true
	}

	balanced := 0
	for _, h := range foodHistory {
		if h.Balanced {
			balanced++
		}
	}

	var earned []Badge
	for _, b := range Badges {
		if unlocked[b.ID] {
			continue
		}
		ok := false
		switch b.ID {
		case "first_scan":
			ok = len(foodHistory) > 0
		case "streak_3":
			ok = currentStreak >= 3
		case "streak_7":
			ok = currentStreak >= 7
		case "water_master":
			ok = stats.TotalWaterLogs >= 50
		case "gym_rat":
			ok = len(exerciseHistory) >= 5
		case "balanced_eater":
			ok = balanced >= 5
		}
		if ok {
			earned = append(earned, b)
		}
	}
	return earned
}

// Apply processes one action: bumps the matching counter, grants action XP,
// unlocks any newly earned badges with their XP rewards, and recomputes the
// level after badge XP so a badge can push a level-up in the same call.
func Apply(stats domain.GamificationStats, action Action, foodHistory []domain.HistoryItem, exerciseHistory []domain.ExerciseLog, currentStreak int) (domain.GamificationStats, []Badge) {
	stats = Normalize(stats)

	switch action {
	case ActionFood:
		stats.XP += xpFood
		stats.TotalFoodLogs++
	case ActionWater:
		stats.XP += xpWater
		stats.TotalWaterLogs++
	case ActionExercise:
		stats.XP += xpExercise
		stats.TotalExerciseLogs++
	}
	stats.Level = Level(stats.XP)

	earned := CheckNewBadges(stats, foodHistory, exerciseHistory, currentStreak)
	for _, b := range earned {
		stats.XP += b.XPReward
		stats.UnlockedBadges = append(stats.UnlockedBadges, b.ID)
	}
	stats.Level = Level(stats.XP)

	return stats, earned
}
