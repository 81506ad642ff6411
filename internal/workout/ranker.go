package workout

import (
	"sort"
	"time"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// ReasonTag explains why a routine was recommended.
type ReasonTag string

const (
	ReasonNone  ReasonTag = ""
	ReasonGoal  ReasonTag = "goal"
	ReasonLevel ReasonTag = "level"
)

const maxRecommendations = 5

// Scored pairs a catalog routine with its fit score for one profile.
type Scored struct {
	Routine Routine   `json:"routine"`
	Score   int       `json:"score"`
	Reason  ReasonTag `json:"reason"`
}

func hasTag(r Routine, tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Rank scores the whole catalog against the profile and returns the top
// routines, highest score first. The sort is stable so equal scores keep
// catalog order, which keeps the daily rotation deterministic.
func Rank(profile domain.Profile) []Scored {
	scored := make([]Scored, 0, len(Catalog))

	for _, routine := range Catalog {
		score := 0
		reason := ReasonNone

		switch {
		case profile.TargetWeightKg < profile.WeightKg:
			if hasTag(routine, "weight_loss") || hasTag(routine, "cardio") {
				score += 5
				reason = ReasonGoal
			}
			if hasTag(routine, "tone") {
				score += 3
			}
		case profile.TargetWeightKg > profile.WeightKg:
			if hasTag(routine, "muscle_gain") || hasTag(routine, "strength") {
				score += 5
				reason = ReasonGoal
			}
		default:
			if hasTag(routine, "tone") {
				score += 5
				reason = ReasonGoal
			}
		}

		// Exercise frequency proxies experience level.
		if profile.ExerciseDays <= 2 && hasTag(routine, "beginner") {
			score += 5
			if reason == ReasonNone {
				reason = ReasonLevel
			}
		}
		if profile.ExerciseDays >= 5 && routine.Level == "III" {
			score += 3
			if reason == ReasonNone {
				reason = ReasonLevel
			}
		}

		scored = append(scored, Scored{Routine: routine, Score: score, Reason: reason})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	return scored
}

// Select picks today's routine from a ranked list, rotating by day of year
// plus a manual shuffle offset.
func Select(ranked []Scored, now time.Time, shuffle int) (Scored, bool) {
	if len(ranked) == 0 {
		return Scored{}, false
	}
	index := (now.YearDay() + shuffle) % len(ranked)
	if index < 0 {
		index += len(ranked)
	}
	return ranked[index], true
}
