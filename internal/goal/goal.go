// Package goal projects weight progress against a multi-week target and
// classifies new weigh-ins into coaching feedback.
package goal

import (
	"math"
	"time"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const (
	defaultGoalWeeks = 12
	// Window, in days, around a week anchor that a weigh-in may fall into.
	weekWindowDays = 3
	// Weigh-ins closer than this to the target count as goal reached.
	reachedToleranceKg = 0.5
	// Regressions at or past this magnitude get the stronger warning.
	regressionSevereKg = 1.5
)

// WeekPoint is one chart sample: the ideal pace value and, when a weigh-in
// landed near that week, the actual recorded weight.
type WeekPoint struct {
	Week   int      `json:"week"`
	Ideal  float64  `json:"ideal"`
	Actual *float64 `json:"actual"`
	Target float64  `json:"target"`
}

// Projection describes progress toward the weight goal.
type Projection struct {
	StartWeight   float64     `json:"startWeight"`
	CurrentWeight float64     `json:"currentWeight"`
	TargetWeight  float64     `json:"targetWeight"`
	Weeks         int         `json:"weeks"`
	Percent       float64     `json:"percent"`
	Maintenance   bool        `json:"maintenance"`
	Points        []WeekPoint `json:"points"`
}

// Project builds the week-by-week projection for a profile as of now.
// Weigh-ins are matched to week anchors within a +/- 3 day window, latest
// log wins, and week 0 falls back to the start weight once any weigh-in
// exists. Percent complete is clamped at 0 and a maintenance goal
// (start equals target) reports a flat 0 instead of dividing by zero.
func Project(profile domain.Profile, now time.Time) Projection {
	weeks := profile.GoalWeeks
	if weeks <= 0 {
		weeks = defaultGoalWeeks
	}
	startWeight := profile.StartWeight
	if startWeight == 0 {
		startWeight = profile.WeightKg
	}
	endWeight := profile.TargetWeightKg
	if endWeight == 0 {
		endWeight = startWeight
	}
	lossPerWeek := (startWeight - endWeight) / float64(weeks)

	startDate := now
	if profile.GoalStartDate != "" {
		if parsed, err := time.ParseInLocation(domain.DateLayout, profile.GoalStartDate, now.Location()); err == nil {
			startDate = parsed
		}
	}
	startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())

	proj := Projection{
		StartWeight:   startWeight,
		CurrentWeight: profile.WeightKg,
		TargetWeight:  endWeight,
		Weeks:         weeks,
		Maintenance:   startWeight == endWeight,
	}
	if !proj.Maintenance {
		percent := (startWeight - profile.WeightKg) / (startWeight - endWeight) * 100
		proj.Percent = math.Max(0, percent)
	}

	history := profile.WeightHistory
	hasAnyLog := func(before time.Time) bool {
		for _, h := range history {
			if d, err := time.ParseInLocation(domain.DateLayout, h.Date, now.Location()); err == nil && !d.After(before) {
				return true
			}
		}
		return false
	}

	for i := 0; i <= weeks; i++ {
		ideal := round1(startWeight - lossPerWeek*float64(i))
		anchor := startDate.AddDate(0, 0, i*7)
		windowStart := anchor.AddDate(0, 0, -weekWindowDays)
		windowEnd := anchor.AddDate(0, 0, weekWindowDays)

		var actual *float64
		if hasAnyLog(anchor.AddDate(0, 0, 7)) {
			for _, h := range history {
				d, err := time.ParseInLocation(domain.DateLayout, h.Date, now.Location())
				if err != nil {
					continue
				}
				if !d.Before(windowStart) && !d.After(windowEnd) {
					w := h.Weight
					actual = &w
				}
			}
			if actual == nil && i == 0 {
				w := startWeight
				actual = &w
			}
		}

		proj.Points = append(proj.Points, WeekPoint{Week: i, Ideal: ideal, Actual: actual, Target: endWeight})
	}

	return proj
}

// Feedback classifies a weigh-in relative to the previous one.
type Feedback string

const (
	FeedbackReached         Feedback = "reached"
	FeedbackProgressing     Feedback = "progressing"
	FeedbackStalled         Feedback = "stalled"
	FeedbackRegressing      Feedback = "regressing"
	FeedbackRegressingBadly Feedback = "regressing_badly"
)

// Classify grades a new weigh-in. previousWeight is the latest earlier log,
// or the start weight when no history exists.
func Classify(newWeight, previousWeight, startWeight, targetWeight float64) Feedback {
	if math.Abs(newWeight-targetWeight) < reachedToleranceKg {
		return FeedbackReached
	}

	losing := startWeight > targetWeight
	diff := newWeight - previousWeight
	switch {
	case (losing && diff < 0) || (!losing && diff > 0):
		return FeedbackProgressing
	case diff == 0:
		return FeedbackStalled
	case math.Abs(diff) < regressionSevereKg:
		return FeedbackRegressing
	default:
		return FeedbackRegressingBadly
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
