package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const digestDays = 15

// Digest is the compact per-day activity summary handed to the insight
// provider, plus the financial totals derived while building it.
type Digest struct {
	Lines                []string
	TotalRestaurantSpent float64
	TotalHomeCost        float64
	CurrencySymbol       string
}

// Empty reports whether the digest window held no activity at all.
func (d Digest) Empty() bool {
	return len(d.Lines) == 0
}

// Prompt renders the digest as the text block a report request carries.
func (d Digest) Prompt() string {
	var b strings.Builder
	for _, line := range d.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nFINANCIAL SUMMARY (Last %d days):\n", digestDays)
	fmt.Fprintf(&b, "- Total Spent on Restaurant/Delivery: %s%.2f\n", d.CurrencySymbol, d.TotalRestaurantSpent)
	fmt.Fprintf(&b, "- Total Estimated Home Cooking Cost: %s%.2f\n", d.CurrencySymbol, d.TotalHomeCost)
	return b.String()
}

// BuildDigest condenses the most recent active days (up to 15) of food,
// exercise, and mood logs into one line per day. Restaurant meals are
// costed by the user-entered real cost when present, falling back to the
// provider estimate; home meals use the estimated home cost.
func BuildDigest(foodHistory []domain.HistoryItem, exerciseHistory []domain.ExerciseLog, dailyLogs []domain.DailyLog, loc *time.Location) Digest {
	if loc == nil {
		loc = time.Local
	}

	dateSet := make(map[string]bool)
	for _, f := range foodHistory {
		dateSet[domain.DateStringFromMillis(f.Timestamp, loc)] = true
	}
	for _, e := range exerciseHistory {
		if e.DateString != "" {
			dateSet[e.DateString] = true
		}
	}
	for _, m := range dailyLogs {
		dateSet[m.Date] = true
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > digestDays {
		dates = dates[:digestDays]
	}

	moodByDate := make(map[string]domain.DailyLog, len(dailyLogs))
	for _, m := range dailyLogs {
		moodByDate[m.Date] = m
	}

	digest := Digest{CurrencySymbol: "$"}

	for _, date := range dates {
		var foods []string
		for _, f := range foodHistory {
			if domain.DateStringFromMillis(f.Timestamp, loc) != date {
				continue
			}
			source := f.Source
			if source == "" {
				source = domain.SourceHomemade
			}
			var cost float64
			if source == domain.SourceRestaurant {
				cost = f.RealCost
				if cost == 0 {
					cost = f.Cost.RestaurantCost
				}
				digest.TotalRestaurantSpent += cost
			} else {
				cost = f.Cost.HomeCost
				digest.TotalHomeCost += cost
			}
			if f.Cost.Currency != "" {
				digest.CurrencySymbol = f.Cost.Currency
			}

			mood := string(f.EatingMood)
			if mood == "" {
				mood = "?"
			}
			foods = append(foods, fmt.Sprintf("%s (%.0fkcal, Mood:%s, Src:%s, Cost:%.2f)", f.Food, f.Calories.Total, mood, source, cost))
		}

		exerciseMins := 0.0
		for _, e := range exerciseHistory {
			if e.DateString == date {
				exerciseMins += e.Amount
			}
		}

		mood := "Unknown"
		if m, ok := moodByDate[date]; ok {
			mood = string(m.Mood)
		}

		if len(foods) == 0 && exerciseMins == 0 && mood == "Unknown" {
			continue
		}
		digest.Lines = append(digest.Lines,
			fmt.Sprintf("[Date: %s] Mood: %s | Ex: %.0fm | Foods: %s", date, mood, exerciseMins, strings.Join(foods, "; ")))
	}

	return digest
}
