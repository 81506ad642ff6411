// Package report builds the read-only dashboard views: per-day summaries,
// weekly trends, and the digest fed to the insight provider.
package report

import (
	"sort"
	"time"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// DaySummary is one row of the daily dashboard.
type DaySummary struct {
	Date         string           `json:"date"`
	Mood         domain.DailyMood `json:"mood"`
	Note         string           `json:"note,omitempty"`
	SleepHours   float64          `json:"sleepHours"`
	WaterGlasses int              `json:"waterGlasses"`
	ExerciseMins int              `json:"exerciseMins"`
	FoodCount    int              `json:"foodCount"`
	Calories     float64          `json:"calories"`
}

// WeekSummary is one weekly trend bucket.
type WeekSummary struct {
	WeekStart   string  `json:"weekStart"`
	Label       string  `json:"label"`
	Calories    float64 `json:"calories"`
	AvgCalories float64 `json:"avgCalories"`
	Savings     float64 `json:"savings"`
	Count       int     `json:"count"`
}

// Daily merges the per-day wellness logs with food history aggregates into
// one row per day, newest first. Days present only in the food history get
// zero-valued wellness fields and a neutral mood. The merge is pure and
// idempotent: re-running it over the same inputs yields the same rows.
func Daily(dailyLogs []domain.DailyLog, foodHistory []domain.HistoryItem, loc *time.Location) []DaySummary {
	byDate := make(map[string]*DaySummary)

	for _, log := range dailyLogs {
		byDate[log.Date] = &DaySummary{
			Date:         log.Date,
			Mood:         log.Mood,
			Note:         log.Note,
			SleepHours:   log.SleepHours,
			WaterGlasses: log.WaterGlasses,
			ExerciseMins: log.ExerciseMins,
		}
	}

	for _, item := range foodHistory {
		date := domain.DateStringFromMillis(item.Timestamp, loc)
		row, ok := byDate[date]
		if !ok {
			row = &DaySummary{Date: date, Mood: domain.DailyMoodNeutral}
			byDate[date] = row
		}
		row.FoodCount++
		row.Calories += item.Calories.Total
	}

	rows := make([]DaySummary, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

const maxWeeklyBuckets = 8

// Weekly buckets the food history into Monday-keyed weeks and returns the
// most recent buckets, oldest first. Weeks with no entries are omitted
// rather than zero-filled. AvgCalories is per logged meal, not per day.
func Weekly(foodHistory []domain.HistoryItem, loc *time.Location) []WeekSummary {
	if loc == nil {
		loc = time.Local
	}
	byWeek := make(map[string]*WeekSummary)

	for _, item := range foodHistory {
		monday := weekStart(time.UnixMilli(item.Timestamp).In(loc))
		key := monday.Format(domain.DateLayout)

		bucket, ok := byWeek[key]
		if !ok {
			bucket = &WeekSummary{
				WeekStart: key,
				Label:     monday.Format("2/1"),
			}
			byWeek[key] = bucket
		}
		bucket.Calories += item.Calories.Total
		if item.Cost.Savings != 0 {
			bucket.Savings += item.Cost.Savings
		}
		bucket.Count++
	}

	weeks := make([]WeekSummary, 0, len(byWeek))
	for _, bucket := range byWeek {
		if bucket.Count > 0 {
			bucket.AvgCalories = float64(int(bucket.Calories/float64(bucket.Count) + 0.5))
		}
		weeks = append(weeks, *bucket)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart < weeks[j].WeekStart })

	if len(weeks) > maxWeeklyBuckets {
		weeks = weeks[len(weeks)-maxWeeklyBuckets:]
	}
	return weeks
}

// weekStart returns the Monday of t's week at midnight local time.
func weekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}
