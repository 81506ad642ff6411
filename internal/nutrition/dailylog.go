package nutrition

import "github.com/ZarakiLancelot/NutriSnap/internal/domain"

// upsertDailyLog applies mutate to the entry for date, appending a fresh
// neutral-mood entry when the day has none yet. Only the mutated fields
// change so independent trackers never clobber each other's day.
func upsertDailyLog(logs []domain.DailyLog, date string, mutate func(*domain.DailyLog)) []domain.DailyLog {
	for i := range logs {
		if logs[i].Date == date {
			mutate(&logs[i])
			return logs
		}
	}
	entry := domain.DailyLog{Date: date, Mood: domain.DailyMoodNeutral}
	mutate(&entry)
	return append(logs, entry)
}
