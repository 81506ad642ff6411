// Package streak derives the consecutive-day activity streak from
// exercise logs. The computation is calendar based: a day counts once no
// matter how many sessions it holds, and day distance is measured between
// noon-UTC anchors so DST shifts cannot produce off-by-one gaps.
package streak

import (
	"sort"
	"time"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const dayMillis = 24 * 60 * 60 * 1000

// Compute returns the current streak length for the given logs as of now.
// The streak is 0 unless the most recent logged day is today or yesterday
// in now's location.
func Compute(logs []domain.ExerciseLog, now time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(logs))
	dates := make([]string, 0, len(logs))
	for _, log := range logs {
		if log.DateString == "" || seen[log.DateString] {
			continue
		}
		seen[log.DateString] = true
		dates = append(dates, log.DateString)
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	today := domain.DateString(now)
	yesterday := domain.DateString(now.AddDate(0, 0, -1))
	if dates[0] != today && dates[0] != yesterday {
		return 0
	}

	streak := 1
	for i := 0; i < len(dates)-1; i++ {
		current := utcMidday(dates[i])
		previous := utcMidday(dates[i+1])
		if current-previous == dayMillis {
			streak++
		} else {
			break
		}
	}
	return streak
}

// utcMidday anchors a YYYY-MM-DD key at 12:00 UTC and returns unix millis.
func utcMidday(date string) int64 {
	t, err := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	if err != nil {
		return 0
	}
	return t.Add(12 * time.Hour).UnixMilli()
}
