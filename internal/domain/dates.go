package domain

import "time"

// DateLayout is the canonical local-day key format used across logs.
const DateLayout = "2006-01-02"

// DateString formats a time as a local calendar day key.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// DateStringFromMillis converts a unix-milliseconds timestamp to a local day key.
func DateStringFromMillis(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(DateLayout)
}
