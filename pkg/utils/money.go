package utils

import (
	"math"
	"time"
)

// Round2 rounds a currency amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DayString formats a timestamp as the calendar-date key used by
// stake_rewards, team_volumes and job_runs.
func DayString(t time.Time) string {
	return t.Format("2006-01-02")
}

// Today returns the current calendar-date key.
func Today() string {
	return DayString(time.Now())
}
