// Package timetricks holds small calendar helpers shared by the almanac
// and HTTP layers.
package timetricks

import (
	"math"
	"time"
)

const dayFormat = "20060102"

// SameDay reports whether two times fall on the same calendar day.
func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// TrimClock strips the wall clock component of t, leaving midnight.
func TrimClock(t time.Time) time.Time {
	h, m, s := t.Clock()
	return t.Add(-1 *
		(time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second))
}

// ClockFromDayFraction rounds a fraction of a day to an (hour, minute)
// pair. Minutes are rounded to the nearest, not truncated; a value that
// would round up to 24:00 is clamped to 23:59.
func ClockFromDayFraction(f float64) (hour, minute int) {
	hour = int(f * 24)
	minute = int(math.Round(f*24*60 - float64(hour)*60))
	if minute == 60 {
		minute = 0
		hour++
		if hour == 24 {
			hour = 23
			minute = 59
		}
	}
	return hour, minute
}

// Dates returns every day of the year as consecutive UTC midnights.
func Dates(year int) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
