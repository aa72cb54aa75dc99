// Package julian converts between the proleptic Gregorian calendar and
// Julian day numbers, the time variable for the solar geometry formulas.
package julian

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// J2000 is the Julian day of the J2000.0 epoch, 2000 January 1 at 12h.
const J2000 = 2451545.0

// DayNumber returns the Julian day number at 12h UT on the given calendar
// date. The result is integer-valued for every date.
func DayNumber(year int, month time.Month, day int) float64 {
	return julian.CalendarGregorianToJD(year, int(month), float64(day)+0.5)
}

// Calendar converts a Julian day back to a calendar date plus the fraction
// of that day elapsed since midnight UT.
func Calendar(jd float64) (year int, month time.Month, day int, frac float64) {
	y, m, d := julian.JDToCalendar(jd)
	whole := math.Floor(d)
	return y, time.Month(m), int(whole), d - whole
}

// LeapYear reports whether the Gregorian year has 366 days.
func LeapYear(year int) bool {
	return julian.LeapYearGregorian(year)
}
