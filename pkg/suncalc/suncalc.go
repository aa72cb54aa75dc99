// Package suncalc computes sunrise and sunset instants with the
// sunrise-equation method: solar mean anomaly, equation of center,
// ecliptic longitude, solar transit and declination, then the hour angle
// at which the sun crosses the altitude-corrected horizon. The method is
// accurate to a few minutes, so instants carry minute resolution only.
//
// Polar day and polar night are first-class results, not errors: every
// query returns a tagged Event and downstream code must branch on the tag.
package suncalc

import (
	"fmt"
	"math"
	"time"

	"github.com/spencer-p/suntimes/pkg/julian"
	"github.com/spencer-p/suntimes/pkg/timetricks"
	"github.com/spencer-p/suntimes/pkg/zone"
)

const (
	// Leap second / terrestrial time correction, fractional Julian days.
	leapDays = 0.00084

	// Mean solar anomaly series.
	anomalyM0 = 357.5291
	anomalyM1 = 0.98560028

	// Equation of center sine series.
	centerC1 = 1.9148
	centerC2 = 0.0200
	centerC3 = 0.0003

	// Argument of perihelion of the Earth.
	perihelion = 102.9372

	// Equation of time terms for the solar transit.
	transitT0 = 0.0053
	transitT1 = 0.0069

	// Maximal tilt of the Earth toward the sun, degrees.
	obliquity = 23.44

	// Fixed correction for atmospheric refraction plus the solar disc
	// diameter, and the per-altitude horizon dip coefficient, degrees.
	refractionCorrection = -0.833
	elevationCorrection  = -2.076

	degToRad = math.Pi / 180
)

// SunTimes computes solar events for one place. The location is validated
// once at construction and never mutated; a single value serves any number
// of date queries and identical queries always yield identical results.
type SunTimes struct {
	Longitude float64 // degrees, east positive
	Latitude  float64 // degrees, north positive
	Altitude  float64 // meters above sea level

	resolve zone.Resolver
}

// New returns an engine for the given place. Longitude must be within
// [-180, 180], latitude within [-90, 90] and altitude non-negative;
// anything else fails with ErrInvalidLocation.
func New(longitude, latitude, altitude float64) (*SunTimes, error) {
	return NewWithResolver(longitude, latitude, altitude, zone.Default)
}

// NewWithResolver is New with an explicit timezone capability, so callers
// can pin "system" to a known zone.
func NewWithResolver(longitude, latitude, altitude float64, r zone.Resolver) (*SunTimes, error) {
	switch {
	case math.IsNaN(longitude) || longitude < -180 || longitude > 180:
		return nil, fmt.Errorf("%w: longitude %v not in [-180, 180]", ErrInvalidLocation, longitude)
	case math.IsNaN(latitude) || latitude < -90 || latitude > 90:
		return nil, fmt.Errorf("%w: latitude %v not in [-90, 90]", ErrInvalidLocation, latitude)
	case math.IsNaN(altitude) || altitude < 0:
		return nil, fmt.Errorf("%w: altitude %v must be non-negative", ErrInvalidLocation, altitude)
	}
	if r == nil {
		r = zone.Default
	}
	return &SunTimes{
		Longitude: longitude,
		Latitude:  latitude,
		Altitude:  altitude,
		resolve:   r,
	}, nil
}

// geometry carries the per-date solar quantities; angles in degrees.
type geometry struct {
	transit     float64 // Julian day of solar noon at this longitude
	declination float64
}

func (s *SunTimes) geometry(date time.Time) geometry {
	jdn := julian.DayNumber(date.Year(), date.Month(), date.Day())
	noon := jdn - julian.J2000 + leapDays - s.Longitude/360

	anomaly := math.Mod(anomalyM0+anomalyM1*noon, 360)
	center := centerC1*sinDeg(anomaly) + centerC2*sinDeg(2*anomaly) + centerC3*sinDeg(3*anomaly)
	ecliptic := math.Mod(anomaly+center+180+perihelion, 360)

	return geometry{
		transit:     julian.J2000 + noon + transitT0*sinDeg(anomaly) - transitT1*sinDeg(2*ecliptic),
		declination: asinDeg(sinDeg(ecliptic) * sinDeg(obliquity)),
	}
}

// horizon returns the effective horizon elevation angle for the place's
// altitude: the fixed refraction constant plus the geometric dip seen from
// height.
func (s *SunTimes) horizon() float64 {
	return refractionCorrection + elevationCorrection*math.Sqrt(s.Altitude)/60
}

// hourAngle solves for the half-day arc between solar noon and the horizon
// crossing. A cosine above 1 means the sun never rises above the corrected
// horizon that day; below -1 it never drops beneath it. Polarity is a
// property of the specific date, never of the place alone.
func (s *SunTimes) hourAngle(g geometry) (deg float64, kind Kind) {
	cos := (sinDeg(s.horizon()) - sinDeg(s.Latitude)*sinDeg(g.declination)) /
		(cosDeg(s.Latitude) * cosDeg(g.declination))
	switch {
	case cos > 1:
		return 0, PolarNight
	case cos < -1:
		return 0, PolarDay
	}
	return math.Acos(cos) / degToRad, Crossing
}

// riseSet runs the full pipeline for one date. Both events always carry
// the same polar tag because they derive from a single hour angle.
func (s *SunTimes) riseSet(date time.Time) (rise, set Event) {
	g := s.geometry(date)
	h, kind := s.hourAngle(g)
	if kind != Crossing {
		return polar(kind), polar(kind)
	}
	return crossing(instant(g.transit - h/360)), crossing(instant(g.transit + h/360))
}

// instant converts a Julian day to a UTC time with minute resolution.
func instant(jd float64) time.Time {
	y, m, d, frac := julian.Calendar(jd)
	hour, minute := timetricks.ClockFromDayFraction(frac)
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

// RiseUTC returns the sunrise event for the date in UTC. The time-of-day
// component of date is ignored.
func (s *SunTimes) RiseUTC(date time.Time) Event {
	rise, _ := s.riseSet(date)
	return rise
}

// SetUTC returns the sunset event for the date in UTC.
func (s *SunTimes) SetUTC(date time.Time) Event {
	_, set := s.riseSet(date)
	return set
}

// RiseLocal projects the sunrise into the system zone reported by the
// engine's resolver.
func (s *SunTimes) RiseLocal(date time.Time) (Event, error) {
	return s.RiseIn(date, zone.System)
}

// SetLocal projects the sunset into the system zone.
func (s *SunTimes) SetLocal(date time.Time) (Event, error) {
	return s.SetIn(date, zone.System)
}

// RiseIn projects the sunrise into a named zone. Polar tags pass through
// unshifted; an unresolvable name fails with zone.ErrUnknown.
func (s *SunTimes) RiseIn(date time.Time, name string) (Event, error) {
	loc, err := s.resolve(name)
	if err != nil {
		return Event{}, err
	}
	return s.RiseUTC(date).In(loc), nil
}

// SetIn projects the sunset into a named zone.
func (s *SunTimes) SetIn(date time.Time, name string) (Event, error) {
	loc, err := s.resolve(name)
	if err != nil {
		return Event{}, err
	}
	return s.SetUTC(date).In(loc), nil
}

// DayLength returns the tagged span between sunrise and sunset for the
// date. When either side is polar the result carries that tag and no
// arithmetic is performed on it.
func (s *SunTimes) DayLength(date time.Time) DayLength {
	rise, set := s.riseSet(date)
	if rise.Polar() {
		return DayLength{cause: rise.kind}
	}
	if set.Polar() {
		return DayLength{cause: set.kind}
	}
	r, _ := rise.Time()
	t, _ := set.Time()
	return DayLength{span: t.Sub(r), cause: Crossing}
}

func sinDeg(deg float64) float64 { return math.Sin(deg * degToRad) }
func cosDeg(deg float64) float64 { return math.Cos(deg * degToRad) }
func asinDeg(x float64) float64  { return math.Asin(x) / degToRad }
