package suncalc

import (
	"errors"
	"fmt"
	"time"

	"github.com/spencer-p/suntimes/pkg/timetricks"
)

// ErrInvalidLocation reports coordinates outside their valid ranges or a
// negative altitude at construction time.
var ErrInvalidLocation = errors.New("invalid location")

// ErrNotCalculable reports an attempt to extract numbers from a polar
// result.
var ErrNotCalculable = errors.New("not calculable")

// Kind tags the result of a sunrise or sunset query.
type Kind int

const (
	// Crossing means the sun crosses the corrected horizon and the event
	// carries an instant.
	Crossing Kind = iota
	// PolarDay means the sun never sets on the queried date.
	PolarDay
	// PolarNight means the sun never rises on the queried date.
	PolarNight
)

// Code returns the two-letter marker used in exported timetables.
func (k Kind) Code() string {
	switch k {
	case PolarDay:
		return "PD"
	case PolarNight:
		return "PN"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	default:
		return "crossing"
	}
}

// Event is the result of a single sunrise or sunset query: either an
// instant with minute resolution, or a polar tag. Consumers must branch on
// the tag before using the instant.
type Event struct {
	kind Kind
	at   time.Time
}

func crossing(t time.Time) Event { return Event{kind: Crossing, at: t} }
func polar(k Kind) Event         { return Event{kind: k} }

// Kind returns the event's tag.
func (e Event) Kind() Kind { return e.kind }

// Polar reports whether the sun never crosses the horizon on the queried
// date.
func (e Event) Polar() bool { return e.kind != Crossing }

// Time returns the instant of the crossing; ok is false for polar tags.
func (e Event) Time() (t time.Time, ok bool) {
	return e.at, e.kind == Crossing
}

// Clock returns the hour and minute of the crossing in the event's zone.
// Polar tags have no clock reading and fail with ErrNotCalculable.
func (e Event) Clock() (hour, minute int, err error) {
	if e.kind != Crossing {
		return 0, 0, fmt.Errorf("%w: %s", ErrNotCalculable, e.kind)
	}
	return e.at.Hour(), e.at.Minute(), nil
}

// In re-expresses a crossing in loc, using the zone's offset at the
// instant itself. Polar tags are never time-shifted; they pass through
// unchanged.
func (e Event) In(loc *time.Location) Event {
	if e.kind != Crossing {
		return e
	}
	return crossing(e.at.In(loc))
}

func (e Event) String() string {
	if e.kind != Crossing {
		return e.kind.String()
	}
	return e.at.Format("2006-01-02 15:04 MST")
}

// DayLength is the tagged span between sunrise and sunset on one date.
type DayLength struct {
	span  time.Duration
	cause Kind // Crossing when the span is valid
}

// Valid reports whether both rise and set resolved to instants.
func (d DayLength) Valid() bool { return d.cause == Crossing }

// Cause returns the polar tag that made the length not calculable, or
// Crossing when it is valid.
func (d DayLength) Cause() Kind { return d.cause }

// Duration returns the day length as a span.
func (d DayLength) Duration() (time.Duration, error) {
	if d.cause != Crossing {
		return 0, fmt.Errorf("%w: %s", ErrNotCalculable, d.cause)
	}
	return d.span, nil
}

// Clock returns the day length as an (hours, minutes) pair, minutes
// rounded to the nearest so the pair always agrees with String.
func (d DayLength) Clock() (hours, minutes int, err error) {
	if d.cause != Crossing {
		return 0, 0, fmt.Errorf("%w: %s", ErrNotCalculable, d.cause)
	}
	h, m := timetricks.ClockFromDayFraction(d.span.Seconds() / 86400)
	return h, m, nil
}

// String renders the verbose form, e.g. "8h 29mn", or the not-calculable
// marker carrying the polar cause.
func (d DayLength) String() string {
	h, m, err := d.Clock()
	if err != nil {
		return fmt.Sprintf("not calculable: %s", d.cause)
	}
	return fmt.Sprintf("%dh %dmn", h, m)
}
