// Package almanac builds whole-year sunrise/sunset timetables and their
// polar summaries, and serializes them to JSON and CSV.
package almanac

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spencer-p/suntimes/pkg/suncalc"
	"github.com/spencer-p/suntimes/pkg/timetricks"
)

// Almanac tabulates solar events for one place over one year.
type Almanac struct {
	place *suncalc.SunTimes
	year  int
	name  string
}

// New returns an almanac for the place and year. name is the verbose place
// name used in export file names, e.g. "Paris Notre-Dame".
func New(place *suncalc.SunTimes, year int, name string) *Almanac {
	return &Almanac{place: place, year: year, name: name}
}

// Stamp is an hour/minute reading that may instead be a polar tag. It
// encodes as an hour/minute object, or as the bare "PD"/"PN" code,
// mirroring the layout of the exported timetable files.
type Stamp struct {
	Hour   int
	Minute int
	Kind   suncalc.Kind
}

// StampOf reads the clock of an event, keeping the polar tag if there is
// no clock to read.
func StampOf(e suncalc.Event) Stamp {
	h, m, err := e.Clock()
	if err != nil {
		return Stamp{Kind: e.Kind()}
	}
	return Stamp{Hour: h, Minute: m}
}

var _ json.Marshaler = Stamp{}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.Kind != suncalc.Crossing {
		return json.Marshal(s.Kind.Code())
	}
	return json.Marshal(struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
	}{s.Hour, s.Minute})
}

// Verbose renders "7 h 43 mn", or the polar code.
func (s Stamp) Verbose() string {
	if s.Kind != suncalc.Crossing {
		return s.Kind.Code()
	}
	return fmt.Sprintf("%d h %d mn", s.Hour, s.Minute)
}

// fields returns the two CSV cells for the stamp, hour then minute, with
// the polar code doubled into both.
func (s Stamp) fields() []string {
	if s.Kind != suncalc.Crossing {
		return []string{s.Kind.Code(), s.Kind.Code()}
	}
	return []string{strconv.Itoa(s.Hour), strconv.Itoa(s.Minute)}
}

// Row is one date of the timetable.
type Row struct {
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	RiseUTC   Stamp  `json:"rise_utc"`
	SetUTC    Stamp  `json:"set_utc"`
	RiseLocal Stamp  `json:"rise_local"`
	SetLocal  Stamp  `json:"set_local"`
	RiseWhere *Stamp `json:"rise_where,omitempty"`
	SetWhere  *Stamp `json:"set_where,omitempty"`
	Duration  string `json:"duration"`
}

// Rows computes the timetable for every date of the year. where is an
// optional third zone identifier; the empty string omits those columns.
func (a *Almanac) Rows(where string) ([]Row, error) {
	days := timetricks.Dates(a.year)
	rows := make([]Row, 0, len(days))
	for _, d := range days {
		riseLocal, err := a.place.RiseLocal(d)
		if err != nil {
			return nil, err
		}
		setLocal, err := a.place.SetLocal(d)
		if err != nil {
			return nil, err
		}

		row := Row{
			Month:     int(d.Month()),
			Day:       d.Day(),
			RiseUTC:   StampOf(a.place.RiseUTC(d)),
			SetUTC:    StampOf(a.place.SetUTC(d)),
			RiseLocal: StampOf(riseLocal),
			SetLocal:  StampOf(setLocal),
			Duration:  a.place.DayLength(d).String(),
		}

		if where != "" {
			riseWhere, err := a.place.RiseIn(d, where)
			if err != nil {
				return nil, err
			}
			setWhere, err := a.place.SetIn(d, where)
			if err != nil {
				return nil, err
			}
			rs, ss := StampOf(riseWhere), StampOf(setWhere)
			row.RiseWhere, row.SetWhere = &rs, &ss
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// MonthDay names a date within the almanac's year.
type MonthDay struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.Month), m.Day)
}

// Run is a contiguous stretch of polar dates, boundaries inclusive. A run
// spanning the new year starts late in the year and ends early in it.
type Run struct {
	Start MonthDay `json:"start"`
	End   MonthDay `json:"end"`
}

// Summary counts the polar dates of a year and locates their runs. A nil
// run means the place never sees that condition during the year.
type Summary struct {
	Year          int  `json:"year"`
	PolarDays     int  `json:"polar_days"`
	PolarNights   int  `json:"polar_nights"`
	PolarDayRun   *Run `json:"polar_day_run,omitempty"`
	PolarNightRun *Run `json:"polar_night_run,omitempty"`
}

// Summary classifies every date of the year.
func (a *Almanac) Summary() Summary {
	days := timetricks.Dates(a.year)
	kinds := make([]suncalc.Kind, len(days))
	for i, d := range days {
		kinds[i] = a.place.RiseUTC(d).Kind()
	}

	s := Summary{Year: a.year}
	s.PolarDays, s.PolarDayRun = runOf(days, kinds, suncalc.PolarDay)
	s.PolarNights, s.PolarNightRun = runOf(days, kinds, suncalc.PolarNight)
	return s
}

// runOf counts the dates tagged k and finds the boundaries of their
// contiguous run, unwrapping a run that crosses January 1.
func runOf(days []time.Time, kinds []suncalc.Kind, k suncalc.Kind) (count int, run *Run) {
	n := len(days)
	first, last := -1, -1
	for i, kind := range kinds {
		if kind != k {
			continue
		}
		count++
		if first == -1 {
			first = i
		}
		last = i
	}
	if count == 0 {
		return 0, nil
	}

	start, end := first, last
	if count < n && kinds[0] == k && kinds[n-1] == k {
		// The run wraps the new year; walk the boundaries inward.
		end = 0
		for kinds[end+1] == k {
			end++
		}
		start = n - 1
		for kinds[start-1] == k {
			start--
		}
	}

	return count, &Run{
		Start: MonthDay{days[start].Month(), days[start].Day()},
		End:   MonthDay{days[end].Month(), days[end].Day()},
	}
}

func (s Summary) String() string {
	if s.PolarDayRun == nil && s.PolarNightRun == nil {
		return fmt.Sprintf("%d: no polar day or polar night", s.Year)
	}

	var parts []string
	if s.PolarDayRun != nil {
		parts = append(parts, fmt.Sprintf("polar day %d dates (%s to %s)",
			s.PolarDays, s.PolarDayRun.Start, s.PolarDayRun.End))
	} else {
		parts = append(parts, "no polar day")
	}
	if s.PolarNightRun != nil {
		parts = append(parts, fmt.Sprintf("polar night %d dates (%s to %s)",
			s.PolarNights, s.PolarNightRun.Start, s.PolarNightRun.End))
	} else {
		parts = append(parts, "no polar night")
	}
	return fmt.Sprintf("%d: %s", s.Year, strings.Join(parts, ", "))
}
