package visualize

import (
	"fmt"
	"io"

	"github.com/spencer-p/suntimes/pkg/suncalc"
	"github.com/spencer-p/suntimes/pkg/timetricks"
)

const (
	width  = 1200
	height = 300
)

// Daylight renders a year of daylight as an SVG ribbon: one column per
// date, a light band between sunrise and sunset in UTC. Polar days fill
// the whole column and polar nights leave it dark.
type Daylight struct {
	place *suncalc.SunTimes
	year  int
}

func NewDaylight(place *suncalc.SunTimes, year int) *Daylight {
	return &Daylight{place: place, year: year}
}

func (img *Daylight) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Night is the background; daylight is painted over it.
	io(fmt.Fprintf(w, `<rect class="night" fill="midnightblue" x="0" y="0" width="%d" height="%d"/>`,
		width, height))

	days := timetricks.Dates(img.year)
	colw := width/len(days) + 1
	for i, d := range days {
		x := i * width / len(days)

		rise := img.place.RiseUTC(d)
		switch rise.Kind() {
		case suncalc.PolarNight:
			continue
		case suncalc.PolarDay:
			io(fmt.Fprintf(w, `<rect class="daylight" fill="lightyellow" x="%d" y="0" width="%d" height="%d"/>`,
				x, colw, height))
			continue
		}

		set := img.place.SetUTC(d)
		riseY := img.clockToY(rise)
		setY := img.clockToY(set)
		if riseY <= setY {
			io(fmt.Fprintf(w, `<rect class="daylight" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
				x, riseY, colw, setY-riseY))
		} else {
			// Near the antimeridian the UTC sunset precedes the UTC
			// sunrise; the band wraps over midnight.
			io(fmt.Fprintf(w, `<rect class="daylight" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
				x, riseY, colw, height-riseY))
			io(fmt.Fprintf(w, `<rect class="daylight" fill="lightyellow" x="%d" y="0" width="%d" height="%d"/>`,
				x, colw, setY))
		}
	}

	// Month gridlines for orientation.
	for i, d := range days {
		if d.Day() != 1 || i == 0 {
			continue
		}
		x := i * width / len(days)
		io(fmt.Fprintf(w, `<line class="month" stroke="gray" stroke-width="1" x1="%d" y1="0" x2="%d" y2="%d"/>`,
			x, x, height))
	}

	// Insert the year as hidden metadata.
	io(fmt.Fprintf(w, `<text class="year" visibility="hidden">%d</text>`, img.year))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

// clockToY maps the event's UTC wall clock onto the vertical axis.
func (img *Daylight) clockToY(e suncalc.Event) int {
	h, m, err := e.Clock()
	if err != nil {
		return 0
	}
	return (h*60 + m) * height / (24 * 60)
}
