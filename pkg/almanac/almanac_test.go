package almanac

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spencer-p/suntimes/pkg/julian"
	"github.com/spencer-p/suntimes/pkg/suncalc"
	"github.com/spencer-p/suntimes/pkg/zone"

	"github.com/google/go-cmp/cmp"
)

func parisUTC(t *testing.T) *suncalc.SunTimes {
	t.Helper()
	place, err := suncalc.NewWithResolver(2.349902, 48.852968, 35, zone.Fixed(time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return place
}

func nuussuaq(t *testing.T) *suncalc.SunTimes {
	t.Helper()
	place, err := suncalc.NewWithResolver(-57.06666667, 74.11666667, 0, zone.Fixed(time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return place
}

func TestRows(t *testing.T) {
	a := New(parisUTC(t), 2021, "Paris Notre-Dame")
	rows, err := a.Rows("")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 365 {
		t.Fatalf("got %d rows, want 365", len(rows))
	}

	jan6 := rows[5]
	want := Row{
		Month:     1,
		Day:       6,
		RiseUTC:   Stamp{Hour: 7, Minute: 43},
		SetUTC:    Stamp{Hour: 16, Minute: 12},
		RiseLocal: Stamp{Hour: 7, Minute: 43},
		SetLocal:  Stamp{Hour: 16, Minute: 12},
		Duration:  "8h 29mn",
	}
	if diff := cmp.Diff(want, jan6); diff != "" {
		t.Errorf("January 6 row mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsLeapYearLength(t *testing.T) {
	a := New(parisUTC(t), 2020, "Paris")
	rows, err := a.Rows("")
	if err != nil {
		t.Fatal(err)
	}
	want := 365
	if julian.LeapYear(2020) {
		want = 366
	}
	if len(rows) != want {
		t.Errorf("got %d rows, want %d", len(rows), want)
	}
}

func TestRowsThirdZone(t *testing.T) {
	a := New(parisUTC(t), 2021, "Paris")
	rows, err := a.Rows("Europe/Paris")
	if err != nil {
		t.Fatal(err)
	}
	jan6 := rows[5]
	if jan6.RiseWhere == nil || jan6.SetWhere == nil {
		t.Fatal("third zone columns missing")
	}
	// Paris sits at UTC+1 in January.
	if jan6.RiseWhere.Hour != 8 || jan6.RiseWhere.Minute != 43 {
		t.Errorf("rise_where = %d:%02d, want 8:43", jan6.RiseWhere.Hour, jan6.RiseWhere.Minute)
	}
}

func TestRowsUnknownZone(t *testing.T) {
	a := New(parisUTC(t), 2021, "Paris")
	if _, err := a.Rows("Atlantis/Sunken_City"); err == nil {
		t.Error("expected an error for an unresolvable zone")
	}
}

func TestStampJSON(t *testing.T) {
	table := []struct {
		stamp Stamp
		want  string
	}{
		{Stamp{Hour: 7, Minute: 43}, `{"hour":7,"minute":43}`},
		{Stamp{Kind: suncalc.PolarDay}, `"PD"`},
		{Stamp{Kind: suncalc.PolarNight}, `"PN"`},
	}

	for _, tc := range table {
		got, err := json.Marshal(tc.stamp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(tc.want, string(got)); diff != "" {
			t.Errorf("marshal mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestStampVerbose(t *testing.T) {
	if got := (Stamp{Hour: 7, Minute: 43}).Verbose(); got != "7 h 43 mn" {
		t.Errorf("got %q", got)
	}
	if got := (Stamp{Kind: suncalc.PolarNight}).Verbose(); got != "PN" {
		t.Errorf("got %q", got)
	}
}

func TestSummaryPolar(t *testing.T) {
	a := New(nuussuaq(t), 2020, "Nuussuaq")
	s := a.Summary()

	if s.PolarDays <= 0 || s.PolarNights <= 0 {
		t.Fatalf("expected both polar counts positive, got %d and %d", s.PolarDays, s.PolarNights)
	}
	if s.PolarDays+s.PolarNights >= 366 {
		t.Errorf("polar dates %d+%d should not cover the year", s.PolarDays, s.PolarNights)
	}

	if s.PolarDayRun == nil || s.PolarNightRun == nil {
		t.Fatal("expected both runs present")
	}
	// The midnight sun holds through the summer months.
	if m := s.PolarDayRun.Start.Month; m < time.March || m > time.May {
		t.Errorf("polar day starts %v, expected spring", s.PolarDayRun.Start)
	}
	if m := s.PolarDayRun.End.Month; m < time.July || m > time.September {
		t.Errorf("polar day ends %v, expected late summer", s.PolarDayRun.End)
	}
	// The polar night wraps the new year: it starts in late autumn and
	// ends the following January.
	if m := s.PolarNightRun.Start.Month; m < time.October {
		t.Errorf("polar night starts %v, expected late autumn", s.PolarNightRun.Start)
	}
	if m := s.PolarNightRun.End.Month; m > time.February {
		t.Errorf("polar night ends %v, expected midwinter", s.PolarNightRun.End)
	}
}

func TestSummaryTemperate(t *testing.T) {
	a := New(parisUTC(t), 2021, "Paris")
	s := a.Summary()
	if s.PolarDays != 0 || s.PolarNights != 0 {
		t.Fatalf("Paris reported polar dates: %+v", s)
	}
	if s.PolarDayRun != nil || s.PolarNightRun != nil {
		t.Fatal("Paris reported polar runs")
	}
	if got := s.String(); !strings.Contains(got, "no polar") {
		t.Errorf("summary %q should say there is no polar condition", got)
	}
}

func TestWriteCSV(t *testing.T) {
	a := New(parisUTC(t), 2021, "Paris")
	var buf bytes.Buffer
	if err := a.WriteCSV(&buf, ""); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 366 { // header plus 365 dates
		t.Fatalf("got %d records, want 366", len(records))
	}

	wantHeader := []string{
		"month", "day",
		"hrise_utc", "mrise_utc", "hset_utc", "mset_utc",
		"duration",
		"hrise_local", "mrise_local", "hset_local", "mset_local",
	}
	if diff := cmp.Diff(wantHeader, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	jan6 := records[6]
	want := []string{"1", "6", "7", "43", "16", "12", "8h 29mn", "7", "43", "16", "12"}
	if diff := cmp.Diff(want, jan6); diff != "" {
		t.Errorf("January 6 record mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	a := New(nuussuaq(t), 2020, "Nuussuaq")
	var buf bytes.Buffer
	if err := a.WriteJSON(&buf, ""); err != nil {
		t.Fatal(err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 366 {
		t.Fatalf("got %d rows, want 366", len(rows))
	}
	// January 6 is deep in the polar night.
	if got := rows[5]["rise_utc"]; got != "PN" {
		t.Errorf("rise_utc = %v, want \"PN\"", got)
	}
	if got, ok := rows[5]["duration"].(string); !ok || !strings.Contains(got, "not calculable") {
		t.Errorf("duration = %v, want a not-calculable marker", rows[5]["duration"])
	}
}

func TestFilename(t *testing.T) {
	a := New(parisUTC(t), 2021, "Paris Notre-Dame")
	if got, want := a.Filename(JSON), "2021_Paris_Notre-Dame_sun_timetable.json"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	b := New(parisUTC(t), 2020, "King's Landing")
	if got, want := b.Filename(CSV), "2020_King-s_Landing_sun_timetable.csv"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
