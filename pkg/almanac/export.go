package almanac

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects a timetable encoding.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// WriteJSON writes the year's timetable as a JSON array of rows.
func (a *Almanac) WriteJSON(w io.Writer, where string) error {
	rows, err := a.Rows(where)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(rows)
}

// WriteCSV writes the year's timetable with one record per date.
func (a *Almanac) WriteCSV(w io.Writer, where string) error {
	rows, err := a.Rows(where)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"month", "day",
		"hrise_utc", "mrise_utc", "hset_utc", "mset_utc",
		"duration",
		"hrise_local", "mrise_local", "hset_local", "mset_local",
	}
	if where != "" {
		header = append(header, "hrise_where", "mrise_where", "hset_where", "mset_where")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{strconv.Itoa(r.Month), strconv.Itoa(r.Day)}
		rec = append(rec, r.RiseUTC.fields()...)
		rec = append(rec, r.SetUTC.fields()...)
		rec = append(rec, r.Duration)
		rec = append(rec, r.RiseLocal.fields()...)
		rec = append(rec, r.SetLocal.fields()...)
		if r.RiseWhere != nil && r.SetWhere != nil {
			rec = append(rec, r.RiseWhere.fields()...)
			rec = append(rec, r.SetWhere.fields()...)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the export file name for the almanac, following the
// "<year>_<place>_sun_timetable.<ext>" convention. Spaces in the place
// name become underscores and apostrophes become dashes.
func (a *Almanac) Filename(f Format) string {
	name := strings.ReplaceAll(a.name, " ", "_")
	name = strings.ReplaceAll(name, "'", "-")
	return fmt.Sprintf("%d_%s_sun_timetable.%s", a.year, name, f)
}

// WriteFile writes the timetable into dir and returns the full path.
func (a *Almanac) WriteFile(dir string, f Format, where string) (string, error) {
	path := filepath.Join(dir, a.Filename(f))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	switch f {
	case JSON:
		err = a.WriteJSON(file, where)
	case CSV:
		err = a.WriteCSV(file, where)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		file.Close()
		return "", err
	}
	return path, file.Close()
}
