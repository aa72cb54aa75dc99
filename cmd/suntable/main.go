// suntable writes a year's sunrise/sunset timetable for one place to
// JSON and/or CSV files, and prints the polar summary for the year.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/spencer-p/suntimes/pkg/almanac"
	"github.com/spencer-p/suntimes/pkg/suncalc"
)

var (
	name   = flag.String("name", "almanac", "verbose place name used in the file name")
	lat    = flag.Float64("lat", 48.852968, "latitude in degrees, north positive")
	lon    = flag.Float64("lon", 2.349902, "longitude in degrees, east positive")
	alt    = flag.Float64("alt", 0, "altitude in meters above sea level")
	year   = flag.Int("year", time.Now().Year(), "year to tabulate")
	zoneID = flag.String("zone", "", "optional third zone for extra columns, e.g. Europe/Paris")
	dir    = flag.String("dir", ".", "directory to write into")
	format = flag.String("format", "json", "output format: json, csv, or both")
)

func main() {
	flag.Parse()

	place, err := suncalc.New(*lon, *lat, *alt)
	if err != nil {
		log.Fatal(err)
	}
	a := almanac.New(place, *year, *name)

	var formats []almanac.Format
	switch *format {
	case "json":
		formats = []almanac.Format{almanac.JSON}
	case "csv":
		formats = []almanac.Format{almanac.CSV}
	case "both":
		formats = []almanac.Format{almanac.JSON, almanac.CSV}
	default:
		log.Fatalf("unknown format %q: want json, csv, or both", *format)
	}

	for _, f := range formats {
		path, err := a.WriteFile(*dir, f, *zoneID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("wrote", path)
	}

	fmt.Println(a.Summary())
}
