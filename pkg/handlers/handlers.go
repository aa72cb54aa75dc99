package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spencer-p/suntimes/pkg/almanac"
	"github.com/spencer-p/suntimes/pkg/cache"
	"github.com/spencer-p/suntimes/pkg/metrics"
	"github.com/spencer-p/suntimes/pkg/suncalc"
	"github.com/spencer-p/suntimes/pkg/visualize"
	"github.com/spencer-p/suntimes/pkg/zone"

	"github.com/gorilla/mux"
)

const (
	day = 24 * time.Hour

	// cache for slightly less than one day so daily clients don't see
	// stale data
	cacheTTL = 23 * time.Hour

	dateFormat = "2006-01-02"
)

func Register(r *mux.Router, prefix string) {
	r.Handle("/", makeServerSideIndex())
	r.Handle("/config", makeConfigPlace(prefix))
	r.Handle("/api/v1/sun", makeServeSun())
	r.Handle("/api/v1/almanac", makeServeAlmanac())
	r.Handle("/api/v1/chart", makeServeChart())
}

// placeFromQuery builds an engine from the lat, lon, and alt query
// parameters. alt is optional and defaults to sea level.
func placeFromQuery(q url.Values) (*suncalc.SunTimes, error) {
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", q.Get("lat"), err)
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", q.Get("lon"), err)
	}
	var alt float64
	if v := q.Get("alt"); v != "" {
		alt, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad altitude %q: %w", v, err)
		}
	}
	return suncalc.New(lon, lat, alt)
}

// statusForError distinguishes the caller's mistakes from ours.
func statusForError(err error) int {
	if errors.Is(err, suncalc.ErrInvalidLocation) || errors.Is(err, zone.ErrUnknown) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type sunResponse struct {
	Date     string        `json:"date"`
	Zone     string        `json:"zone,omitempty"`
	Rise     almanac.Stamp `json:"rise"`
	Set      almanac.Stamp `json:"set"`
	Duration string        `json:"duration"`
}

func makeServeSun() http.Handler {
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cache based on method and URL, which should encapsulate the query
		key := fmt.Sprintf("%s %s", r.Method, r.URL)
		if cached, ok := timeCache.Get(key); ok {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		q := r.URL.Query()
		place, err := placeFromQuery(q)
		if err != nil {
			w.WriteHeader(statusForError(err))
			fmt.Fprintf(w, "Bad place: %v", err)
			return
		}

		date := time.Now().UTC()
		if s := q.Get("date"); s != "" {
			date, err = time.Parse(dateFormat, s)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "Bad date %q: %v", s, err)
				return
			}
		}

		zoneName := q.Get("zone")
		var rise, set suncalc.Event
		if zoneName == "" {
			rise, set = place.RiseUTC(date), place.SetUTC(date)
		} else {
			rise, err = place.RiseIn(date, zoneName)
			if err == nil {
				set, err = place.SetIn(date, zoneName)
			}
			if err != nil {
				w.WriteHeader(statusForError(err))
				fmt.Fprintf(w, "Bad zone: %v", err)
				return
			}
		}
		metrics.ObserveComputation(rise.Kind().String())

		resp := sunResponse{
			Date:     date.Format(dateFormat),
			Zone:     zoneName,
			Rise:     almanac.StampOf(rise),
			Set:      almanac.StampOf(set),
			Duration: place.DayLength(date).String(),
		}

		var body bytes.Buffer
		if err := json.NewEncoder(&body).Encode(resp); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Printf("Failed to encode sun response: %v", err)
			return
		}

		// save the result asynchonously as the cache may block
		go func() {
			timeCache.Set(key, body.Bytes())
		}()

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body.Bytes())
	})
}

// almanacFromQuery builds a year table from the lat, lon, alt, year, and
// name query parameters. year defaults to the current year.
func almanacFromQuery(q url.Values) (*almanac.Almanac, error) {
	place, err := placeFromQuery(q)
	if err != nil {
		return nil, err
	}
	year := time.Now().UTC().Year()
	if s := q.Get("year"); s != "" {
		year, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", s, err)
		}
	}
	name := q.Get("name")
	if name == "" {
		name = "almanac"
	}
	return almanac.New(place, year, name), nil
}

func makeServeAlmanac() http.Handler {
	// Year tables are 365 computations a pop, so they are worth caching
	// even though a single one is cheap.
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s %s", r.Method, r.URL)
		format := almanac.Format(r.FormValue("format"))
		if format == "" {
			format = almanac.JSON
		}
		contentType := "application/json"
		if format == almanac.CSV {
			contentType = "text/csv"
		}

		if cached, ok := timeCache.Get(key); ok {
			w.Header().Add("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		a, err := almanacFromQuery(r.URL.Query())
		if err != nil {
			w.WriteHeader(statusForError(err))
			fmt.Fprintf(w, "Bad almanac query: %v", err)
			return
		}

		where := r.FormValue("zone")
		var body bytes.Buffer
		switch format {
		case almanac.JSON:
			err = a.WriteJSON(&body, where)
		case almanac.CSV:
			err = a.WriteCSV(&body, where)
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Unknown format %q", format)
			return
		}
		if err != nil {
			w.WriteHeader(statusForError(err))
			fmt.Fprintf(w, "Failed to build almanac: %v", err)
			log.Printf("Failed to build almanac: %v", err)
			return
		}
		metrics.ObserveComputation("almanac")

		go func() {
			timeCache.Set(key, body.Bytes())
		}()

		w.Header().Add("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(body.Bytes())
	})
}

func makeServeChart() http.Handler {
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s %s", r.Method, r.URL)
		if cached, ok := timeCache.Get(key); ok {
			w.Header().Add("Content-Type", "image/svg+xml")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		q := r.URL.Query()
		place, err := placeFromQuery(q)
		if err != nil {
			w.WriteHeader(statusForError(err))
			fmt.Fprintf(w, "Bad place: %v", err)
			return
		}
		year := time.Now().UTC().Year()
		if s := q.Get("year"); s != "" {
			year, err = strconv.Atoi(s)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "Bad year %q: %v", s, err)
				return
			}
		}

		var body bytes.Buffer
		img := visualize.NewDaylight(place, year)
		if _, err := img.Encode(&body); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to render chart: %v", err)
			log.Printf("Failed to render chart: %v", err)
			return
		}
		metrics.ObserveComputation("chart")

		go func() {
			timeCache.Set(key, body.Bytes())
		}()

		w.Header().Add("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write(body.Bytes())
	})
}
