package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
)

func newRouter() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	Register(r, "/")
	return r
}

func get(t *testing.T, r *mux.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestServeSun(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/api/v1/sun?lat=48.852968&lon=2.349902&alt=35&date=2021-01-06")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}

	var resp struct {
		Date string `json:"date"`
		Rise struct {
			Hour   int `json:"hour"`
			Minute int `json:"minute"`
		} `json:"rise"`
		Set struct {
			Hour   int `json:"hour"`
			Minute int `json:"minute"`
		} `json:"set"`
		Duration string `json:"duration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Date != "2021-01-06" {
		t.Errorf("date = %q", resp.Date)
	}
	if resp.Rise.Hour != 7 || resp.Rise.Minute != 43 {
		t.Errorf("rise = %d:%02d, want 7:43", resp.Rise.Hour, resp.Rise.Minute)
	}
	if resp.Set.Hour != 16 || resp.Set.Minute != 12 {
		t.Errorf("set = %d:%02d, want 16:12", resp.Set.Hour, resp.Set.Minute)
	}
	if resp.Duration != "8h 29mn" {
		t.Errorf("duration = %q", resp.Duration)
	}
}

func TestServeSunPolar(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/api/v1/sun?lat=74.11666667&lon=-57.06666667&date=2021-01-06")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("PN", resp["rise"]); diff != "" {
		t.Errorf("rise mismatch (-want +got):\n%s", diff)
	}
	if got, _ := resp["duration"].(string); !strings.Contains(got, "not calculable") {
		t.Errorf("duration = %v", resp["duration"])
	}
}

func TestServeSunBadRequests(t *testing.T) {
	r := newRouter()
	table := []struct {
		name   string
		target string
	}{
		{"missing coordinates", "/api/v1/sun"},
		{"latitude out of range", "/api/v1/sun?lat=91&lon=0"},
		{"negative altitude", "/api/v1/sun?lat=0&lon=0&alt=-1"},
		{"garbage date", "/api/v1/sun?lat=0&lon=0&date=yesterday"},
		{"unknown zone", "/api/v1/sun?lat=0&lon=0&date=2021-01-06&zone=Atlantis/Sunken_City"},
	}
	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			if rec := get(t, r, tc.target); rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestServeSunCached(t *testing.T) {
	r := newRouter()
	target := "/api/v1/sun?lat=48.852968&lon=2.349902&date=2021-06-21"
	first := get(t, r, target)
	if first.Code != http.StatusOK {
		t.Fatalf("status %d", first.Code)
	}
	second := get(t, r, target)
	if diff := cmp.Diff(first.Body.String(), second.Body.String()); diff != "" {
		t.Errorf("cached response differs (-first +second):\n%s", diff)
	}
}

func TestServeAlmanacCSV(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/api/v1/almanac?lat=48.852968&lon=2.349902&alt=35&year=2021&format=csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 366 { // header plus 365 dates
		t.Errorf("got %d lines, want 366", len(lines))
	}
	if !strings.HasPrefix(lines[0], "month,day,") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestServeAlmanacJSON(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/api/v1/almanac?lat=48.852968&lon=2.349902&year=2021")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 365 {
		t.Errorf("got %d rows, want 365", len(rows))
	}
}

func TestServeAlmanacBadFormat(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/api/v1/almanac?lat=0&lon=0&year=2021&format=xml")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeChart(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/api/v1/chart?lat=48.852968&lon=2.349902&year=2021")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type %q", ct)
	}
	if body := rec.Body.String(); !strings.HasPrefix(body, "<svg") {
		t.Errorf("body does not look like SVG: %.40q", body)
	}
}

func TestIndexDefaultPlace(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Paris Notre-Dame") {
		t.Error("index does not show the default place")
	}
}

func TestConfigGetDefaultPlace(t *testing.T) {
	r := newRouter()
	rec := get(t, r, "/config")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "48.852968") {
		t.Error("config form does not show the default latitude")
	}
}

func TestPathJoinPreservePrefix(t *testing.T) {
	table := []struct {
		prefix, suffix, want string
	}{
		{"/", "/", "/"},
		{"/", "/config", "/config"},
		{"/sun/", "/", "/sun/"},
		{"/sun/", "/config", "/sun/config"},
	}
	for _, tc := range table {
		if got := pathJoinPreservePrefix(tc.prefix, tc.suffix); got != tc.want {
			t.Errorf("pathJoinPreservePrefix(%q, %q) = %q, want %q", tc.prefix, tc.suffix, got, tc.want)
		}
	}
}
