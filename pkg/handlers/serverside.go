package handlers

import (
	"crypto/sha1"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/spencer-p/suntimes/pkg/data"
	"github.com/spencer-p/suntimes/pkg/metrics"
	"github.com/spencer-p/suntimes/pkg/suncalc"
	"github.com/spencer-p/suntimes/pkg/timetricks"
	"github.com/spencer-p/suntimes/pkg/zone"
	"golang.org/x/crypto/pbkdf2"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

//go:embed static
var content embed.FS

const (
	sessionName       = "suntimes"
	sessionLastViewed = "last-viewed-referrer"
	placeID           = "placeid"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.

	forecastDays = 7
)

var (
	store = &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			getSessionKey(),
			getEncryptionKey(),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}

	dbOnce sync.Once
	db     *gorm.DB
)

func init() {
	store.MaxAge(defaultMaxAge)
}

// database connects lazily so that handlers which never touch a saved
// place do not need Postgres at all.
func database() *gorm.DB {
	dbOnce.Do(func() {
		db = data.PostgresFromEnvOrDie()
	})
	return db
}

// defaultPlace is shown to visitors who have not saved a place of
// their own.
var defaultPlace = data.Place{
	Name:      "Paris Notre-Dame",
	Longitude: 2.349902,
	Latitude:  48.852968,
	Altitude:  35,
	Zone:      zone.System,
}

type TemplateInput struct {
	Name string
	Zone string
	Days []DayRow
}

type DayRow struct {
	Date   string
	Rise   string
	Set    string
	Length string
}

// serverSideIndex serves the week's sun times fully rendered on the server.
func makeServerSideIndex() http.HandlerFunc {
	indexTemplate := template.Must(template.ParseFS(content, "static/index.template.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[placeID])
		session.Values[sessionLastViewed] = r.URL.String()
		if err := session.Save(r, w); err != nil {
			log.Println("save session err", err)
		}

		saved := placeFromSession(session)
		place, err := suncalc.New(saved.Longitude, saved.Latitude, saved.Altitude)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Saved place is unusable: %v", err)
			log.Printf("Saved place is unusable: %v", err)
			return
		}

		tinput := TemplateInput{Name: saved.Name, Zone: saved.Zone}
		start := timetricks.TrimClock(time.Now().UTC())
		for i := 0; i < forecastDays; i++ {
			d := start.AddDate(0, 0, i)
			rise, err := place.RiseIn(d, saved.Zone)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "Failed to compute sun times: %v", err)
				log.Printf("Failed to compute sun times: %v", err)
				return
			}
			set, err := place.SetIn(d, saved.Zone)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "Failed to compute sun times: %v", err)
				log.Printf("Failed to compute sun times: %v", err)
				return
			}
			tinput.Days = append(tinput.Days, DayRow{
				Date:   d.Format("Mon 01/02"),
				Rise:   rise.String(),
				Set:    set.String(),
				Length: place.DayLength(d).String(),
			})
		}

		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if err := indexTemplate.Execute(w, tinput); err != nil {
			log.Printf("Failed to execute template: %v", err)
		}
	})
}

// placeFromSession returns the visitor's saved place, falling back to the
// default. A failed db lookup is fine; they get the default too.
func placeFromSession(s *sessions.Session) data.Place {
	id, ok := s.Values[placeID]
	if !ok {
		return defaultPlace
	}

	var saved data.Place
	if r := database().First(&saved, id); r.Error != nil {
		log.Printf("Failed to find place %v: %v", id, r.Error)
		return defaultPlace
	}

	// Log the time since we last saw this place's visitor.
	if !saved.LastSeen.IsZero() {
		log.Printf("Place %d (%q) was last seen %s ago", saved.ID, saved.Name, time.Since(saved.LastSeen))
	}
	saved.LastSeen = time.Now()
	database().Save(&saved)

	if saved.Zone == "" {
		saved.Zone = zone.System
	}
	return saved
}

func makeConfigPlace(redirectPrefix string) http.HandlerFunc {
	configTemplate := template.Must(template.ParseFS(content, "static/config_place.template.html"))

	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[placeID])

		if r.Method == "GET" {
			session.Save(r, w)
			saved := placeFromSession(session)
			if err := configTemplate.Execute(w, saved); err != nil {
				log.Printf("Failed to write configTemplate: %v", err)
			}
			return
		}
		// The remainder of this function assumes method is POST.
		if r.Method != "POST" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := r.ParseForm(); err != nil {
			msg := fmt.Sprintf("Failed to parse form: %v", err)
			log.Println(msg)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, msg)
			return
		}

		var saved data.Place
		if id, ok := session.Values[placeID].(uint); ok {
			// Read-modify-write if the session carries an ID.
			// Otherwise, one will be generated with db.Save later.
			database().First(&saved, id)
		}

		lon, err := strconv.ParseFloat(r.PostForm.Get("lon"), 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Bad longitude: %v", err)
			return
		}
		lat, err := strconv.ParseFloat(r.PostForm.Get("lat"), 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Bad latitude: %v", err)
			return
		}
		var alt float64
		if v := r.PostForm.Get("alt"); v != "" {
			alt, err = strconv.ParseFloat(v, 64)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "Bad altitude: %v", err)
				return
			}
		}
		// Reject coordinates the engine would reject later.
		if _, err := suncalc.New(lon, lat, alt); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Bad place: %v", err)
			return
		}

		zoneName := r.PostForm.Get("zone")
		if zoneName == "" {
			zoneName = zone.System
		}
		if _, err := zone.Default(zoneName); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Bad zone: %v", err)
			return
		}

		saved.Name = r.PostForm.Get("name")
		saved.Longitude = lon
		saved.Latitude = lat
		saved.Altitude = alt
		saved.Zone = zoneName
		saved.LastSeen = time.Now()
		if tx := database().Save(&saved); tx.Error != nil {
			msg := fmt.Sprintf("Failed to save place: %v", tx.Error)
			log.Println(msg)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, msg)
			return
		}
		session.Values[placeID] = saved.ID
		session.Save(r, w)

		// Redirect to whatever they saw last, or the index.
		referredFrom, ok := session.Values[sessionLastViewed].(string)
		if !ok || referredFrom == "/config" {
			referredFrom = "/"
		}
		redirectTo := pathJoinPreservePrefix(redirectPrefix, referredFrom)
		http.Redirect(w, r, redirectTo, http.StatusFound)
	}
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}

// getSessionKey returns a key to encrypt session cookies defined in the
// environment.
// If it is not set, it uses a compile-time default.
func getSessionKey() []byte {
	defaultKey := []byte("deadbeef")
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	}
	return defaultKey
}

func getEncryptionKey() []byte {
	password := "deadbeef"
	if fromEnv := os.Getenv("ENCRYPTION_KEY"); fromEnv != "" {
		password = fromEnv
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}
