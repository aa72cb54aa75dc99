// sunbeacon publishes the day's sunrise and sunset to an MQTT broker
// once per day, as a retained JSON message that home automations can
// pick up at any time.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"regexp"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/spencer-p/suntimes/pkg/almanac"
	"github.com/spencer-p/suntimes/pkg/suncalc"
	"github.com/spencer-p/suntimes/pkg/timetricks"
)

var serverURLRe = regexp.MustCompile(`^[a-z]+://.*:[0-9]{1,5}$`)

var (
	server   = flag.String("server", "", "MQTT broker, URL format with port, e.g. tcp://localhost:1883")
	username = flag.String("username", "", "MQTT username")
	password = flag.String("password", "", "MQTT password")
	topic    = flag.String("topic", "suntimes/today", "topic to publish on")
	lat      = flag.Float64("lat", 48.852968, "latitude in degrees, north positive")
	lon      = flag.Float64("lon", 2.349902, "longitude in degrees, east positive")
	alt      = flag.Float64("alt", 0, "altitude in meters above sea level")
)

// announcement is the retained message payload. Rise and set carry a
// polar code instead of a clock on polar dates.
type announcement struct {
	Date     string        `json:"date"`
	Rise     almanac.Stamp `json:"rise"`
	Set      almanac.Stamp `json:"set"`
	Polar    bool          `json:"polar"`
	Duration string        `json:"duration"`
}

func announce(client mqtt.Client, place *suncalc.SunTimes, date time.Time) {
	rise, set := place.RiseUTC(date), place.SetUTC(date)
	msg := announcement{
		Date:     date.Format("2006-01-02"),
		Rise:     almanac.StampOf(rise),
		Set:      almanac.StampOf(set),
		Polar:    rise.Polar(),
		Duration: place.DayLength(date).String(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("cannot encode announcement: %v", err)
		return
	}
	if tok := client.Publish(*topic, 0, true, payload); tok.Wait() && tok.Error() != nil {
		log.Printf("publish failed: %v", tok.Error())
		return
	}
	log.Printf("announced %s on %s", payload, *topic)
}

func main() {
	flag.Parse()

	// check if we are running under systemd, and if so, dont output timestamps
	if a, b := os.Getenv("INVOCATION_ID"), os.Getenv("JOURNAL_STREAM"); a != "" && b != "" {
		log.SetFlags(0)
	}

	if *server == "" {
		log.Fatal("MQTT server not specified")
	} else if !serverURLRe.MatchString(*server) {
		log.Fatal("invalid MQTT server: needs to be in URL format with port")
	}

	place, err := suncalc.New(*lon, *lat, *alt)
	if err != nil {
		log.Fatal(err)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(*server).
		SetUsername(*username).
		SetPassword(*password).
		SetClientID("sunbeacon").
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(2 * time.Second).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	log.Printf("connecting to MQTT broker %v...", *server)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		log.Fatalf("cannot connect to MQTT broker: %v", tok.Error())
	}

	for {
		now := time.Now().UTC()
		announce(client, place, now)

		// sleep until the next UTC midnight
		next := timetricks.TrimClock(now).AddDate(0, 0, 1)
		time.Sleep(time.Until(next))
	}
}
