package data

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Place is a saved observation point. Coordinates follow the engine's
// conventions: longitude east positive, latitude north positive, altitude
// in meters.
type Place struct {
	gorm.Model
	Name      string
	Longitude float64
	Latitude  float64
	Altitude  float64
	Zone      string
	LastSeen  time.Time
}

func PostgresFromEnvOrDie() *gorm.DB {
	pw := os.Getenv("PGPASSWORD")
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=suntimes port=%s sslmode=disable TimeZone=UTC",
		host,
		pw,
		port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect to database")
	}
	db.AutoMigrate(&Place{})
	return db
}
