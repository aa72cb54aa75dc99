// Package zone resolves timezone identifiers to time.Locations. The
// Resolver type is the capability injected into the suncalc engine, so
// "system local time" is an explicit input rather than ambient state.
package zone

import (
	"errors"
	"fmt"
	"time"
)

// System selects whatever zone the host machine is configured with.
const System = "system"

// ErrUnknown reports a timezone identifier missing from the IANA database.
var ErrUnknown = errors.New("unknown time zone")

// Resolver maps a zone identifier to a location. Implementations must be
// stateless so that engine queries stay referentially transparent.
type Resolver func(name string) (*time.Location, error)

// Default resolves System (or an empty name) to the machine's configured
// zone and everything else through the IANA database.
func Default(name string) (*time.Location, error) {
	if name == System || name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return loc, nil
}

// Fixed returns a resolver that yields loc for every name, System
// included. It pins down "system local time" where determinism matters.
func Fixed(loc *time.Location) Resolver {
	return func(string) (*time.Location, error) {
		return loc, nil
	}
}
