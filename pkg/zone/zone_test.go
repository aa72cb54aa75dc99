package zone

import (
	"errors"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	loc, err := Default("Europe/Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "Europe/Paris" {
		t.Errorf("got %q, wanted Europe/Paris", loc)
	}
}

func TestDefaultSystem(t *testing.T) {
	for _, name := range []string{System, ""} {
		loc, err := Default(name)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", name, err)
		}
		if loc != time.Local {
			t.Errorf("Default(%q) = %v, wanted the system zone", name, loc)
		}
	}
}

func TestDefaultUnknown(t *testing.T) {
	_, err := Default("Mars/Olympus_Mons")
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("got %v, wanted ErrUnknown", err)
	}
}

func TestFixed(t *testing.T) {
	resolve := Fixed(time.UTC)
	loc, err := resolve("anything at all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("got %v, wanted UTC", loc)
	}
}
