package cache

import (
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	c := NewTimed(5 * time.Minute)

	tstart := time.Now()

	c.set("key", []byte("value"), tstart)

	_, ok := c.get("key", tstart.Add(time.Minute))
	if !ok {
		t.Errorf("failed to get key that should not be expired")
	}

	_, ok = c.get("key", tstart.Add(10*time.Minute))
	if ok {
		t.Errorf("succeeded in getting expired key")
	}

	_, ok = c.get("key", tstart.Add(time.Minute))
	if ok {
		t.Errorf("succeeded in getting key that was previously evicted")
	}
}

func TestTimedDistinctKeys(t *testing.T) {
	c := NewTimed(time.Hour)
	c.Set("lat=48&date=2021-01-06", []byte("7:43"))
	c.Set("lat=48&date=2021-06-21", []byte("3:47"))

	got, ok := c.Get("lat=48&date=2021-01-06")
	if !ok || string(got) != "7:43" {
		t.Errorf("got %q, %v", got, ok)
	}
	got, ok = c.Get("lat=48&date=2021-06-21")
	if !ok || string(got) != "3:47" {
		t.Errorf("got %q, %v", got, ok)
	}
}
