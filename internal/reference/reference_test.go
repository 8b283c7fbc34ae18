package reference

import (
	"testing"
	"time"
)

func TestAllRefsGatesOnAllThree(t *testing.T) {
	r := New(1)
	if r.AllRefs() {
		t.Fatal("AllRefs() true before anything set")
	}
	r.SetLat(34.0)
	if r.AllRefs() {
		t.Fatal("AllRefs() true after only lat set")
	}
	r.SetLon(-118.0)
	if r.AllRefs() {
		t.Fatal("AllRefs() true after lat+lon but no start time")
	}
	r.SetStartTime(time.Now())
	if !r.AllRefs() {
		t.Fatal("AllRefs() false after lat, lon, and start time set")
	}
}

func TestAdvanceTime(t *testing.T) {
	r := New(1)
	r.AdvanceTime(1.0)
	if r.TimeOffset != 1.0 || r.TimeSinceLast != 1.0 {
		t.Fatalf("after first advance: offset=%v sinceLast=%v", r.TimeOffset, r.TimeSinceLast)
	}
	r.AdvanceTime(2.5)
	if r.TimeOffset != 2.5 || r.TimeSinceLast != 1.5 {
		t.Fatalf("after second advance: offset=%v sinceLast=%v", r.TimeOffset, r.TimeSinceLast)
	}
}
