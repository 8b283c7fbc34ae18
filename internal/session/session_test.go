package session

import "testing"

func TestProcessLineEndToEnd(t *testing.T) {
	s := New(42)
	if _, _, err := s.ProcessLine("0,ReferenceLatitude=0,ReferenceLongitude=0,ReferenceTime=2024-01-01T00:00:00.000000Z"); err != nil {
		t.Fatalf("header: %v", err)
	}
	if !s.Ref.AllRefs() {
		t.Fatal("reference not complete after header lines")
	}

	rec, _, err := s.ProcessLine("102,T=1.0|2.0|100,Type=Air+FixedWing,Color=Blue,Name=Eagle11")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Name != "Eagle11" {
		t.Fatalf("Name = %q, want Eagle11", rec.Name)
	}
	if rec.SessionID != 42 {
		t.Fatalf("SessionID = %d, want 42", rec.SessionID)
	}
	if len(s.Objects()) != 1 {
		t.Fatalf("len(Objects()) = %d, want 1", len(s.Objects()))
	}
}

func TestTwoSessionsDoNotShareState(t *testing.T) {
	a := New(1)
	b := New(2)
	a.Ref.SetLat(1)
	a.Ref.SetLon(1)
	if b.Ref.Lat != 0 || b.Ref.Lon != 0 {
		t.Fatal("sessions share Reference state")
	}
}
