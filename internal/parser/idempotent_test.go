package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rhino11/tacenrich/internal/contact"
	"github.com/rhino11/tacenrich/internal/reference"
	"github.com/rhino11/tacenrich/internal/store"
	"github.com/rhino11/tacenrich/internal/track"
)

// TestParsingIsIdempotentGivenIdenticalPriorState asserts that parsing a
// line twice against identical prior state yields identical record state
// (a single snapshot compared field-by-field with go-cmp, since
// track.Object carries unexported bookkeeping that a plain == comparison
// cannot see).
func TestParsingIsIdempotentGivenIdenticalPriorState(t *testing.T) {
	line := "102,T=1.0|2.0|100,Type=Air+FixedWing,Color=Blue"

	run := func() *track.Object {
		ref := reference.New(1)
		ref.SetLat(0)
		ref.SetLon(0)
		st, _ := parseISOTime("2024-01-01T00:00:00.000000Z")
		ref.SetStartTime(st)
		s := store.New()
		rec, _, err := ParseLine(ref, s, line, contact.DefaultMatcher())
		if err != nil {
			t.Fatalf("ParseLine error: %v", err)
		}
		return rec
	}

	a := run()
	b := run()

	if diff := cmp.Diff(a, b, cmp.AllowUnexported(track.Object{})); diff != "" {
		t.Fatalf("parsing the identical line against identical prior state diverged (-a +b):\n%s", diff)
	}
}
