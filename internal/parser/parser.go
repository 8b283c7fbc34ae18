// Package parser decodes one ACMI text line into a field update against
// the Store (internal/store), allocating a new Object (internal/track)
// on first sight of a tac_id.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rhino11/tacenrich/internal/contact"
	"github.com/rhino11/tacenrich/internal/reference"
	"github.com/rhino11/tacenrich/internal/store"
	"github.com/rhino11/tacenrich/internal/track"
)

// ParseError reports a malformed line along with enough context for a
// driver to log and skip it.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse line %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingReferenceError is returned when an update line arrives before
// the Reference has all its required fields.
type MissingReferenceError struct{ TacID int64 }

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("update for tac_id %x arrived before reference was complete", e.TacID)
}

// LookupMissError is returned when a death marker names an unknown
// tac_id; it is a warning-level condition, not a hard failure.
type LookupMissError struct{ TacID int64 }

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("death marker for unknown tac_id %x", e.TacID)
}

// coordField and coordLayouts describe how a `|`-delimited T= value maps
// onto Object fields, keyed by the number of `|` delimiters. This table-driven form
// is the authoritative mapping from delimiter count to field order.
type coordField int

const (
	fLon coordField = iota
	fLat
	fAlt
	fRoll
	fPitch
	fYaw
	fU
	fV
	fHeading
)

var coordLayouts = map[int][]coordField{
	2: {fLon, fLat, fAlt},
	4: {fLon, fLat, fAlt, fU, fV},
	5: {fLon, fLat, fAlt, fRoll, fPitch, fYaw},
	8: {fLon, fLat, fAlt, fRoll, fPitch, fYaw, fU, fV, fHeading},
}

// ParseLine decodes one ACMI line against ref and s, using m for any
// contact-matcher lookup the line triggers. rec is non-nil for update
// lines and for death-marker lines (the object just marked dead), and nil
// for time-advance and header lines; impactDetected is true iff a death
// marker line found a contact under IMPACT mode.
func ParseLine(ref *reference.Reference, s *store.Store, line string, m contact.Matcher) (rec *track.Object, impactDetected bool, err error) {
	switch {
	case strings.HasPrefix(line, "#"):
		return parseTimeAdvance(ref, line)
	case strings.HasPrefix(line, "0,"):
		return nil, false, parseHeader(ref, line)
	case strings.HasPrefix(line, "-"):
		return parseDeathMarker(ref, s, line, m)
	default:
		return parseUpdate(ref, s, line, m)
	}
}

func parseTimeAdvance(ref *reference.Reference, line string) (*track.Object, bool, error) {
	tail := strings.TrimPrefix(line, "#")
	offset, err := strconv.ParseFloat(tail, 64)
	if err != nil {
		return nil, false, &ParseError{Line: line, Err: fmt.Errorf("bad time offset: %w", err)}
	}
	ref.AdvanceTime(offset)
	return nil, false, nil
}

func parseHeader(ref *reference.Reference, line string) error {
	rest := strings.TrimPrefix(line, "0,")
	for _, chunk := range strings.Split(rest, ",") {
		key, value, ok := splitFirstEquals(chunk)
		if !ok {
			continue
		}
		switch key {
		case "ReferenceLatitude":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return &ParseError{Line: line, Err: fmt.Errorf("bad ReferenceLatitude: %w", err)}
			}
			ref.SetLat(v)
		case "ReferenceLongitude":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return &ParseError{Line: line, Err: fmt.Errorf("bad ReferenceLongitude: %w", err)}
			}
			ref.SetLon(v)
		case "ReferenceTime", "RecordingTime":
			t, err := parseISOTime(value)
			if err != nil {
				return &ParseError{Line: line, Err: fmt.Errorf("bad %s: %w", key, err)}
			}
			ref.SetStartTime(t)
		case "DataSource":
			ref.DataSource = value
		case "Title":
			ref.Title = value
		case "Author":
			ref.Author = value
		case "FileVersion":
			v, err := strconv.ParseFloat(value, 64)
			if err == nil {
				ref.FileVersion = v
			}
		}
		// Unknown header keys are tolerated silently.
	}
	return nil
}

// parseISOTime parses an ISO-8601 timestamp with microsecond precision
// and a trailing Z, coercing to whole seconds UTC.
func parseISOTime(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.999999Z", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(time.Second).UTC(), nil
}

func parseDeathMarker(ref *reference.Reference, s *store.Store, line string, m contact.Matcher) (*track.Object, bool, error) {
	hexID := strings.TrimPrefix(line, "-")
	tacID, err := strconv.ParseInt(hexID, 16, 64)
	if err != nil {
		return nil, false, &ParseError{Line: line, Err: fmt.Errorf("bad tac_id: %w", err)}
	}

	obj := s.Get(tacID)
	if obj == nil {
		return nil, false, &LookupMissError{TacID: tacID}
	}

	obj.Alive = false
	obj.Updates++

	res, ok := contact.Find(obj, s, contact.Impact, m)
	if ok {
		obj.Impacted = res.WinnerID
		obj.ImpactDist = res.Dist
	}
	return obj, ok, nil
}

func parseUpdate(ref *reference.Reference, s *store.Store, line string, m contact.Matcher) (*track.Object, bool, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return nil, false, &ParseError{Line: line, Err: fmt.Errorf("expected HEXID,T=...")}
	}

	tacID, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil {
		return nil, false, &ParseError{Line: line, Err: fmt.Errorf("bad tac_id: %w", err)}
	}

	tKey, tVal, ok := splitFirstEquals(parts[1])
	if !ok || tKey != "T" {
		return nil, false, &ParseError{Line: line, Err: fmt.Errorf("expected T= as second field")}
	}

	if !ref.AllRefs() {
		return nil, false, &MissingReferenceError{TacID: tacID}
	}

	// Decode against a scratch object first so a malformed T= value fails
	// the line before the Store or an existing record is touched.
	if err := applyCoords(ref, track.New(tacID, ref.SessionID, ref.TimeOffset), tVal); err != nil {
		return nil, false, &ParseError{Line: line, Err: err}
	}

	obj, created := s.GetOrCreate(tacID, func() *track.Object {
		return track.New(tacID, ref.SessionID, ref.TimeOffset)
	})
	if !created {
		obj.Observe(ref.TimeOffset)
	}

	if err := applyCoords(ref, obj, tVal); err != nil {
		return nil, false, &ParseError{Line: line, Err: err}
	}

	for _, chunk := range parts[2:] {
		key, value, ok := splitFirstEquals(chunk)
		if !ok {
			continue
		}
		obj.ApplyKV(key, value)
	}

	obj.ClassifyIfFirstSeen()
	obj.UpdateVelocity()

	if obj.Updates == 1 && obj.ShouldParent {
		if res, ok := contact.Find(obj, s, contact.Parent, m); ok {
			obj.Parent = res.WinnerID
			obj.ParentDist = res.Dist
		}
	}

	return obj, false, nil
}

// applyCoords decodes the `|`-delimited T= value per the layout table
// keyed by delimiter count. Empty positional fields are left unchanged
// on the object, never coerced to zero.
func applyCoords(ref *reference.Reference, obj *track.Object, tVal string) error {
	fields := strings.Split(tVal, "|")
	layout, ok := coordLayouts[len(fields)-1]
	if !ok {
		return fmt.Errorf("unexpected coordinate field count: %d", len(fields))
	}

	for i, raw := range fields {
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("bad coordinate field %d: %w", i, err)
		}
		switch layout[i] {
		case fLon:
			obj.Lon = ref.Lon + v
		case fLat:
			obj.Lat = ref.Lat + v
		case fAlt:
			obj.Alt = v
		case fRoll:
			obj.Roll = v
		case fPitch:
			obj.Pitch = v
		case fYaw:
			obj.Yaw = v
		case fU:
			obj.UCoord = v
		case fV:
			obj.VCoord = v
		case fHeading:
			obj.Heading = v
		}
	}
	return nil
}

// splitFirstEquals splits a KEY=VALUE chunk on the first '=' only, since
// values may themselves contain '='.
func splitFirstEquals(chunk string) (key, value string, ok bool) {
	idx := strings.IndexByte(chunk, '=')
	if idx < 0 {
		return "", "", false
	}
	return chunk[:idx], chunk[idx+1:], true
}
