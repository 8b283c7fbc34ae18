// Package track defines the per-object record maintained by the Store
// (internal/store) and mutated by the line parser (internal/parser) and
// velocity update on every observation of the same Tacview object.
package track

import (
	"time"

	"github.com/rhino11/tacenrich/internal/classify"
	"github.com/rhino11/tacenrich/internal/geodesy"
)

// ParentUnset is the sentinel value for Parent/Impacted before a match is
// recorded.
const ParentUnset = 0

// DistUnset is the sentinel distance for ParentDist/ImpactDist before a
// match is recorded.
const DistUnset = -1.0

// defaultAltitude is assigned to a newly created Object so that ships
// with an absent altitude still sort sanely against aircraft.
const defaultAltitude = 1.0

// Object is one tracked entity's accumulated state.
type Object struct {
	TacID     int64
	ID        int64
	SessionID int64

	FirstSeen         float64
	LastSeen          float64
	SecsSinceLastSeen float64
	Updates           int

	Name      string
	Type      string
	Color     string
	Country   string
	Coalition string
	Pilot     string
	Group     string

	Lat, Lon, Alt    float64
	Roll, Pitch, Yaw float64
	UCoord, VCoord   float64
	Heading          float64
	CartCoords       geodesy.Point
	hasCartCoords    bool

	Alive        bool
	Written      bool
	CanBeParent  bool
	ShouldParent bool
	Category     classify.Category

	Parent     int64
	ParentDist float64
	Impacted   int64
	ImpactDist float64

	VelocityKts float64

	// Extra holds descriptor keys the parser did not recognize, keyed
	// verbatim by their stream name, for forward compatibility instead of
	// silent loss.
	Extra map[string]string
}

// New creates an Object for a tac_id freshly observed at the given
// reference time offset.
func New(tacID, sessionID int64, firstSeen float64) *Object {
	return &Object{
		TacID:      tacID,
		SessionID:  sessionID,
		FirstSeen:  firstSeen,
		LastSeen:   firstSeen,
		Updates:    1,
		Alive:      true,
		Alt:        defaultAltitude,
		Parent:     ParentUnset,
		ParentDist: DistUnset,
		Impacted:   ParentUnset,
		ImpactDist: DistUnset,
		Extra:      make(map[string]string),
	}
}

// Observe records a re-sighting of an already-known object at the given
// reference time offset: bumps Updates, recomputes SecsSinceLastSeen,
// and advances LastSeen.
func (o *Object) Observe(now float64) {
	o.SecsSinceLastSeen = now - o.LastSeen
	o.LastSeen = now
	o.Updates++
}

// ApplyKV assigns one decoded key/value pair from an update line onto the
// record. Interprets "Group" as Group (the stream's reserved-word-prone
// "Group" field) and every other key as a descriptor string; unknown keys
// are preserved in Extra rather than dropped — the stream must never abort
// on a key this build doesn't recognize.
func (o *Object) ApplyKV(key, value string) {
	switch key {
	case "Name":
		o.Name = value
	case "Type":
		o.Type = value
	case "Color":
		o.Color = value
	case "Country":
		o.Country = value
	case "Coalition":
		o.Coalition = value
	case "Pilot":
		o.Pilot = value
	case "Group":
		o.Group = value
	default:
		o.Extra[key] = value
	}
}

// ClassifyIfFirstSeen runs the classifier exactly once, when Updates==1
// and Type is known: CanBeParent and ShouldParent are pure functions of
// Type, set once and never revisited.
func (o *Object) ClassifyIfFirstSeen() {
	if o.Updates != 1 || o.Type == "" {
		return
	}
	o.Category = classify.Classify(o.Type)
	o.CanBeParent = classify.CanBeParent(o.Type)
	o.ShouldParent = classify.ShouldHaveParent(o.Type)
}

// UpdateVelocity implements C5: given the record's current lat/lon/alt,
// recompute its ECEF position and, where a prior position and a non-zero
// elapsed time exist, its knots velocity.
//
// If CartCoords was never set, or SecsSinceLastSeen is zero, the prior
// VelocityKts is left untouched rather than read as an implicit zero —
// see DESIGN.md Open Question 4. A freshly computed zero velocity also
// never overwrites a previously recorded non-zero one.
func (o *Object) UpdateVelocity() {
	newCoords := geodesy.ToECEF(o.Lat, o.Lon, o.Alt)

	var computed float64
	haveComputed := false
	if o.hasCartCoords && o.SecsSinceLastSeen > 0 {
		d := geodesy.Dist(newCoords, o.CartCoords)
		computed = geodesy.MetersPerSecondToKnots(d / o.SecsSinceLastSeen)
		haveComputed = true
	}

	o.CartCoords = newCoords
	o.hasCartCoords = true

	if haveComputed && computed != 0 {
		o.VelocityKts = computed
	}
}

// HasCartCoords reports whether CartCoords has been populated at least
// once (i.e. UpdateVelocity has run).
func (o *Object) HasCartCoords() bool {
	return o.hasCartCoords
}

// Age returns how long ago (in reference-time seconds) the object was
// last observed relative to asOf.
func (o *Object) Age(asOf float64) float64 {
	return asOf - o.LastSeen
}

// SightedAt converts a reference-relative offset in seconds (such as
// LastSeen) into wall-clock time by adding it to start.
func SightedAt(start time.Time, offset float64) time.Time {
	return start.Add(time.Duration(offset * float64(time.Second)))
}
