// Package contact implements the nearest-contact matcher: given a
// subject record, find the nearest eligible other record under either
// the IMPACT or PARENT eligibility mode.
package contact

import (
	"github.com/rhino11/tacenrich/internal/classify"
	"github.com/rhino11/tacenrich/internal/geodesy"
	"github.com/rhino11/tacenrich/internal/store"
	"github.com/rhino11/tacenrich/internal/track"
)

// Mode selects the eligibility rules the matcher applies.
type Mode int

const (
	// Impact finds the enemy air unit a weapon most likely struck at
	// the moment of its death marker.
	Impact Mode = iota
	// Parent finds the friendly platform that most likely fired or
	// deployed the subject.
	Parent
)

// defaultRecencyWindowSeconds is how stale a non-ground candidate's last
// sighting may be and still be considered, absent an override.
const defaultRecencyWindowSeconds = 2.5

// defaultParentAcceptMeters is the PARENT-mode acceptance threshold; a
// winner strictly beyond this distance is rejected. IMPACT mode has no
// threshold — any winner is accepted.
const defaultParentAcceptMeters = 200.0

// Matcher carries the matcher's tunable thresholds. A zero-value Matcher
// is not meaningful; build one with DefaultMatcher and override the
// fields a caller needs to change.
type Matcher struct {
	RecencyWindowSeconds float64
	ParentAcceptMeters   float64
}

// DefaultMatcher returns the matcher's built-in thresholds.
func DefaultMatcher() Matcher {
	return Matcher{
		RecencyWindowSeconds: defaultRecencyWindowSeconds,
		ParentAcceptMeters:   defaultParentAcceptMeters,
	}
}

// Result is a successful match.
type Result struct {
	WinnerID int64
	Dist     float64
}

// Find searches store for the nearest object eligible to be paired with
// subject under mode, using m's thresholds. It returns ok=false when no
// eligible candidate exists, or (PARENT mode only) the nearest candidate
// exceeds m.ParentAcceptMeters.
func Find(subject *track.Object, s *store.Store, mode Mode, m Matcher) (Result, bool) {
	if mode == Impact && !(subject.ShouldParent && subject.Category == classify.Weapon) {
		return Result{}, false
	}

	accepted := acceptedColors(subject, mode)

	var candidates []*track.Object
	for _, n := range s.Values() {
		if !eligible(subject, n, mode, accepted, m) {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return Result{}, false
	}

	points := make([]geodesy.Point, len(candidates))
	for i, c := range candidates {
		points[i] = c.CartCoords
	}
	dists := geodesy.DistArr(subject.CartCoords, points)

	bestIdx := 0
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[bestIdx] {
			bestIdx = i
		}
	}

	winner := candidates[bestIdx]
	dist := dists[bestIdx]

	if mode == Parent && dist > m.ParentAcceptMeters {
		return Result{}, false
	}

	return Result{WinnerID: winnerID(winner), Dist: dist}, true
}

// winnerID prefers the sink-assigned surrogate id once one exists, and
// falls back to the tac_id otherwise: parent/impacted references stay in
// tac_id space until a sink assigns surrogates.
func winnerID(o *track.Object) int64 {
	if o.ID != 0 {
		return o.ID
	}
	return o.TacID
}

func acceptedColors(subject *track.Object, mode Mode) map[string]bool {
	switch mode {
	case Impact:
		if subject.Color == "Blue" {
			return map[string]bool{"Red": true}
		}
		return map[string]bool{"Blue": true}
	default: // Parent
		if subject.Color == "Violet" {
			return map[string]bool{"Red": true, "Blue": true, "Grey": true}
		}
		return map[string]bool{subject.Color: true}
	}
}

func eligible(subject, n *track.Object, mode Mode, accepted map[string]bool, m Matcher) bool {
	if !n.CanBeParent {
		return false
	}
	if n.TacID == subject.TacID {
		return false
	}
	if !accepted[n.Color] {
		return false
	}
	if mode == Impact && n.Category != classify.Air {
		return false
	}

	recent := n.LastSeen >= subject.LastSeen-m.RecencyWindowSeconds
	stationaryGround := n.Category == classify.Ground && n.Alive
	if !recent && !stationaryGround {
		return false
	}

	return true
}
