// Package reference holds the session-wide Reference state that every
// per-record geodesic delta and timestamp in an ACMI stream is decoded
// against.
package reference

import "time"

// Reference carries session-wide state populated incrementally by
// header lines until AllRefs reports true, and thereafter mutated only
// by time-update lines.
type Reference struct {
	SessionID     int64
	FileVersion   float64
	Title         string
	DataSource    string
	Author        string
	ClientVersion string
	Status        string

	Lat float64
	Lon float64

	TimeOffset    float64
	TimeSinceLast float64

	StartTime time.Time
	hasLat    bool
	hasLon    bool
	hasStart  bool
}

// New returns an empty Reference for a given session id.
func New(sessionID int64) *Reference {
	return &Reference{SessionID: sessionID}
}

// SetLat records the reference latitude offset.
func (r *Reference) SetLat(lat float64) {
	r.Lat = lat
	r.hasLat = true
}

// SetLon records the reference longitude offset.
func (r *Reference) SetLon(lon float64) {
	r.Lon = lon
	r.hasLon = true
}

// SetStartTime records the recording's absolute origin time.
func (r *Reference) SetStartTime(t time.Time) {
	r.StartTime = t
	r.hasStart = true
}

// AllRefs reports whether Lat, Lon, and StartTime have all been set.
func (r *Reference) AllRefs() bool {
	return r.hasLat && r.hasLon && r.hasStart
}

// AdvanceTime applies a `#`-prefixed time-advance line: the new offset
// must be greater than or equal to the prior one (stream is monotonic
// within a well-formed recording).
func (r *Reference) AdvanceTime(newOffset float64) {
	r.TimeSinceLast = newOffset - r.TimeOffset
	r.TimeOffset = newOffset
}
