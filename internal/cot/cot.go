// Package cot converts enriched track.Object records into Cursor on
// Target events and optionally broadcasts them over UDP multicast. The
// MIL-STD-2525 type code and CoT event both fall out of the same
// classifier-driven mapping convert.go uses for dimension and
// affiliation — there is no separate simulated-platform lookup table.
package cot

import (
	"encoding/xml"
	"fmt"
	"time"
)

// CoTEvent represents a Cursor on Target event message
type CoTEvent struct {
	XMLName xml.Name  `xml:"event"`
	Version string    `xml:"version,attr"`
	UID     string    `xml:"uid,attr"`
	Type    string    `xml:"type,attr"`
	How     string    `xml:"how,attr"`
	Time    string    `xml:"time,attr"`
	Start   string    `xml:"start,attr"`
	Stale   string    `xml:"stale,attr"`
	Point   CoTPoint  `xml:"point"`
	Detail  CoTDetail `xml:"detail"`
}

// CoTPoint represents the geographical point in a CoT message
type CoTPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
	Hae float64 `xml:"hae,attr"`
	CE  float64 `xml:"ce,attr"` // Circular Error (meters)
	LE  float64 `xml:"le,attr"` // Linear Error (meters)
}

// CoTDetail contains platform-specific details
type CoTDetail struct {
	Contact CoTContact `xml:"contact"`
	Track   CoTTrack   `xml:"track"`
	Precis  CoTPrecis  `xml:"precisionlocation"`
}

// CoTContact contains contact information
type CoTContact struct {
	Callsign string `xml:"callsign,attr"`
	Endpoint string `xml:"endpoint,attr,omitempty"`
}

// CoTTrack contains movement information
type CoTTrack struct {
	Speed  float64 `xml:"speed,attr"`  // m/s
	Course float64 `xml:"course,attr"` // degrees true
}

// CoTPrecis contains precision location data
type CoTPrecis struct {
	Geopointsrc string `xml:"geopointsrc,attr"`
	Altsrc      string `xml:"altsrc,attr"`
}

// PlatformState represents the current state of a platform
type PlatformState struct {
	ID          string
	Callsign    string
	Latitude    float64
	Longitude   float64
	Altitude    float64
	Speed       float64
	Course      float64
	CoTType     string
	Affiliation string
}

// CoTGenerator renders PlatformState values into CoT event XML, marking
// each event stale after staleAfter elapses.
type CoTGenerator struct {
	staleAfter time.Duration
}

// NewCoTGenerator builds a generator whose events go stale after
// staleAfter. Callers normally derive staleAfter from the session's
// contact.Matcher via StaleDurationFromMatcher rather than choosing a
// fixed interval, so a broadcast's staleness tracks the same recency
// window the contact matcher itself uses to judge a sighting fresh.
func NewCoTGenerator(staleAfter time.Duration) *CoTGenerator {
	return &CoTGenerator{staleAfter: staleAfter}
}

// GenerateCoTMessage creates a CoT XML message from platform state
func (g *CoTGenerator) GenerateCoTMessage(state PlatformState) ([]byte, error) {
	now := time.Now().UTC()
	stale := now.Add(g.staleAfter)

	event := CoTEvent{
		Version: "2.0",
		UID:     fmt.Sprintf("TACENRICH-%s", state.ID),
		Type:    state.CoTType,
		How:     "m-g", // machine-generated
		Time:    now.Format("2006-01-02T15:04:05.000Z"),
		Start:   now.Format("2006-01-02T15:04:05.000Z"),
		Stale:   stale.Format("2006-01-02T15:04:05.000Z"),
		Point: CoTPoint{
			Lat: state.Latitude,
			Lon: state.Longitude,
			Hae: state.Altitude,
			CE:  10.0, // 10 meter circular error
			LE:  10.0, // 10 meter linear error
		},
		Detail: CoTDetail{
			Contact: CoTContact{
				Callsign: state.Callsign,
				Endpoint: fmt.Sprintf("tacenrich:%s", state.ID),
			},
			Track: CoTTrack{
				Speed:  state.Speed,
				Course: state.Course,
			},
			Precis: CoTPrecis{
				Geopointsrc: "GPS",
				Altsrc:      "GPS",
			},
		},
	}

	xmlData, err := xml.MarshalIndent(event, "", "  ")
	if err != nil {
		return nil, err
	}

	// Add XML declaration
	xmlDeclaration := []byte(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	return append(xmlDeclaration, xmlData...), nil
}
