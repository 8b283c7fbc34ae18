package cot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rhino11/tacenrich/internal/classify"
	"github.com/rhino11/tacenrich/internal/contact"
	"github.com/rhino11/tacenrich/internal/track"
)

// Dimension codes used by GenerateMILSTD2525Type.
const (
	DimensionAir    = "air"
	DimensionGround = "ground"
	DimensionSea    = "sea"
	DimensionSpace  = "space"
)

const knotsToMetersPerSecond = 0.514444

// staleMultiple sets a broadcast event's stale time to this many multiples
// of the contact matcher's recency window (before the minStaleDuration
// floor), so a listener on the CoT feed keeps a track displayed well
// beyond the window in which the matcher treats that sighting as recent.
const staleMultiple = 8

// minStaleDuration floors StaleDurationFromMatcher's result: the
// matcher's recency window is tuned in single-digit seconds, far too
// short a stale time for a human watching a CoT client.
const minStaleDuration = 30 * time.Second

// StaleDurationFromMatcher derives a CoT event's stale-after duration
// from the contact matcher's recency window instead of an arbitrary
// fixed interval.
func StaleDurationFromMatcher(m contact.Matcher) time.Duration {
	d := time.Duration(m.RecencyWindowSeconds*staleMultiple) * time.Second
	if d < minStaleDuration {
		return minStaleDuration
	}
	return d
}

// ObjectToPlatformState converts an enriched track.Object into the CoT
// generator's PlatformState shape: callsign from Pilot/Name, affiliation
// from Color, CoT type from the classifier's Category and the stream's
// Type string, course from Heading, speed from VelocityKts.
func ObjectToPlatformState(obj *track.Object) PlatformState {
	callsign := obj.Pilot
	if callsign == "" {
		callsign = obj.Name
	}
	if callsign == "" {
		callsign = fmt.Sprintf("%x", obj.TacID)
	}

	affiliation := affiliationForColor(obj.Color)
	dimension := dimensionForCategory(obj.Category)
	category := categoryForType(obj.Type)
	cotType := GenerateMILSTD2525Type(category, affiliation, dimension)

	return PlatformState{
		ID:          fmt.Sprintf("%x", obj.TacID),
		Callsign:    callsign,
		Latitude:    obj.Lat,
		Longitude:   obj.Lon,
		Altitude:    obj.Alt,
		Speed:       obj.VelocityKts * knotsToMetersPerSecond,
		Course:      obj.Heading,
		CoTType:     cotType,
		Affiliation: affiliation,
	}
}

// affiliationForColor maps an ACMI Color descriptor to a CoT affiliation:
// Blue is friendly, Red hostile, Grey neutral, Violet (and anything
// else) unknown.
func affiliationForColor(color string) string {
	switch color {
	case "Blue":
		return "friend"
	case "Red":
		return "hostile"
	case "Grey":
		return "neutral"
	default:
		return "unknown"
	}
}

func dimensionForCategory(c classify.Category) string {
	switch c {
	case classify.Air, classify.Weapon:
		return DimensionAir
	case classify.Ground:
		return DimensionGround
	default:
		return DimensionGround
	}
}

// categoryForType maps an ACMI Type descriptor to the finer-grained CoT
// category GenerateMILSTD2525Type expects.
func categoryForType(typ string) string {
	t := strings.ToLower(typ)

	switch {
	case strings.Contains(t, "weapon"):
		return "unmanned_aircraft"
	case strings.Contains(t, "rotorcraft"):
		return "transport_aircraft"
	case strings.Contains(t, "fixedwing"):
		return "fighter_aircraft"
	case strings.Contains(t, "tank"):
		return "main_battle_tank"
	case strings.Contains(t, "antiaircraft"):
		return "tactical_vehicle"
	case strings.Contains(t, "vehicle"):
		return "commercial_vehicle"
	default:
		return t
	}
}

// GenerateMILSTD2525Type builds a MIL-STD-2525D SIDC-style type code from
// the category, affiliation, and dimension strings that categoryForType,
// affiliationForColor, and dimensionForCategory derive from a track.Object.
func GenerateMILSTD2525Type(category, affiliation, dimension string) string {
	var affiliationCode string
	switch affiliation {
	case "friend":
		affiliationCode = "f"
	case "hostile":
		affiliationCode = "h"
	case "neutral":
		affiliationCode = "n"
	default:
		affiliationCode = "u"
	}

	var dimensionCode string
	switch dimension {
	case DimensionAir:
		dimensionCode = "A"
	case DimensionGround:
		dimensionCode = "G"
	case DimensionSea:
		dimensionCode = "S"
	case DimensionSpace:
		dimensionCode = "P"
	default:
		dimensionCode = "G"
	}

	switch {
	case dimension == DimensionAir && category == "fighter_aircraft":
		return fmt.Sprintf("a-%s-%s-M-F", affiliationCode, dimensionCode)
	case dimension == DimensionAir && category == "unmanned_aircraft":
		return fmt.Sprintf("a-%s-%s-M-U", affiliationCode, dimensionCode)
	case dimension == DimensionAir && category == "commercial_aircraft":
		return fmt.Sprintf("a-%s-%s-C-F", affiliationCode, dimensionCode)
	case dimension == DimensionGround && category == "main_battle_tank":
		return fmt.Sprintf("a-%s-%s-U-C-I", affiliationCode, dimensionCode)
	case dimension == DimensionGround && (category == "tactical_vehicle" || category == "commercial_vehicle"):
		return fmt.Sprintf("a-%s-%s-U-C-V", affiliationCode, dimensionCode)
	case dimension == DimensionSea && category == "destroyer":
		return fmt.Sprintf("a-%s-%s-U-W-D", affiliationCode, dimensionCode)
	case dimension == DimensionSea && category == "cargo_vessel":
		return fmt.Sprintf("a-%s-%s-U-C-V", affiliationCode, dimensionCode)
	case dimension == DimensionSpace:
		return fmt.Sprintf("a-%s-%s-U-S", affiliationCode, dimensionCode)
	default:
		return fmt.Sprintf("a-%s-%s-U", affiliationCode, dimensionCode)
	}
}
