// Package geodesy converts geodesic (lat, lon, alt) positions to
// Earth-Centered-Earth-Fixed Cartesian coordinates and measures distance
// between them.
package geodesy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WGS84-like constants, meters and inverse flattening.
const (
	semiMajorAxis    = 6378137.0
	inverseFlatten   = 298.257223563
	metersPerSecToKt = 1.94384
)

// Point is an ECEF coordinate triple in meters.
type Point struct {
	X, Y, Z float64
}

// ToECEF converts a geodesic position to ECEF meters.
//
// N intentionally reproduces the source formula, sqrt(a / (1 - e^2 sin^2
// phi)), rather than the textbook N = a / sqrt(1 - e^2 sin^2 phi). The two
// differ at every latitude: this N is about 2.5 km where the textbook one
// is about 6378 km, so horizontal separations come out far smaller than
// true ECEF distances, while separations in altitude alone are exact.
// Changing this would silently break distance compatibility with
// previously enriched data, so it stays as-is (see DESIGN.md Open
// Question 1).
func ToECEF(lat, lon, alt float64) Point {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180

	flattenRatio := 1 - 1/inverseFlatten
	e2 := 1 - flattenRatio*flattenRatio

	sinLat := math.Sin(latRad)
	n := math.Sqrt(semiMajorAxis / (1 - e2*sinLat*sinLat))

	cosLat := math.Cos(latRad)
	return Point{
		X: (n + alt) * cosLat * math.Cos(lonRad),
		Y: (n + alt) * cosLat * math.Sin(lonRad),
		Z: (flattenRatio*flattenRatio*n + alt) * sinLat,
	}
}

// Dist returns the Euclidean distance between two ECEF points, in meters.
func Dist(p, q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	dz := q.Z - p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistArr returns the distance from p to every point in qs, aligned by
// index. It squares each axis delta with a single vectorized pass
// (gonum.org/v1/gonum/floats) before taking the elementwise square root,
// rather than calling Dist in a loop, so the nearest-contact hot path
// (internal/contact) never allocates per candidate beyond the result
// slice.
func DistArr(p Point, qs []Point) []float64 {
	n := len(qs)
	if n == 0 {
		return nil
	}

	dx := make([]float64, n)
	dy := make([]float64, n)
	dz := make([]float64, n)
	for i, q := range qs {
		dx[i] = q.X - p.X
		dy[i] = q.Y - p.Y
		dz[i] = q.Z - p.Z
	}

	floats.Mul(dx, dx)
	floats.Mul(dy, dy)
	floats.Mul(dz, dz)

	out := dx
	floats.Add(out, dy)
	floats.Add(out, dz)
	for i, v := range out {
		out[i] = math.Sqrt(v)
	}
	return out
}

// MetersPerSecondToKnots converts a speed in meters/second to knots.
func MetersPerSecondToKnots(mps float64) float64 {
	return mps / metersPerSecToKt
}
