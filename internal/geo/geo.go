package geo

import (
	"math"

	golanggeo "github.com/kellydunn/golang-geo"
)

// MetersPerDegree is the flat-earth conversion used for small offsets.
const MetersPerDegree = 111000.0

// Position is a geographic coordinate in decimal degrees.
type Position struct {
	LatDeg float64
	LonDeg float64
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Position) float64 {
	pa := golanggeo.NewPoint(a.LatDeg, a.LonDeg)
	pb := golanggeo.NewPoint(b.LatDeg, b.LonDeg)
	// GreatCircleDistance reports kilometers.
	return pa.GreatCircleDistance(pb) * 1000.0
}

// EquirectMeters returns the distance between a and b under the
// equirectangular approximation, using MetersPerDegree and scaling the
// longitude delta by cos(a.LatDeg).
func EquirectMeters(a, b Position) float64 {
	return Displacement(a, b).Magnitude() * MetersPerDegree
}

// Displacement returns the east/north offset from a to b in degrees of
// latitude, with the longitude delta scaled by cos(a.LatDeg).
func Displacement(a, b Position) Vector {
	return Vector{
		X: (b.LonDeg - a.LonDeg) * math.Cos(Radians(a.LatDeg)),
		Y: b.LatDeg - a.LatDeg,
	}
}

// Bounds is an axis-aligned lat/lon box.
type Bounds struct {
	MinLatDeg, MaxLatDeg float64
	MinLonDeg, MaxLonDeg float64
}

// BoundsOf returns the bounding box of pts. ok is false for an empty slice.
func BoundsOf(pts []Position) (b Bounds, ok bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b = Bounds{
		MinLatDeg: pts[0].LatDeg, MaxLatDeg: pts[0].LatDeg,
		MinLonDeg: pts[0].LonDeg, MaxLonDeg: pts[0].LonDeg,
	}
	for _, p := range pts[1:] {
		b.MinLatDeg = math.Min(b.MinLatDeg, p.LatDeg)
		b.MaxLatDeg = math.Max(b.MaxLatDeg, p.LatDeg)
		b.MinLonDeg = math.Min(b.MinLonDeg, p.LonDeg)
		b.MaxLonDeg = math.Max(b.MaxLonDeg, p.LonDeg)
	}
	return b, true
}
