package geo

import "math"

// Vector is a planar direction. Positive Y points north.
type Vector struct {
	X float64
	Y float64
}

// North is the unit vector pointing north.
var North = Vector{X: 0, Y: 1}

// Magnitude returns the euclidean length of v.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize scales v to unit length in place. A zero vector is left as is.
func (v *Vector) Normalize() {
	m := v.Magnitude()
	if m == 0 {
		return
	}
	v.X /= m
	v.Y /= m
}

// Normalized returns a unit-length copy of v.
func (v Vector) Normalized() Vector {
	v.Normalize()
	return v
}

// Dot returns the dot product of a and b.
func Dot(a, b Vector) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Angle returns the smallest angle between a and b in degrees, in [0, 180].
// The result is NaN if either vector has zero length.
func Angle(a, b Vector) float64 {
	c := Dot(a, b) / (a.Magnitude() * b.Magnitude())
	// Rounding can push |c| slightly past 1 for parallel vectors.
	c = math.Max(-1, math.Min(1, c))
	return Degrees(math.Acos(c))
}

// AngleCCW returns the counterclockwise angle from a to b in degrees, in [0, 360).
func AngleCCW(a, b Vector) float64 {
	dot := Dot(a, b)
	det := a.X*b.Y - a.Y*b.X
	t := Degrees(math.Atan2(det, dot))
	if t < 0 {
		t += 360.0
	}
	return t
}

// Uniform yields floats in [0, 1). *math/rand/v2.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// RandomDirection returns a random unit vector strictly less than 90
// degrees away from ref, by rejection sampling over the unit square
// [-1, 1)². ref must be non-zero.
func RandomDirection(ref Vector, rnd Uniform) Vector {
	for {
		d := Vector{X: 2*rnd.Float64() - 1, Y: 2*rnd.Float64() - 1}
		if d.Magnitude() == 0 {
			continue
		}
		d.Normalize()
		if Angle(d, ref) < 90 {
			return d
		}
	}
}
