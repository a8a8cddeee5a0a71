package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gpstrail/internal/geo"
)

var (
	ErrInvalidRadius = errors.New("sim: radius must be > 0")
	ErrInvalidCount  = errors.New("sim: count must be > 0")
)

// DefaultCount is the number of trail points generated when Walker.Count is zero.
const DefaultCount = 10000

// DefaultStart is the fixed seed position of the walk.
var DefaultStart = geo.Position{LatDeg: -22.817092, LonDeg: -47.092430}

// NewRand returns a PCG-backed source. seed 0 seeds from the wall clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PointInRadius returns a point drawn uniformly from the disk of radius
// radiusM meters around (lonDeg, latDeg).
//
// Exactly two values are drawn from rnd: u scales the radius by sqrt(u) so
// density is uniform per unit area, v picks the angle. The longitude offset
// is stretched by 1/cos(lat); at the poles the result is not finite.
func PointInRadius(lonDeg, latDeg, radiusM float64, rnd geo.Uniform) geo.Position {
	radiusDeg := radiusM / geo.MetersPerDegree
	u := rnd.Float64()
	v := rnd.Float64()
	w := radiusDeg * math.Sqrt(u)
	t := 2.0 * math.Pi * v
	x := w * math.Cos(t)
	y := w * math.Sin(t)

	return geo.Position{
		LatDeg: y + latDeg,
		LonDeg: x/math.Cos(geo.Radians(latDeg)) + lonDeg,
	}
}

// WalkState is the mutable state of a walk between steps.
type WalkState struct {
	Current geo.Position
	// Heading is the unit direction of the last step. It starts north and
	// does not influence sampling.
	Heading geo.Vector
}

// NewWalkState returns a state positioned at start and heading north.
func NewWalkState(start geo.Position) *WalkState {
	return &WalkState{Current: start, Heading: geo.North}
}

// PointWriter receives trail points in order.
type PointWriter interface {
	WritePoint(ctx context.Context, p geo.Position) error
}

// Walker drives a random walk where every step re-centers on the previous
// point. Drift is unbounded.
type Walker struct {
	RadiusM float64
	Count   int
	Rand    geo.Uniform
}

func (w Walker) validate() error {
	if !(w.RadiusM > 0) {
		return ErrInvalidRadius
	}
	if w.Count < 0 {
		return ErrInvalidCount
	}
	if w.Rand == nil {
		return errors.New("sim: random source is nil")
	}
	return nil
}

// Step advances st by one sample and returns the position it held before
// the step.
func (w Walker) Step(st *WalkState) geo.Position {
	pre := st.Current
	next := PointInRadius(pre.LonDeg, pre.LatDeg, w.RadiusM, w.Rand)

	d := geo.Displacement(pre, next)
	if d.Magnitude() > 0 {
		st.Heading = d.Normalized()
	}
	st.Current = next
	return pre
}

// Run walks Count steps from start (DefaultCount when Count is zero). Each
// pre-step position goes to out, if non-nil, and to the returned trail, so
// trail[0] == start and len(trail) == Count.
func (w Walker) Run(ctx context.Context, start geo.Position, out PointWriter) ([]geo.Position, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	n := w.Count
	if n == 0 {
		n = DefaultCount
	}

	st := NewWalkState(start)
	trail := make([]geo.Position, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return trail, err
		}
		p := w.Step(st)
		if out != nil {
			if err := out.WritePoint(ctx, p); err != nil {
				return trail, fmt.Errorf("write point %d: %w", i, err)
			}
		}
		trail = append(trail, p)
	}
	return trail, nil
}
