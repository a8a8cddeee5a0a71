package geo

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestVector_Normalize(t *testing.T) {
	v := Vector{X: 3, Y: 4}
	if got := v.Magnitude(); got != 5 {
		t.Fatalf("magnitude=%v want 5", got)
	}
	v.Normalize()
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Y-0.8) > 1e-12 {
		t.Fatalf("normalized=%+v want {0.6 0.8}", v)
	}

	var zero Vector
	zero.Normalize()
	if zero != (Vector{}) {
		t.Fatalf("zero vector changed: %+v", zero)
	}
}

func TestAngle(t *testing.T) {
	cases := []struct {
		name string
		a, b Vector
		want float64
		ccw  float64
	}{
		{name: "Same", a: North, b: North, want: 0, ccw: 0},
		{name: "QuarterLeft", a: Vector{X: 1}, b: North, want: 90, ccw: 90},
		{name: "QuarterRight", a: North, b: Vector{X: 1}, want: 90, ccw: 270},
		{name: "Opposite", a: North, b: Vector{Y: -2}, want: 180, ccw: 180},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Angle(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Angle=%v want %v", got, tc.want)
			}
			if got := AngleCCW(tc.a, tc.b); math.Abs(got-tc.ccw) > 1e-9 {
				t.Fatalf("AngleCCW=%v want %v", got, tc.ccw)
			}
		})
	}
}

func TestRandomDirection_WithinQuarterTurn(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		d := RandomDirection(North, rnd)
		if math.Abs(d.Magnitude()-1) > 1e-9 {
			t.Fatalf("direction not unit: %+v", d)
		}
		if Angle(d, North) >= 90 {
			t.Fatalf("direction %+v too far from north", d)
		}
	}
}

func TestDistanceMeters_AgreesWithEquirectForShortHops(t *testing.T) {
	a := Position{LatDeg: -22.817092, LonDeg: -47.092430}
	b := Position{LatDeg: -22.817000, LonDeg: -47.092300}

	gc := DistanceMeters(a, b)
	eq := EquirectMeters(a, b)
	if gc <= 0 || eq <= 0 {
		t.Fatalf("expected positive distances, gc=%v eq=%v", gc, eq)
	}
	// The two models differ by the earth radius assumption (~0.3%).
	if math.Abs(gc-eq)/gc > 0.01 {
		t.Fatalf("gc=%v eq=%v differ by more than 1%%", gc, eq)
	}
}

func TestDisplacement_ScalesLongitude(t *testing.T) {
	a := Position{LatDeg: 60, LonDeg: 10}
	b := Position{LatDeg: 61, LonDeg: 12}
	d := Displacement(a, b)
	if math.Abs(d.X-1) > 1e-9 || math.Abs(d.Y-1) > 1e-9 {
		t.Fatalf("displacement=%+v want {1 1}", d)
	}
	if got, want := EquirectMeters(a, b), math.Sqrt2*MetersPerDegree; math.Abs(got-want) > 1e-6 {
		t.Fatalf("EquirectMeters=%v want %v", got, want)
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatalf("expected ok=false for empty input")
	}
	b, ok := BoundsOf([]Position{{LatDeg: 1, LonDeg: 5}, {LatDeg: -2, LonDeg: 7}, {LatDeg: 0, LonDeg: 6}})
	if !ok {
		t.Fatalf("expected ok")
	}
	want := Bounds{MinLatDeg: -2, MaxLatDeg: 1, MinLonDeg: 5, MaxLonDeg: 7}
	if b != want {
		t.Fatalf("bounds=%+v want %+v", b, want)
	}
}
