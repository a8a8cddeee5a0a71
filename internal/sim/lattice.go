package sim

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
)

// Point2D is a position on the lattice walk plane.
type Point2D struct {
	X float64
	Y float64
}

// LatticeWalk is a random walk on a square grid: every step moves Inc
// along one of +x, -x, +y, -y with equal probability.
type LatticeWalk struct {
	Steps int
	Inc   float64
	Rand  *rand.Rand
}

// Points returns Steps points starting at the origin.
func (lw LatticeWalk) Points() ([]Point2D, error) {
	if lw.Steps <= 0 {
		return nil, ErrInvalidCount
	}
	if lw.Rand == nil {
		return nil, fmt.Errorf("sim: random source is nil")
	}

	pts := make([]Point2D, lw.Steps)
	for i := 1; i < lw.Steps; i++ {
		p := pts[i-1]
		switch lw.Rand.IntN(4) {
		case 0:
			p.X += lw.Inc
		case 1:
			p.X -= lw.Inc
		case 2:
			p.Y += lw.Inc
		default:
			p.Y -= lw.Inc
		}
		pts[i] = p
	}
	return pts, nil
}

// WriteCSV writes pts as "x,y" lines after a header.
func WriteCSV(w io.Writer, pts []Point2D) error {
	if _, err := io.WriteString(w, "x,y\n"); err != nil {
		return err
	}
	buf := make([]byte, 0, 64)
	for _, p := range pts {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, p.X, 'f', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, p.Y, 'f', -1, 64)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
