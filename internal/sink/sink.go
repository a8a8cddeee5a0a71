// Package sink holds the destinations a walk trail can be written to.
package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gpstrail/internal/geo"
	"gpstrail/internal/gps"
	"gpstrail/internal/store"
	"gpstrail/internal/trail"
)

var ErrClosed = errors.New("sink: closed")

// PointSink receives trail points in order. Close flushes pending output.
type PointSink interface {
	WritePoint(ctx context.Context, p geo.Position) error
	Close() error
}

// TextSink writes the "Longitude, Latitude" trail format.
type TextSink struct {
	c      io.Closer
	w      *bufio.Writer
	closed bool
}

// CreateText truncates path and writes the trail header.
func CreateText(path string) (*TextSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s, err := NewText(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// NewText writes the header to w. Close closes w.
func NewText(w io.WriteCloser) (*TextSink, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	if err := trail.WriteHeader(bw); err != nil {
		return nil, err
	}
	return &TextSink{c: w, w: bw}, nil
}

func (s *TextSink) WritePoint(_ context.Context, p geo.Position) error {
	if s.closed {
		return ErrClosed
	}
	_, err := s.w.WriteString(trail.FormatPoint(p) + "\n")
	return err
}

func (s *TextSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.w.Flush(); err != nil {
		_ = s.c.Close()
		return err
	}
	return s.c.Close()
}

// PointStore is the part of store.Store a DBSink needs.
type PointStore interface {
	InsertPoints(ctx context.Context, table string, pts []store.Point, batchSize int) error
}

// DBSink buffers rows and inserts them batchSize at a time. A failed insert
// drops its batch and every later write returns the same error.
type DBSink struct {
	st        PointStore
	table     string
	appMask   int
	batchSize int
	pending   []store.Point
	written   int
	failed    error
	closed    bool
}

func NewDB(st PointStore, table string, appMask, batchSize int) *DBSink {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &DBSink{
		st:        st,
		table:     table,
		appMask:   appMask,
		batchSize: batchSize,
		pending:   make([]store.Point, 0, batchSize),
	}
}

func (s *DBSink) WritePoint(ctx context.Context, p geo.Position) error {
	if s.closed {
		return ErrClosed
	}
	if s.failed != nil {
		return s.failed
	}
	s.pending = append(s.pending, store.Point{Latitude: p.LatDeg, Longitude: p.LonDeg, AppMask: s.appMask})
	if len(s.pending) >= s.batchSize {
		return s.Flush(ctx)
	}
	return nil
}

// Flush inserts buffered rows.
func (s *DBSink) Flush(ctx context.Context) error {
	if s.failed != nil {
		return s.failed
	}
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.st.InsertPoints(ctx, s.table, s.pending, s.batchSize); err != nil {
		s.pending = s.pending[:0]
		s.failed = fmt.Errorf("insert into %s: %w", s.table, err)
		return s.failed
	}
	s.written += len(s.pending)
	s.pending = s.pending[:0]
	return nil
}

// Written reports how many rows reached the store.
func (s *DBSink) Written() int { return s.written }

func (s *DBSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.failed != nil {
		return nil
	}
	return s.Flush(context.Background())
}

// NMEASink writes one RMC sentence per point. Timestamps start at base and
// advance by interval; ground speed and track come from consecutive points.
type NMEASink struct {
	c        io.Closer
	w        *bufio.Writer
	base     time.Time
	interval time.Duration
	n        int
	prev     geo.Position
	closed   bool
}

func CreateNMEA(path string, base time.Time, interval time.Duration) (*NMEASink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewNMEA(f, base, interval), nil
}

func NewNMEA(w io.WriteCloser, base time.Time, interval time.Duration) *NMEASink {
	if interval <= 0 {
		interval = time.Second
	}
	return &NMEASink{c: w, w: bufio.NewWriter(w), base: base, interval: interval}
}

const metersPerSecondToKnots = 1.9438444924406

func (s *NMEASink) WritePoint(_ context.Context, p geo.Position) error {
	if s.closed {
		return ErrClosed
	}
	fix := gps.Fix{
		Time:     s.base.Add(time.Duration(s.n) * s.interval),
		Position: p,
	}
	if s.n > 0 {
		d := geo.DistanceMeters(s.prev, p)
		fix.GroundKt = d / s.interval.Seconds() * metersPerSecondToKnots
		// Track is measured clockwise from north: atan2(east, north).
		v := geo.Displacement(s.prev, p)
		if v.Magnitude() > 0 {
			fix.TrackDeg = geo.Degrees(math.Atan2(v.X, v.Y))
		}
	}
	s.prev = p
	s.n++
	_, err := s.w.WriteString(gps.FormatRMC(fix) + "\r\n")
	return err
}

func (s *NMEASink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.w.Flush(); err != nil {
		_ = s.c.Close()
		return err
	}
	return s.c.Close()
}

// Multi fans points out to every sink in order.
type Multi []PointSink

func (m Multi) WritePoint(ctx context.Context, p geo.Position) error {
	for _, s := range m {
		if err := s.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
