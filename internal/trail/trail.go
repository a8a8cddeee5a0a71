package trail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gpstrail/internal/geo"
)

// Trail text format:
//
//	Longitude, Latitude
//	<lon>,<lat>
//	...
//
// The header is optional when reading. Blank lines are ignored.

// Header is the first line of a trail file.
const Header = "Longitude, Latitude"

var ErrMalformedLine = errors.New("trail: malformed line")

// WriteHeader writes the header line.
func WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, Header+"\n")
	return err
}

// FormatPoint renders p as "lon,lat" using the shortest exact decimal form.
func FormatPoint(p geo.Position) string {
	return FormatFloat(p.LonDeg) + "," + FormatFloat(p.LatDeg)
}

// FormatFloat renders v in its shortest round-tripping decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseTrail reads a trail file.
func ParseTrail(r io.Reader) ([]geo.Position, error) {
	s := bufio.NewScanner(r)
	out := make([]geo.Position, 0, 1024)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if lineNo == 1 && strings.EqualFold(strings.ReplaceAll(line, " ", ""), "Longitude,Latitude") {
			continue
		}
		lon, lat, err := splitPair(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, geo.Position{LatDeg: lat, LonDeg: lon})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func splitPair(line string) (float64, float64, error) {
	a, b, ok := strings.Cut(line, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing comma: %q", ErrMalformedLine, line)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
	}
	return x, y, nil
}

// ReadLines returns the non-blank lines of r, with surrounding whitespace
// (including a trailing '\r') trimmed.
func ReadLines(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := make([]string, 0, 1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseLatLon splits a "lat,lon[,...]" line into its first two raw fields.
// ok is false when the line has fewer than two fields.
func ParseLatLon(line string) (lat, lon string, ok bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// ParseLatLonPosition parses "lat,lon[,...]" into a position.
func ParseLatLonPosition(line string) (geo.Position, error) {
	lat, lon, ok := ParseLatLon(line)
	if !ok {
		return geo.Position{}, fmt.Errorf("%w: want lat,lon: %q", ErrMalformedLine, line)
	}
	latDeg, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Position{}, fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
	}
	lonDeg, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Position{}, fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
	}
	return geo.Position{LatDeg: latDeg, LonDeg: lonDeg}, nil
}
