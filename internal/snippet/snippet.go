// Package snippet turns "lat,lon" point files into QGeoCoordinate push_back
// statements that can be pasted into a Qt/QML map demo.
package snippet

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"gpstrail/internal/trail"
)

// DefaultContainer is the expression the statements push into.
const DefaultContainer = "dataPtr"

// Result counts the lines read and the statements written.
type Result struct {
	Lines   int
	Written int
	Skipped int
}

// Line formats one statement without the trailing newline. The field text
// is used as is.
func Line(container, lat, lon string) string {
	return container + "->push_back(QGeoCoordinate(" + lat + "," + lon + "));"
}

// Convert reads r line by line and writes one statement per line with at
// least two comma-separated fields. Other lines are skipped.
func Convert(r io.Reader, w io.Writer, container string) (Result, error) {
	if container == "" {
		container = DefaultContainer
	}
	var res Result
	bw := bufio.NewWriter(w)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		res.Lines++
		lat, lon, ok := trail.ParseLatLon(s.Text())
		if !ok {
			res.Skipped++
			continue
		}
		if _, err := bw.WriteString(Line(container, lat, lon) + "\n"); err != nil {
			return res, err
		}
		res.Written++
	}
	if err := s.Err(); err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}
	return res, bw.Flush()
}

// ConvertFile converts in into out, truncating out.
func ConvertFile(in, out, container string) (Result, error) {
	src, err := os.Open(in)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return Result{}, err
	}
	res, err := Convert(src, dst, container)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return res, err
}
