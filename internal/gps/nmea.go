package gps

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gpstrail/internal/geo"
)

// Sentence is a checksum-verified NMEA sentence.
type Sentence struct {
	// Type is the sentence type without talker ID (e.g. "RMC").
	Type string
	// Fields is the comma-split NMEA payload (excluding $ and checksum).
	Fields []string
}

// Checksum returns the XOR of all payload bytes.
func Checksum(payload string) byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// ParseSentence validates framing and checksum of line.
func ParseSentence(line string) (Sentence, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Sentence{}, fmt.Errorf("nmea: missing '$'")
	}
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return Sentence{}, fmt.Errorf("nmea: missing checksum")
	}
	payload := line[1:star]
	ck := strings.TrimSpace(line[star+1:])
	if len(ck) < 2 {
		return Sentence{}, fmt.Errorf("nmea: short checksum")
	}
	want, err := hex.DecodeString(ck[:2])
	if err != nil || len(want) != 1 {
		return Sentence{}, fmt.Errorf("nmea: bad checksum")
	}
	if Checksum(payload) != want[0] {
		return Sentence{}, fmt.Errorf("nmea: checksum mismatch")
	}

	parts := strings.Split(payload, ",")
	typeField := parts[0]
	if len(typeField) < 3 {
		return Sentence{}, fmt.Errorf("nmea: short type")
	}
	// Accept GNxxx/GPxxx, etc; normalize to last 3 chars.
	t := typeField
	if len(t) > 3 {
		t = t[len(t)-3:]
	}
	return Sentence{Type: strings.ToUpper(t), Fields: parts}, nil
}

// Fix is the subset of an RMC sentence the trail tools care about.
type Fix struct {
	Time     time.Time
	Position geo.Position
	GroundKt float64
	TrackDeg float64
}

// FormatRMC renders fix as a $GPRMC sentence with status A.
//
// Fields (NMEA 0183 v2.3):
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmmmm)
//	4: N/S
//	5: longitude (dddmm.mmmmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
//	10,11: magnetic variation (empty)
func FormatRMC(fix Fix) string {
	ts := fix.Time.UTC()
	lat, ns := formatNMEACoord(fix.Position.LatDeg, 2, "N", "S")
	lon, ew := formatNMEACoord(fix.Position.LonDeg, 3, "E", "W")
	trk := math.Mod(fix.TrackDeg+360.0, 360.0)

	payload := fmt.Sprintf("GPRMC,%s.%02d,A,%s,%s,%s,%s,%.1f,%.1f,%s,,",
		ts.Format("150405"), ts.Nanosecond()/int(10*time.Millisecond),
		lat, ns, lon, ew,
		fix.GroundKt, trk,
		ts.Format("020106"),
	)
	return fmt.Sprintf("$%s*%02X", payload, Checksum(payload))
}

// ParseRMC extracts a Fix from an RMC sentence. Void fixes are rejected.
func ParseRMC(s Sentence) (Fix, error) {
	if s.Type != "RMC" {
		return Fix{}, fmt.Errorf("nmea: not RMC: %s", s.Type)
	}
	f := s.Fields
	if len(f) < 10 {
		return Fix{}, fmt.Errorf("nmea: short RMC (%d fields)", len(f))
	}
	if strings.TrimSpace(f[2]) != "A" {
		return Fix{}, fmt.Errorf("nmea: void fix")
	}

	lat, latOK := parseNMEALatLon(f[3], f[4])
	lon, lonOK := parseNMEALatLon(f[5], f[6])
	if !latOK || !lonOK {
		return Fix{}, fmt.Errorf("nmea: bad position")
	}
	out := Fix{Position: geo.Position{LatDeg: lat, LonDeg: lon}}
	if gs, ok := parseFloat(f[7]); ok {
		out.GroundKt = gs
	}
	if trk, ok := parseFloat(f[8]); ok {
		out.TrackDeg = math.Mod(trk+360.0, 360.0)
	}

	tod := strings.TrimSpace(f[1])
	if frac := strings.IndexByte(tod, '.'); frac != -1 {
		tod = tod[:frac]
	}
	if ts, err := time.Parse("020106150405", strings.TrimSpace(f[9])+tod); err == nil {
		out.Time = ts
	}
	return out, nil
}

// formatNMEACoord renders deg as (d)ddmm.mmmmmm plus hemisphere.
func formatNMEACoord(deg float64, degWidth int, pos, neg string) (string, string) {
	hemi := pos
	if deg < 0 {
		hemi = neg
		deg = -deg
	}
	whole := math.Floor(deg)
	mins := math.Round((deg-whole)*60.0*1e6) / 1e6
	if mins >= 60 {
		whole++
		mins -= 60
	}
	return fmt.Sprintf("%0*d%09.6f", degWidth, int(whole), mins), hemi
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseNMEALatLon parses NMEA lat/lon in ddmm.mmmm or dddmm.mmmm plus hemisphere.
func parseNMEALatLon(v string, hemi string) (float64, bool) {
	v = strings.TrimSpace(v)
	hemi = strings.TrimSpace(strings.ToUpper(hemi))
	if v == "" || (hemi != "N" && hemi != "S" && hemi != "E" && hemi != "W") {
		return 0, false
	}

	// The last two digits of the integer part are minutes.
	dot := strings.IndexByte(v, '.')
	intPart := v
	if dot != -1 {
		intPart = v[:dot]
	}
	if len(intPart) < 3 {
		return 0, false
	}

	degPart := intPart[:len(intPart)-2]
	minPart := v[len(intPart)-2:]

	deg, err := strconv.Atoi(degPart)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.ParseFloat(minPart, 64)
	if err != nil {
		return 0, false
	}

	dec := float64(deg) + (mins / 60.0)
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, true
}
