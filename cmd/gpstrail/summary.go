package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gpstrail/internal/geo"
	"gpstrail/internal/gps"
	"gpstrail/internal/store"
	"gpstrail/internal/trail"
)

type trailSummary struct {
	Points        int
	Bounds        geo.Bounds
	PathM         float64
	MaxStepM      float64
	MaxFromStartM float64
}

func summarizeTrail(pts []geo.Position) trailSummary {
	s := trailSummary{Points: len(pts)}
	if len(pts) == 0 {
		return s
	}
	s.Bounds, _ = geo.BoundsOf(pts)

	for i := 1; i < len(pts); i++ {
		step := geo.DistanceMeters(pts[i-1], pts[i])
		s.PathM += step
		if step > s.MaxStepM {
			s.MaxStepM = step
		}
		if d := geo.DistanceMeters(pts[0], pts[i]); d > s.MaxFromStartM {
			s.MaxFromStartM = d
		}
	}
	return s
}

// readTrailFile accepts either the "Longitude, Latitude" text format or a
// file of NMEA sentences, where only valid RMC fixes are used.
func readTrailFile(path string) ([]geo.Position, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("$")) {
		return readRMC(bytes.NewReader(b))
	}
	return trail.ParseTrail(bytes.NewReader(b))
}

func readRMC(r io.Reader) ([]geo.Position, error) {
	var out []geo.Position
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		sent, err := gps.ParseSentence(line)
		if err != nil || sent.Type != "RMC" {
			continue
		}
		fix, err := gps.ParseRMC(sent)
		if err != nil {
			continue
		}
		out = append(out, fix.Position)
	}
	return out, s.Err()
}

func printTrailSummary(w io.Writer, name string, pts []geo.Position) {
	s := summarizeTrail(pts)
	fmt.Fprintf(w, "source: %s\n", name)
	fmt.Fprintf(w, "points: %d\n", s.Points)
	if s.Points == 0 {
		return
	}
	fmt.Fprintf(w, "lat: %.6f .. %.6f\n", s.Bounds.MinLatDeg, s.Bounds.MaxLatDeg)
	fmt.Fprintf(w, "lon: %.6f .. %.6f\n", s.Bounds.MinLonDeg, s.Bounds.MaxLonDeg)
	fmt.Fprintf(w, "path_m: %.1f\n", s.PathM)
	fmt.Fprintf(w, "max_step_m: %.2f\n", s.MaxStepM)
	fmt.Fprintf(w, "max_from_start_m: %.1f\n", s.MaxFromStartM)
}

func newSummaryCmd(a *app) *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "summary [trail file]",
		Short: "Print point count, extent and path length of a trail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if table != "" {
				pts, err := loadTableTrail(cmd.Context(), a, table)
				if err != nil {
					return err
				}
				printTrailSummary(cmd.OutOrStdout(), "table "+table, pts)
				return nil
			}
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("usage: %s <trail file> | --table NAME", cmd.CommandPath())
			}
			pts, err := readTrailFile(args[0])
			if err != nil {
				return err
			}
			printTrailSummary(cmd.OutOrStdout(), args[0], pts)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "summarize a points table from the configured database instead")
	return cmd
}

func loadTableTrail(ctx context.Context, a *app, table string) ([]geo.Position, error) {
	st, err := store.Open(a.cfg.Walk.DB.Driver, a.cfg.Walk.DB.DSN)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rows, err := st.LoadPoints(ctx, table)
	if err != nil {
		return nil, err
	}
	pts := make([]geo.Position, len(rows))
	for i, r := range rows {
		pts[i] = geo.Position{LatDeg: r.Latitude, LonDeg: r.Longitude}
	}
	return pts, nil
}
