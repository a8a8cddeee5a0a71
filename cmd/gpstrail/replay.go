package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gpstrail/internal/config"
	"gpstrail/internal/replay"
	"gpstrail/internal/sink"
	"gpstrail/internal/trail"
	"gpstrail/internal/udp"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		out      string
		interval time.Duration
		loop     bool
		limit    int
		udpDest  string
		nmea     bool
	)
	cmd := &cobra.Command{
		Use:   "replay <GPS_CSV_FILE>",
		Short: "Append points from a file to the output one at a time, paced",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: %s <GPS_CSV_FILE>", cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := a.cfg.Replay
			f := cmd.Flags()
			if f.Changed("out") {
				rc.Output = out
			}
			if f.Changed("interval") {
				rc.Interval = interval
			}
			if f.Changed("loop") {
				rc.Loop = loop
			}
			if f.Changed("limit") {
				rc.Limit = limit
			}
			if f.Changed("udp") {
				rc.UDP.Enable = udpDest != ""
				rc.UDP.Dest = udpDest
			}
			if f.Changed("nmea") {
				rc.NMEA = nmea
			}

			cfg := a.cfg
			cfg.Replay = rc
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runReplay(cmd.Context(), a.logger(), args[0], rc, nil)
		},
	}
	f := cmd.Flags()
	f.StringVar(&out, "out", "../gps_test.txt", "file the points are appended to")
	f.DurationVar(&interval, "interval", replay.DefaultInterval, "pause between points")
	f.BoolVar(&loop, "loop", true, "restart from the first point after the last")
	f.IntVar(&limit, "limit", 0, "stop after this many points (0 = no limit)")
	f.StringVar(&udpDest, "udp", "", "also send each point to host:port")
	f.BoolVar(&nmea, "nmea", false, "re-encode lat,lon points as RMC sentences")
	return cmd
}

func runReplay(ctx context.Context, log *zap.Logger, input string, rc config.ReplayConfig, sleeper replay.Sleeper) error {
	lines, err := replay.Load(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	if rc.NMEA {
		lines, err = encodeRMC(lines, time.Now().UTC().Truncate(time.Second), rc.Interval)
		if err != nil {
			return err
		}
	}

	w, err := replay.NewAppendWriter(rc.Output)
	if err != nil {
		return err
	}

	var mirror *udp.Mirror
	if rc.UDP.Enable {
		mirror, err = udp.Dial(rc.UDP.Dest)
		if err != nil {
			return err
		}
		defer mirror.Close()
	}

	log.Info("replay starting",
		zap.String("input", input),
		zap.String("output", w.Path()),
		zap.Int("points", len(lines)),
		zap.Duration("interval", rc.Interval),
		zap.Bool("loop", rc.Loop),
	)

	n, err := replay.Play(ctx, lines, replay.Options{
		Interval: rc.Interval,
		Loop:     rc.Loop,
		Limit:    rc.Limit,
		Sleeper:  sleeper,
	}, func(line string) error {
		log.Info("Adding", zap.String("line", line))
		if err := w.WriteLine(line); err != nil {
			return fmt.Errorf("append %s: %w", w.Path(), err)
		}
		if mirror != nil {
			if err := mirror.SendLine(line); err != nil {
				log.Warn("udp send failed", zap.String("dest", mirror.Dest()), zap.Error(err))
			}
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		log.Info("replay stopped", zap.Int("sent", n))
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("replay done", zap.Int("sent", n))
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// encodeRMC turns "lat,lon" lines into RMC sentences spaced by interval.
func encodeRMC(lines []string, base time.Time, interval time.Duration) ([]string, error) {
	if interval <= 0 {
		interval = time.Second
	}
	var buf bytes.Buffer
	ns := sink.NewNMEA(nopWriteCloser{&buf}, base, interval)
	for i, line := range lines {
		p, err := trail.ParseLatLonPosition(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := ns.WritePoint(context.Background(), p); err != nil {
			return nil, err
		}
	}
	if err := ns.Close(); err != nil {
		return nil, err
	}
	return trail.ReadLines(&buf)
}
