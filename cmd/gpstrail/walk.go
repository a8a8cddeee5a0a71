package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gpstrail/internal/config"
	"gpstrail/internal/geo"
	"gpstrail/internal/sim"
	"gpstrail/internal/sink"
	"gpstrail/internal/store"
)

func newWalkCmd(a *app) *cobra.Command {
	var (
		count   int
		radius  float64
		seed    uint64
		out     string
		dsn     string
		nmea    string
		session string
		noText  bool
		noDB    bool
	)
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Generate a random GPS walk into the text file and the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wc := a.cfg.Walk
			f := cmd.Flags()
			if f.Changed("count") {
				wc.Count = count
			}
			if f.Changed("radius") {
				wc.RadiusM = radius
			}
			if f.Changed("seed") {
				wc.Seed = seed
			}
			if f.Changed("out") {
				wc.Text.Path = out
			}
			if f.Changed("db") {
				wc.DB.DSN = dsn
			}
			if f.Changed("nmea") {
				wc.NMEA.Enable = true
				wc.NMEA.Path = nmea
			}
			if f.Changed("session") {
				wc.DB.Session = session
			}
			if noText {
				wc.Text.Enable = false
			}
			if noDB {
				wc.DB.Enable = false
			}

			cfg := a.cfg
			cfg.Walk = wc
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWalk(cmd.Context(), a.logger(), wc, nil)
		},
	}
	f := cmd.Flags()
	f.IntVar(&count, "count", sim.DefaultCount, "number of trail points")
	f.Float64Var(&radius, "radius", 20, "step radius in meters")
	f.Uint64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.StringVar(&out, "out", "output.txt", "text trail path")
	f.StringVar(&dsn, "db", "database.db", "database DSN")
	f.StringVar(&nmea, "nmea", "", "also write RMC sentences to this path")
	f.StringVar(&session, "session", "", "session name recorded in the database")
	f.BoolVar(&noText, "no-text", false, "skip the text trail")
	f.BoolVar(&noDB, "no-db", false, "skip the database")
	return cmd
}

// runWalk writes the walk to every sink enabled in wc. tap, when non-nil,
// sees each point after those sinks. Cancelling ctx stops the walk cleanly:
// points already generated are flushed and counted in the session.
func runWalk(ctx context.Context, log *zap.Logger, wc config.WalkConfig, tap sink.PointSink) (err error) {
	var (
		sinks sink.Multi
		st    *store.Store
		dbs   *sink.DBSink
		sess  store.Session
	)
	defer func() {
		if cerr := sinks.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if st != nil {
			_ = st.Close()
		}
	}()

	if wc.Text.Enable {
		ts, err := sink.CreateText(wc.Text.Path)
		if err != nil {
			return fmt.Errorf("text output: %w", err)
		}
		sinks = append(sinks, ts)
	}

	if wc.DB.Enable {
		st, err = store.Open(wc.DB.Driver, wc.DB.DSN)
		if err != nil {
			return err
		}
		if err := st.EnsurePointsTable(ctx, wc.DB.Table); err != nil {
			return fmt.Errorf("create %s: %w", wc.DB.Table, err)
		}
		name := wc.DB.Session
		if name == "" {
			name = "walk-" + time.Now().UTC().Format("20060102T150405.000Z")
		}
		var existed bool
		sess, existed, err = st.OpenSession(ctx, name, wc.DB.Table)
		if err != nil {
			return err
		}
		if existed {
			log.Warn("appending to existing session", zap.String("session", name), zap.Int("samples", sess.Samples))
		}
		dbs = sink.NewDB(st, wc.DB.Table, wc.DB.AppMask, wc.DB.BatchSize)
		sinks = append(sinks, dbs)
	}

	if wc.NMEA.Enable {
		ns, err := sink.CreateNMEA(wc.NMEA.Path, time.Now().UTC().Truncate(time.Second), wc.NMEA.Interval)
		if err != nil {
			return fmt.Errorf("nmea output: %w", err)
		}
		sinks = append(sinks, ns)
	}

	if tap != nil {
		sinks = append(sinks, tap)
	}

	start := geo.Position{LatDeg: wc.StartLatDeg, LonDeg: wc.StartLonDeg}
	log.Info("walk starting",
		zap.Float64("lat", start.LatDeg),
		zap.Float64("lon", start.LonDeg),
		zap.Float64("radius_m", wc.RadiusM),
		zap.Int("count", wc.Count),
		zap.Int("sinks", len(sinks)),
	)

	w := sim.Walker{RadiusM: wc.RadiusM, Count: wc.Count, Rand: sim.NewRand(wc.Seed)}
	pts, runErr := w.Run(ctx, start, sinks)

	// Flush before counting rows so the session reflects what was stored.
	closeErr := sinks.Close()
	if dbs != nil && dbs.Written() > 0 {
		if err := st.AddSamples(context.WithoutCancel(ctx), sess.ID, dbs.Written()); err != nil {
			log.Warn("session sample count not updated", zap.Error(err))
		}
	}
	if errors.Is(runErr, context.Canceled) {
		log.Info("walk stopped", zap.Int("points", len(pts)))
		return closeErr
	}
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}

	fields := []zap.Field{zap.Int("points", len(pts))}
	if len(pts) > 0 {
		last := pts[len(pts)-1]
		fields = append(fields,
			zap.Float64("last_lat", last.LatDeg),
			zap.Float64("last_lon", last.LonDeg),
			zap.Float64("drift_m", geo.DistanceMeters(start, last)),
		)
	}
	if dbs != nil {
		fields = append(fields, zap.String("session", sess.Name), zap.Int("rows", dbs.Written()))
	}
	log.Info("walk done", fields...)
	return nil
}
