package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gpstrail/internal/config"
	"gpstrail/internal/logging"
)

// configEnv names the config file when -c is not given.
const configEnv = "GPSTRAIL_CONFIG"

type app struct {
	cfgPath string
	cfg     config.Config
	log     *zap.Logger

	newLogger func(config.LogConfig) *zap.Logger
}

func (a *app) logger() *zap.Logger {
	if a.log == nil {
		a.log = logging.New(config.Default().Log)
	}
	return a.log
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{newLogger: logging.New}

	root := &cobra.Command{
		Use:           "gpstrail",
		Short:         "Synthetic GPS trails: random walks, paced replay and snippet export.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgPath
			if path == "" {
				path = os.Getenv(configEnv)
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			a.cfg = cfg
			a.log = a.newLogger(cfg.Log)
			if path != "" {
				a.log.Debug("config loaded", zap.String("path", path))
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to YAML config (env "+configEnv+")")

	root.AddCommand(
		newWalkCmd(a),
		newReplayCmd(a),
		newSnippetsCmd(a),
		newWalk2DCmd(a),
		newSummaryCmd(a),
		newSessionsCmd(a),
	)
	return root, a
}
