package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gpstrail/internal/snippet"
)

func newSnippetsCmd(a *app) *cobra.Command {
	var in, out, container string
	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "Convert lat,lon lines into QGeoCoordinate push_back statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Snippets
			f := cmd.Flags()
			if f.Changed("in") {
				sc.Input = in
			}
			if f.Changed("out") {
				sc.Output = out
			}
			if f.Changed("container") {
				sc.Container = container
			}

			res, err := snippet.ConvertFile(sc.Input, sc.Output, sc.Container)
			if err != nil {
				return err
			}
			a.logger().Info("DONE",
				zap.String("output", sc.Output),
				zap.Int("lines", res.Lines),
				zap.Int("written", res.Written),
				zap.Int("skipped", res.Skipped),
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in, "in", "processed_primeiro.txt", "input point file")
	f.StringVar(&out, "out", "out_primeiro.txt", "output snippet file")
	f.StringVar(&container, "container", snippet.DefaultContainer, "expression receiving push_back calls")
	return cmd
}
