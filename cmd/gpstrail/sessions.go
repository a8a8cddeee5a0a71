package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gpstrail/internal/store"
)

func newSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List walk sessions recorded in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(a.cfg.Walk.DB.Driver, a.cfg.Walk.DB.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTABLE\tSAMPLES\tCREATED\tRUN")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
					s.ID, s.Name, s.PointsTable, s.Samples, s.CreatedAt.UTC().Format("2006-01-02 15:04:05"), s.RunID)
			}
			return tw.Flush()
		},
	}
}
