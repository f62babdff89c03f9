package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		proj  string
		dest  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openProject(proj, dest)
			if err != nil {
				return err
			}
			db, err := runlog.Open(cmd.Context(), store.Layout().HistoryDB)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(runs))
			return nil
		},
	}

	addProjectFlags(cmd, &proj, &dest)
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func renderHistory(runs []runlog.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			string(r.Status),
			strconv.Itoa(r.BatchFiles),
			humanize.IBytes(uint64(r.BatchBytes)),
			strconv.Itoa(r.Processed),
			strconv.Itoa(r.Failed),
			r.Total().Round(time.Millisecond).String(),
			r.Error,
		})
	}
	return renderTable(
		[]string{"Started", "Status", "Batch", "Size", "Processed", "Failed", "Duration", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
