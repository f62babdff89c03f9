package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		proj   string
		dest   string
		charts bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly statistics for a cataloged project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openProject(proj, dest)
			if err != nil {
				return err
			}
			var opts report.Options
			enabled := cfg.Report.Charts
			if cmd.Flags().Changed("charts") {
				enabled = charts
			}
			if enabled {
				opts.ChartPath = filepath.Join(store.Layout().OutDir, cfg.Report.ChartFile)
			}
			rep, err := report.Generate(store, opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rep.Render())
			return nil
		},
	}

	addProjectFlags(cmd, &proj, &dest)
	cmd.Flags().BoolVar(&charts, "charts", true, "Also write the monthly chart")
	return cmd
}
