package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var proj, dest string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a project's artifacts and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openProject(proj, dest)
			if err != nil {
				return err
			}
			layout := store.Layout()
			out := cmd.OutOrStdout()

			destination, err := store.ReadDestination()
			if err != nil && !errors.Is(err, project.ErrNotFound) {
				return err
			}
			all, err := project.ReadLinesOrDefault(layout.FullFilesList, nil)
			if err != nil {
				return err
			}
			processed, err := project.ReadLinesOrDefault(layout.ProcessedFiles, nil)
			if err != nil {
				return err
			}
			raw, err := store.ReadRawRowsOrDefault(nil)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Project %s\n", layout.Name)
			if destination != "" {
				fmt.Fprintf(out, "Destination %s\n", destination)
			}
			fmt.Fprintln(out, renderPairs("Counter", "Value", [][2]string{
				{"Files listed", strconv.Itoa(len(all))},
				{"Files processed", strconv.Itoa(len(processed))},
				{"Catalog rows", strconv.Itoa(len(raw))},
			}))

			artifacts := []struct{ name, path string }{
				{"Full file list", layout.FullFilesList},
				{"Processed files", layout.ProcessedFiles},
				{"Clean table", layout.CleanCSV},
				{"Raw table", layout.RawCSV},
				{"Running summary", layout.RunningSummary},
				{"Partial summary", layout.PartialSummary},
				{"Full summary", layout.FullSummary},
				{"Destination", layout.Destination},
				{"History", layout.HistoryDB},
			}
			rows := make([][]string, 0, len(artifacts))
			for _, a := range artifacts {
				rows = append(rows, []string{a.name, a.path, presence(a.path)})
			}
			fmt.Fprintln(out, renderTable([]string{"Artifact", "Path", "Present"}, rows, nil))
			return nil
		},
	}

	addProjectFlags(cmd, &proj, &dest)
	return cmd
}

func presence(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "no"
	}
	return "yes"
}
