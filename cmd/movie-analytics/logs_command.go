package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()
			out := cmd.OutOrStdout()

			tail, offset, err := logs.Last(path, lines)
			if errors.Is(err, logs.ErrNoLogFile) {
				if path == "" {
					return fmt.Errorf("file logging is disabled; set logging.file = true: %w", err)
				}
				if !follow {
					fmt.Fprintln(out, "No log entries yet")
					return nil
				}
			} else if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 500*time.Millisecond, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	return cmd
}
