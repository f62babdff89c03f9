package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if err := writeSample(target, overwrite); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Adjust processing_speed_gbps and exec_time_seconds to size each batch.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// initTarget expands the requested path, falling back to the default location.
func initTarget(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return config.DefaultConfigPath()
	}
	target, err := config.ExpandPath(requested)
	if err != nil {
		return "", fmt.Errorf("resolve config path %q: %w", requested, err)
	}
	return target, nil
}

func writeSample(target string, overwrite bool) error {
	_, err := os.Stat(target)
	switch {
	case err == nil && !overwrite:
		return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("inspect %s: %w", target, err)
	}
	return config.CreateSample(target)
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagPath string
			if ctx.configFlag != nil {
				flagPath = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, path, exists, err := config.Load(flagPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Batch budget: %.2f GB\n", cfg.BudgetGB())
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
