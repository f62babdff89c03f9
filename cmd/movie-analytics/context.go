package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/config"
	"github.com/eigenomarksamy/movie-analytics/internal/logging"
	"github.com/eigenomarksamy/movie-analytics/internal/project"
)

type commandContext struct {
	configFlag *string
	jsonLogs   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonLogs *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonLogs: jsonLogs}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.jsonLogs != nil && *c.jsonLogs {
			cfg.Logging.Format = "json"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// openProject opens the store for an existing project named directly or
// derived from its destination directory.
func (c *commandContext) openProject(name, dest string) (*project.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		if strings.TrimSpace(dest) == "" {
			return nil, errors.New("--proj or --dest is required")
		}
		name = project.NameFromDir(dest)
	}
	layout, err := project.NewLayout(cfg.Paths.CacheDir, name, project.Overrides{})
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(layout.Root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project %q has no cache at %s: %w", name, layout.Root, project.ErrNotFound)
		}
		return nil, err
	}
	return project.Open(layout)
}

func addProjectFlags(cmd *cobra.Command, name, dest *string) {
	cmd.Flags().StringVar(name, "proj", "", "Project name")
	cmd.Flags().StringVar(dest, "dest", "", "Destination directory (derives the project name)")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
