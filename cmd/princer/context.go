package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"princer/internal/config"
	"princer/internal/logging"
	"princer/internal/vault"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.verboseFlag != nil && *c.verboseFlag {
		return "debug"
	}
	return cfg.Logging.Level
}

// newLogger builds the shared CLI logger. Diagnostics go to stderr so table
// and JSON output on stdout stay machine-readable; a copy lands in the
// configured log directory when one is set.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	paths := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		paths = append(paths, filepath.Join(dir, "princer.log"))
	}
	logger, err := logging.New(logging.Options{
		Level:       c.resolvedLogLevel(cfg),
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

func (c *commandContext) openVault(cfg *config.Config) (*vault.Store, error) {
	store, err := vault.Open(cfg.Paths.VaultDB)
	if err != nil {
		return nil, fmt.Errorf("open vault database %s: %w", cfg.Paths.VaultDB, err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
