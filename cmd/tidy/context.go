package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/logging"
	"tidy/internal/organizer"
	"tidy/internal/undolog"
)

// errReported marks failures whose message the command already printed.
var errReported = errors.New("error reported")

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verbose      *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verbose:      verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = fmt.Errorf("--log-level: %w", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		mirror := c.verbose != nil && *c.verbose
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, mirror)
	})
	return c.logger, c.loggerErr
}

// withEngine opens the configured undo log, builds an engine and runs fn.
func (c *commandContext) withEngine(fn func(cfg *config.Config, engine *organizer.Engine, logger *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	store, err := undolog.Open(cfg, nil)
	if err != nil {
		return fmt.Errorf("open undo log: %w", err)
	}
	defer store.Close()
	return fn(cfg, organizer.NewFromConfig(cfg, store, logger), logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
