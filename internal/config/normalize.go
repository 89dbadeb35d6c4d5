package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeUndo()
	c.normalizeCategories()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.StateDir = strings.TrimSpace(c.Paths.StateDir)
	if c.Paths.StateDir == "" {
		if value, ok := os.LookupEnv("TIDY_STATE_DIR"); ok {
			c.Paths.StateDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.StateDir == "" {
		c.Paths.StateDir = "."
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeUndo() {
	c.Undo.Backend = strings.ToLower(strings.TrimSpace(c.Undo.Backend))
	if c.Undo.Backend == "" {
		c.Undo.Backend = BackendFile
	}
	c.Undo.FileName = strings.TrimSpace(c.Undo.FileName)
	if c.Undo.FileName == "" {
		c.Undo.FileName = defaultUndoFileName
	}
}

func (c *Config) normalizeCategories() {
	if len(c.Categories.Extra) == 0 {
		c.Categories.Extra = nil
		return
	}
	normalized := make(map[string]string, len(c.Categories.Extra))
	for ext, category := range c.Categories.Extra {
		key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		normalized[key] = strings.TrimSpace(category)
	}
	c.Categories.Extra = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("TIDY_LOG_LEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
