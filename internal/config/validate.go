package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateUndo(); err != nil {
		return err
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.ContainsRune(c.Paths.StateDir, '|') && c.Undo.Backend == BackendFile {
		return errors.New("paths.state_dir must not contain '|' when undo.backend is file")
	}
	return nil
}

func (c *Config) validateUndo() error {
	switch c.Undo.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("undo.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Undo.Backend)
	}
	if !isPlainName(c.Undo.FileName) {
		return fmt.Errorf("undo.file_name must be a plain file name, got %q", c.Undo.FileName)
	}
	return nil
}

func (c *Config) validateCategories() error {
	for ext, category := range c.Categories.Extra {
		if ext == "" {
			return errors.New("categories.extra contains an empty extension")
		}
		if strings.ContainsAny(ext, `/\.`) {
			return fmt.Errorf("categories.extra key %q must be a bare extension", ext)
		}
		if !isPlainName(category) {
			return fmt.Errorf("categories.extra.%s must name a single folder, got %q", ext, category)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", LogFormatConsole, LogFormatJSON, c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
