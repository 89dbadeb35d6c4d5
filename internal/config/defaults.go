package config

import (
	"os"
	"strings"
)

const (
	defaultConfigPath   = "~/.config/tidy/config.toml"
	defaultLogDir       = "~/.local/share/tidy/logs"
	defaultUndoFileName = "undo_log.txt"
	defaultLogFormat    = LogFormatConsole
	defaultLogLevel     = "info"

	undoDBFileName = "undo.db"
	lockFileName   = "tidy.lock"
	logFileName    = "tidy.log"
)

// Undo log backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Undo: Undo{
			Backend:  BackendFile,
			FileName: defaultUndoFileName,
			Strict:   true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// applyEnvironment seeds values that environment variables may set before the
// config file is decoded. Keys present in the file still win.
func (c *Config) applyEnvironment() {
	if value := strings.TrimSpace(os.Getenv("TIDY_LOG_LEVEL")); value != "" {
		c.Logging.Level = value
	}
}
