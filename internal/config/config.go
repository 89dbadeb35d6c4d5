package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// StateDir holds the undo log and the run lock. Empty means the process
	// working directory.
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Undo contains configuration for the undo log and the restore policy.
type Undo struct {
	Backend         string `toml:"backend"`
	FileName        string `toml:"file_name"`
	Strict          bool   `toml:"strict"`
	RemoveEmptyDirs bool   `toml:"remove_empty_dirs"`
}

// Categories contains additional extension rules layered on the built-in table.
type Categories struct {
	Extra map[string]string `toml:"extra"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tidy.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Undo: undo log backend, file name, and restore policy
//   - Categories: extra extension-to-category rules
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Undo       Undo       `toml:"undo"`
	Categories Categories `toml:"categories"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	cfg.applyEnvironment()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tidy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// UndoLogPath returns the location of the plain-text undo log.
func (c *Config) UndoLogPath() string {
	return filepath.Join(c.Paths.StateDir, c.Undo.FileName)
}

// UndoDBPath returns the location of the SQLite undo log.
func (c *Config) UndoDBPath() string {
	return filepath.Join(c.Paths.StateDir, undoDBFileName)
}

// LockPath returns the advisory lock file that serializes runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, lockFileName)
}

// LogPath returns the log file written by the CLI.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, logFileName)
}

// StateFiles lists every file tidy itself keeps in the state directory. The
// organizer never moves these even when the state directory is the folder
// being organized.
func (c *Config) StateFiles() []string {
	files := []string{c.LockPath()}
	switch c.Undo.Backend {
	case BackendSQLite:
		db := c.UndoDBPath()
		files = append(files, db, db+"-wal", db+"-shm", db+"-journal")
	default:
		files = append(files, c.UndoLogPath())
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		files = append(files, c.LogPath())
	}
	return files
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
