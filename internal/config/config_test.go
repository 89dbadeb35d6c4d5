package config_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tidy/internal/config"
)

func TestLoadDefaultConfigUsesWorkingDirectoryForState(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TIDY_STATE_DIR", "")
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState, err := filepath.Abs(".")
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.UndoLogPath() != filepath.Join(wantState, "undo_log.txt") {
		t.Fatalf("unexpected undo log path: %q", cfg.UndoLogPath())
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "tidy", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Undo.Backend != config.BackendFile {
		t.Fatalf("expected file backend by default, got %q", cfg.Undo.Backend)
	}
	if !cfg.Undo.Strict {
		t.Fatal("expected strict undo by default")
	}
	if cfg.Undo.RemoveEmptyDirs {
		t.Fatal("expected empty category folders to be kept by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestStateDirFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	stateDir := filepath.Join(t.TempDir(), "state")
	t.Setenv("TIDY_STATE_DIR", stateDir)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StateDir != stateDir {
		t.Fatalf("expected state dir from env, got %q", cfg.Paths.StateDir)
	}
	if cfg.LockPath() != filepath.Join(stateDir, "tidy.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tidy.toml")
	stateDir := filepath.Join(tempDir, "state")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Undo struct {
			Backend         string `toml:"backend"`
			Strict          bool   `toml:"strict"`
			RemoveEmptyDirs bool   `toml:"remove_empty_dirs"`
		} `toml:"undo"`
		Categories struct {
			Extra map[string]string `toml:"extra"`
		} `toml:"categories"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = stateDir
	custom.Undo.Backend = " SQLite "
	custom.Undo.Strict = false
	custom.Undo.RemoveEmptyDirs = true
	custom.Categories.Extra = map[string]string{".HEIC": " Images ", "7z": "Archives"}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.StateDir != stateDir {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Undo.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Undo.Backend)
	}
	if cfg.Undo.Strict {
		t.Fatal("expected tolerant undo")
	}
	if !cfg.Undo.RemoveEmptyDirs {
		t.Fatal("expected remove_empty_dirs to be honoured")
	}
	if cfg.Categories.Extra["heic"] != "Images" || cfg.Categories.Extra["7z"] != "Archives" {
		t.Fatalf("unexpected normalized categories: %v", cfg.Categories.Extra)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.UndoDBPath() != filepath.Join(stateDir, "undo.db") {
		t.Fatalf("unexpected db path %q", cfg.UndoDBPath())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tidy.toml")
	if err := os.WriteFile(configPath, []byte("[undo]\nbakend = \"file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestStateFilesFollowBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = "/state"
	cfg.Paths.LogDir = "/logs"

	files := strings.Join(cfg.StateFiles(), ",")
	if !strings.Contains(files, filepath.Join("/state", "undo_log.txt")) {
		t.Fatalf("expected undo log in state files, got %s", files)
	}
	if strings.Contains(files, "undo.db") {
		t.Fatalf("did not expect sqlite files for file backend, got %s", files)
	}

	cfg.Undo.Backend = config.BackendSQLite
	files = strings.Join(cfg.StateFiles(), ",")
	if !strings.Contains(files, filepath.Join("/state", "undo.db-wal")) {
		t.Fatalf("expected sqlite sidecar files, got %s", files)
	}
	if !strings.Contains(files, filepath.Join("/state", "tidy.lock")) {
		t.Fatalf("expected lock file, got %s", files)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "undo_log.txt") {
		t.Fatalf("sample config missing undo log name: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Undo.Backend != config.BackendFile {
		t.Fatalf("expected file backend in sample, got %q", cfg.Undo.Backend)
	}
	if cfg.Categories.Extra["heic"] != "Images" {
		t.Fatalf("expected heic example rule, got %v", cfg.Categories.Extra)
	}

	// The sample must survive the same normalization and validation as a user file.
	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("Load sample: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.Paths.StateDir = "/state"
		return cfg
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	cfg = base()
	cfg.Undo.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg = base()
	cfg.Undo.FileName = "logs/undo.txt"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for file name with separator")
	}

	cfg = base()
	cfg.Paths.StateDir = "/state|pipe"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for pipe in state dir with file backend")
	}

	cfg = base()
	cfg.Categories.Extra = map[string]string{"tar.gz": "Archives"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for dotted extension")
	}

	cfg = base()
	cfg.Categories.Extra = map[string]string{"heic": "Images/Phone"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for nested category")
	}

	cfg = base()
	cfg.Categories.Extra = map[string]string{"heic": ".."}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for dot-dot category")
	}

	cfg = base()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = base()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestLogLevelFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TIDY_STATE_DIR", t.TempDir())
	t.Setenv("TIDY_LOG_LEVEL", "DEBUG")

	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from TIDY_LOG_LEVEL, got %q", cfg.Logging.Level)
	}
}

func TestLogLevelFromFileWinsOverEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TIDY_LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[paths]\nstate_dir = " + strconv.Quote(t.TempDir()) + "\n\n[logging]\nlevel = \"warn\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected file level to win, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[paths]\nstate_dir = " + strconv.Quote(t.TempDir()) + "\n\n[logging]\nformat = \"xml\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}
