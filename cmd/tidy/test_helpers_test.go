package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tidy/internal/config"
	"tidy/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	folder     string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TIDY_STATE_DIR", "")

	configPath := filepath.Join(homeDir, ".config", "tidy", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	folder := filepath.Join(base, "Downloads")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir folder: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, folder: folder}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\n\n[undo]\nbackend = %q\nstrict = %t\nremove_empty_dirs = %t\n",
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Undo.Backend,
		cfg.Undo.Strict,
		cfg.Undo.RemoveEmptyDirs,
	)
	if len(cfg.Categories.Extra) > 0 {
		content += "\n[categories.extra]\n"
		for ext, category := range cfg.Categories.Extra {
			content += fmt.Sprintf("%s = %q\n", ext, category)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
