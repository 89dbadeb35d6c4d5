package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"tidy/internal/config"
	"tidy/internal/services"
	"tidy/internal/testsupport"
)

func TestOrganizeCommandMovesFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.folder, "photo.jpg", "report.pdf", "song.mp3", "notes")

	out, _, err := runCLI(t, []string{"organize", env.folder}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "Files organized successfully!")
	requireContains(t, out, "Moved 4 file(s)")
	requireContains(t, out, "Images")

	testsupport.RequireFile(t, filepath.Join(env.folder, "Images", "photo.jpg"))
	testsupport.RequireFile(t, filepath.Join(env.folder, "Documents", "report.pdf"))
	testsupport.RequireFile(t, filepath.Join(env.folder, "Music", "song.mp3"))
	testsupport.RequireFile(t, filepath.Join(env.folder, "Others", "notes"))
	testsupport.RequireMissing(t, filepath.Join(env.folder, "photo.jpg"))

	store := testsupport.MustOpenStore(t, env.cfg)
	if records := testsupport.MustReadRecords(t, store); len(records) != 4 {
		t.Fatalf("expected 4 undo records, got %d", len(records))
	}
}

func TestOrganizeCommandEmptyFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"organize", env.folder}, env.configPath)
	if err != nil {
		t.Fatalf("organize empty folder: %v", err)
	}
	requireContains(t, out, "No files found in folder.")
}

func TestOrganizeCommandInvalidFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.folder, "file.txt")

	_, _, err := runCLI(t, []string{"organize", filepath.Join(env.folder, "file.txt")}, env.configPath)
	if !errors.Is(err, services.ErrInvalidFolder) {
		t.Fatalf("expected invalid folder error, got %v", err)
	}
}

func TestOrganizeCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithBackend(config.BackendSQLite))
	testsupport.WriteFiles(t, env.folder, "a.png", "b.png", "c.mkv")

	out, _, err := runCLI(t, []string{"organize", "--json", env.folder}, env.configPath)
	if err != nil {
		t.Fatalf("organize --json: %v", err)
	}
	var payload struct {
		Status string `json:"status"`
		Result struct {
			Moved      int            `json:"moved"`
			Categories map[string]int `json:"categories"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if payload.Status != "success" {
		t.Fatalf("expected success status, got %q", payload.Status)
	}
	if payload.Result.Moved != 3 {
		t.Fatalf("expected 3 moved, got %d", payload.Result.Moved)
	}
	if payload.Result.Categories["Images"] != 2 || payload.Result.Categories["Videos"] != 1 {
		t.Fatalf("unexpected categories: %v", payload.Result.Categories)
	}
}

func TestOrganizeCommandJSONError(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"organize", "--json", filepath.Join(env.folder, "missing")}, env.configPath)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	var payload organizeOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if payload.Status != "error" || payload.Kind != services.KindInvalidFolder {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestOrganizeCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.folder, "movie.mp4", "readme.txt")

	out, _, err := runCLI(t, []string{"organize", "--dry-run", env.folder}, env.configPath)
	if err != nil {
		t.Fatalf("organize --dry-run: %v", err)
	}
	requireContains(t, out, "movie.mp4")
	requireContains(t, out, "Videos")
	requireContains(t, out, "2 file(s) would be moved")

	testsupport.RequireFile(t, filepath.Join(env.folder, "movie.mp4"))
	testsupport.RequireMissing(t, filepath.Join(env.folder, "Videos"))
}

func TestOrganizeCommandQuiet(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.folder, "clip.wav")

	out, _, err := runCLI(t, []string{"organize", "-q", env.folder}, env.configPath)
	if err != nil {
		t.Fatalf("organize -q: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	testsupport.RequireFile(t, filepath.Join(env.folder, "Music", "clip.wav"))
}

func TestOrganizeCommandRequiresFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"organize"}, env.configPath); err == nil {
		t.Fatal("expected argument error")
	}
}
