package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tidy/internal/config"
	"tidy/internal/services"
	"tidy/internal/testsupport"
)

func TestUndoCommandRestoresFiles(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			env := setupCLITestEnv(t, testsupport.WithBackend(backend), testsupport.WithRemoveEmptyDirs())
			testsupport.WriteFiles(t, env.folder, "a.jpg", "b.docx", "c")

			if _, _, err := runCLI(t, []string{"organize", env.folder}, env.configPath); err != nil {
				t.Fatalf("organize: %v", err)
			}

			out, _, err := runCLI(t, []string{"undo"}, env.configPath)
			if err != nil {
				t.Fatalf("undo: %v", err)
			}
			requireContains(t, out, "Files restored successfully!")
			requireContains(t, out, "Restored 3 file(s)")
			requireContains(t, out, "Removed empty folder")

			got := testsupport.ListDir(t, env.folder)
			want := []string{"a.jpg", "b.docx", "c"}
			if len(got) != len(want) {
				t.Fatalf("expected %v after undo, got %v", want, got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("expected %v after undo, got %v", want, got)
				}
			}
		})
	}
}

func TestUndoCommandWithoutLog(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, []string{"undo"}, env.configPath)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	requireContains(t, stderr, "No undo log found.")
}

func TestUndoCommandTwiceReportsNoLog(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.folder, "a.gif")

	if _, _, err := runCLI(t, []string{"organize", env.folder}, env.configPath); err != nil {
		t.Fatalf("organize: %v", err)
	}
	if _, _, err := runCLI(t, []string{"undo"}, env.configPath); err != nil {
		t.Fatalf("first undo: %v", err)
	}
	_, stderr, err := runCLI(t, []string{"undo"}, env.configPath)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error on second undo, got %v", err)
	}
	requireContains(t, stderr, "No undo log found.")
}

func TestUndoCommandStrictStopsAtMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.folder, "a.jpg", "b.jpg")

	if _, _, err := runCLI(t, []string{"organize", env.folder}, env.configPath); err != nil {
		t.Fatalf("organize: %v", err)
	}
	if err := os.Remove(filepath.Join(env.folder, "Images", "a.jpg")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, _, err := runCLI(t, []string{"undo"}, env.configPath)
	if !errors.Is(err, services.ErrRestore) {
		t.Fatalf("expected restore error, got %v", err)
	}
	testsupport.RequireFile(t, filepath.Join(env.folder, "Images", "b.jpg"))
}

func TestUndoCommandTolerantJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithTolerantUndo())
	testsupport.WriteFiles(t, env.folder, "a.jpg", "b.jpg")

	if _, _, err := runCLI(t, []string{"organize", env.folder}, env.configPath); err != nil {
		t.Fatalf("organize: %v", err)
	}
	if err := os.Remove(filepath.Join(env.folder, "Images", "a.jpg")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	out, _, err := runCLI(t, []string{"undo", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("undo --json: %v", err)
	}
	var payload undoOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if payload.Status != "success" || payload.Result == nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Result.Restored != 1 || len(payload.Result.Failed) != 1 {
		t.Fatalf("expected 1 restored and 1 failed, got %+v", payload.Result)
	}
	if payload.Result.Failed[0].Record.OriginalPath != filepath.Join(env.folder, "a.jpg") {
		t.Fatalf("unexpected failed record: %+v", payload.Result.Failed[0])
	}
	testsupport.RequireFile(t, filepath.Join(env.folder, "b.jpg"))

	store := testsupport.MustOpenStore(t, env.cfg)
	if records := testsupport.MustReadRecords(t, store); len(records) != 1 {
		t.Fatalf("expected failed record to remain in log, got %d", len(records))
	}
}

func TestUndoCommandJSONWithoutLog(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"undo", "--json"}, env.configPath)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	var payload undoOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if payload.Kind != services.KindNoUndoLog || payload.Result != nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
