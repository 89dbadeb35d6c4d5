package main

import (
	"encoding/json"
	"testing"

	"tidy/internal/testsupport"
)

func TestClassifyCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"classify", "Photo.JPG", "archive.tar.gz", "README"}, env.configPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	requireContains(t, out, "Photo.JPG")
	requireContains(t, out, "Images")
	requireContains(t, out, "Others")
}

func TestClassifyCommandJSONUsesExtraRules(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExtraCategories(map[string]string{"epub": "Books"}))

	out, _, err := runCLI(t, []string{"classify", "--json", "novel.epub", "clip.mkv"}, env.configPath)
	if err != nil {
		t.Fatalf("classify --json: %v", err)
	}
	var results []classification
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(results) != 2 || results[0].Category != "Books" || results[1].Category != "Videos" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestClassifyCommandListsCategories(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"classify", "--categories"}, env.configPath)
	if err != nil {
		t.Fatalf("classify --categories: %v", err)
	}
	for _, name := range []string{"Documents", "Images", "Music", "Others", "Videos"} {
		requireContains(t, out, name)
	}
}

func TestClassifyCommandRequiresName(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"classify"}, env.configPath); err == nil {
		t.Fatal("expected error without names")
	}
}
