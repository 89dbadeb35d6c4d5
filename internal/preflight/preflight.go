package preflight

import (
	"tidy/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the preflight checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	switch cfg.Undo.Backend {
	case config.BackendSQLite:
		results = append(results, CheckFileAccess("Undo database", cfg.UndoDBPath()))
	default:
		results = append(results, CheckFileAccess("Undo log", cfg.UndoLogPath()))
	}
	return results
}
