package undolog

import (
	"fmt"

	"github.com/spf13/afero"

	"tidy/internal/config"
)

// Open returns the store selected by cfg.Undo.Backend. The file backend uses
// fsys, which defaults to the host filesystem when nil.
func Open(cfg *config.Config, fsys afero.Fs) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("open undo log: config is nil")
	}
	switch cfg.Undo.Backend {
	case config.BackendFile, "":
		return NewFileStore(fsys, cfg.UndoLogPath()), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.UndoDBPath())
	default:
		return nil, fmt.Errorf("open undo log: unsupported backend %q", cfg.Undo.Backend)
	}
}
