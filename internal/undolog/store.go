package undolog

import (
	"context"
	"errors"
	"time"
)

// Record describes one completed move.
type Record struct {
	NewPath      string    `json:"new_path"`
	OriginalPath string    `json:"original_path"`
	RunID        string    `json:"run_id,omitempty"`
	MovedAt      time.Time `json:"moved_at,omitzero"`
}

var (
	// ErrNotFound is returned by ReadAll when no log exists.
	ErrNotFound = errors.New("undo log not found")
	// ErrCorrupt is returned when a stored record cannot be parsed.
	ErrCorrupt = errors.New("undo log corrupt")
	// ErrUnsupportedPath is returned by PathChecker for paths the backend
	// cannot store faithfully.
	ErrUnsupportedPath = errors.New("path cannot be stored in undo log")
)

// Store persists the undo log of the most recent organize run.
type Store interface {
	// Clear creates an empty log, discarding any previous records.
	Clear(ctx context.Context) error
	// Append adds a record to the end of the log, creating the log if needed.
	Append(ctx context.Context, rec Record) error
	// ReadAll returns every record in append order, or ErrNotFound.
	ReadAll(ctx context.Context) ([]Record, error)
	// Delete removes the log. Deleting a missing log is not an error.
	Delete(ctx context.Context) error
	// Exists reports whether a log is present, even if it holds no records.
	Exists(ctx context.Context) (bool, error)
	Close() error
}

// PathChecker is implemented by stores that cannot represent every path.
// Callers check paths before acting so the log never holds a record it cannot
// read back.
type PathChecker interface {
	CheckPath(path string) error
}

// Location returns a human-readable description of where a store keeps its
// records.
func Location(store Store) string {
	switch s := store.(type) {
	case *FileStore:
		return s.Path()
	case *SQLiteStore:
		return s.Path()
	case *MemoryStore:
		return "memory"
	default:
		return ""
	}
}
