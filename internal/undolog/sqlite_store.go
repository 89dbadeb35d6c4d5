package undolog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the log in an SQLite database. The presence of the log is
// tracked separately from its records so an empty log still exists.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// OpenSQLite initializes or connects to the undo database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure undo db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// pragmas below are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM undo_records"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO undo_state (id, created_at) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at",
			now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear undo log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	movedAt := rec.MovedAt
	if movedAt.IsZero() {
		movedAt = time.Now()
	}
	timestamp := movedAt.UTC().Format(time.RFC3339Nano)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO undo_state (id, created_at) VALUES (1, ?)", timestamp,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO undo_records (run_id, new_path, original_path, moved_at) VALUES (?, ?, ?, ?)",
			nullableString(rec.RunID), rec.NewPath, rec.OriginalPath, timestamp,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("append undo record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]Record, error) {
	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, new_path, original_path, moved_at FROM undo_records ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("query undo records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			runID    sql.NullString
			rec      Record
			movedRaw string
		)
		if err := rows.Scan(&runID, &rec.NewPath, &rec.OriginalPath, &movedRaw); err != nil {
			return nil, fmt.Errorf("scan undo record: %w", err)
		}
		rec.RunID = runID.String
		movedAt, err := time.Parse(time.RFC3339Nano, movedRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: record moved_at %q: %v", ErrCorrupt, movedRaw, err)
		}
		rec.MovedAt = movedAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate undo records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM undo_records"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM undo_state")
		return err
	})
	if err != nil {
		return fmt.Errorf("delete undo log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM undo_state").Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("check undo state: %w", err)
	}
	return count > 0, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
