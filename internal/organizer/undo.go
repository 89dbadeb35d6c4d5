package organizer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"tidy/internal/logging"
	"tidy/internal/services"
	"tidy/internal/undolog"
)

const stageUndo = "undo"

// Failure describes a record that could not be restored.
type Failure struct {
	Record undolog.Record `json:"record"`
	Reason string         `json:"reason"`
}

// UndoResult summarizes an undo run.
type UndoResult struct {
	Restored    int       `json:"restored"`
	Failed      []Failure `json:"failed,omitempty"`
	RemovedDirs []string  `json:"removed_dirs,omitempty"`
}

// Pending returns the records of the current undo log, or an error wrapping
// services.ErrNoUndoLog when there is none.
func (e *Engine) Pending(ctx context.Context) ([]undolog.Record, error) {
	exists, err := e.store.Exists(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrUndoLog, stageUndo, "check undo log", "Failed to inspect undo log", err)
	}
	if !exists {
		return nil, services.Wrap(services.ErrNoUndoLog, stageUndo, "read undo log", "No undo log found", nil)
	}
	records, err := e.store.ReadAll(ctx)
	if errors.Is(err, undolog.ErrNotFound) {
		return nil, services.Wrap(services.ErrNoUndoLog, stageUndo, "read undo log", "No undo log found", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrUndoLog, stageUndo, "read undo log", "Failed to read undo log", err)
	}
	return records, nil
}

// Undo moves every logged file back to its original path in log order. In
// strict mode the first failure aborts and the log keeps the records that were
// not restored. Otherwise failures are collected and only they remain in the
// log. The log is deleted once every record is restored, and progress is reset
// to 0.
func (e *Engine) Undo(ctx context.Context, progress Progress) (UndoResult, error) {
	ctx = services.WithOperation(ctx, stageUndo)
	logger := logging.WithContext(ctx, e.logger)

	var result UndoResult
	records, err := e.Pending(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNoUndoLog) {
			logger.Info("nothing to undo")
		} else {
			logging.ErrorWithContext(logger, "undo log unreadable", "undo_log_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect or delete the undo log"),
			)
		}
		return result, err
	}

	total := len(records)
	logger.Info("undo started", logging.Int("records", total), logging.Bool("strict", e.opts.Strict))

	restoredDirs := map[string]struct{}{}
	for i, rec := range records {
		if err := e.restore(rec); err != nil {
			if e.opts.Strict {
				logging.ErrorWithContext(logger, "restore failed", "restore_failed",
					logging.String("from", rec.NewPath),
					logging.String("to", rec.OriginalPath),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "put the file back at its organized path and run undo again"),
				)
				if rewriteErr := e.rewrite(ctx, records[i:]); rewriteErr != nil {
					logger.Warn("undo log not trimmed", logging.Error(rewriteErr))
				}
				return result, services.Wrap(services.ErrRestore, stageUndo, "restore file",
					fmt.Sprintf("Failed to restore %s", rec.OriginalPath), err)
			}
			logging.WarnWithContext(logger, "restore skipped", "restore_skipped",
				logging.String("from", rec.NewPath),
				logging.String("to", rec.OriginalPath),
				logging.Error(err),
			)
			result.Failed = append(result.Failed, Failure{Record: rec, Reason: err.Error()})
		} else {
			result.Restored++
			restoredDirs[filepath.Dir(rec.NewPath)] = struct{}{}
			logger.Debug("restored file", logging.String("from", rec.NewPath), logging.String("to", rec.OriginalPath))
		}
		report(progress, percentOf(i+1, total))
	}

	if len(result.Failed) > 0 {
		pending := make([]undolog.Record, 0, len(result.Failed))
		for _, failure := range result.Failed {
			pending = append(pending, failure.Record)
		}
		if err := e.rewrite(ctx, pending); err != nil {
			return result, services.Wrap(services.ErrUndoLog, stageUndo, "rewrite undo log", "Failed to keep unrestored records", err)
		}
	} else if err := e.store.Delete(ctx); err != nil {
		return result, services.Wrap(services.ErrUndoLog, stageUndo, "delete undo log", "Failed to delete undo log", err)
	}

	if e.opts.RemoveEmptyDirs {
		result.RemovedDirs = e.removeEmptyDirs(restoredDirs)
	}

	report(progress, 0)
	logger.Info("undo completed",
		logging.Int("restored", result.Restored),
		logging.Int("failed", len(result.Failed)),
		logging.Int("removed_dirs", len(result.RemovedDirs)),
	)
	return result, nil
}

func (e *Engine) restore(rec undolog.Record) error {
	info, err := e.fs.Stat(rec.NewPath)
	if err != nil {
		return fmt.Errorf("organized file missing: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", rec.NewPath)
	}
	return e.move(e.fs, rec.NewPath, rec.OriginalPath)
}

func (e *Engine) rewrite(ctx context.Context, records []undolog.Record) error {
	if err := e.store.Clear(ctx); err != nil {
		return err
	}
	for _, rec := range records {
		if err := e.store.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) removeEmptyDirs(dirs map[string]struct{}) []string {
	names := make([]string, 0, len(dirs))
	for dir := range dirs {
		names = append(names, dir)
	}
	sort.Strings(names)

	var removed []string
	for _, dir := range names {
		empty, err := afero.IsEmpty(e.fs, dir)
		if err != nil || !empty {
			continue
		}
		if err := e.fs.Remove(dir); err != nil {
			e.logger.Warn("empty category folder not removed", logging.String("dir", dir), logging.Error(err))
			continue
		}
		removed = append(removed, dir)
	}
	return removed
}
