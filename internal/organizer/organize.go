package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"tidy/internal/logging"
	"tidy/internal/services"
	"tidy/internal/undolog"
)

const stageOrganize = "organize"

// Move is one planned file move.
type Move struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Plan lists the moves an organize run would make, in execution order.
type Plan struct {
	Folder string `json:"folder"`
	Moves  []Move `json:"moves"`
}

// Result summarizes a successful organize run.
type Result struct {
	Folder     string         `json:"folder"`
	Moved      int            `json:"moved"`
	Categories map[string]int `json:"categories"`
}

// SortedCategories returns the category names present in the result.
func (r Result) SortedCategories() []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plan validates folder and computes the moves Organize would perform without
// touching the filesystem or the undo log.
func (e *Engine) Plan(ctx context.Context, folder string) (Plan, error) {
	folder = cleanPath(folder)
	info, err := e.fs.Stat(folder)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrInvalidFolder, stageOrganize, "validate folder",
			fmt.Sprintf("%s is not accessible", folder), err)
	}
	if !info.IsDir() {
		return Plan{}, services.Wrap(services.ErrInvalidFolder, stageOrganize, "validate folder",
			fmt.Sprintf("%s is not a directory; drop a folder, not a file", folder), nil)
	}

	entries, err := e.fs.Open(folder)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrInvalidFolder, stageOrganize, "list folder", "Failed to open folder", err)
	}
	infos, err := entries.Readdir(-1)
	entries.Close()
	if err != nil {
		return Plan{}, services.Wrap(services.ErrInvalidFolder, stageOrganize, "list folder", "Failed to read folder", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	plan := Plan{Folder: folder}
	for _, entry := range infos {
		if !entry.Mode().IsRegular() {
			continue
		}
		src := filepath.Join(folder, entry.Name())
		if _, skip := e.exclude[src]; skip {
			continue
		}
		category := e.classifier.Classify(entry.Name())
		plan.Moves = append(plan.Moves, Move{
			Name:     entry.Name(),
			Category: category,
			From:     src,
			To:       filepath.Join(folder, category, entry.Name()),
		})
	}
	if len(plan.Moves) == 0 {
		return plan, services.Wrap(services.ErrEmpty, stageOrganize, "list folder", "No files found in folder", nil)
	}

	if checker, ok := e.store.(undolog.PathChecker); ok {
		for _, mv := range plan.Moves {
			for _, path := range []string{mv.From, mv.To} {
				if err := checker.CheckPath(path); err != nil {
					return plan, services.Wrap(services.ErrMove, stageOrganize, "check path",
						fmt.Sprintf("Cannot record move of %s in the undo log", mv.Name), err)
				}
			}
		}
	}
	return plan, nil
}

// Organize moves every regular file directly inside folder into its category
// subfolder and records each move in the undo log. The log is cleared before
// the first move; an Empty outcome leaves the previous log untouched.
func (e *Engine) Organize(ctx context.Context, folder string, progress Progress) (Result, error) {
	ctx = services.WithOperation(ctx, stageOrganize)
	ctx = services.WithFolder(ctx, cleanPath(folder))
	logger := logging.WithContext(ctx, e.logger)

	plan, err := e.Plan(ctx, folder)
	if err != nil {
		if services.IsInformational(err) {
			logger.Info("nothing to organize")
		} else {
			logging.ErrorWithContext(logger, "organize rejected", "organize_rejected",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "pass an existing folder that contains files"),
			)
		}
		return Result{Folder: plan.Folder}, err
	}

	total := len(plan.Moves)
	logger.Info("organize started", logging.Int("files", total))
	started := time.Now()

	if err := e.store.Clear(ctx); err != nil {
		logging.ErrorWithContext(logger, "undo log reset failed", "undo_log_failed", logging.Error(err))
		return Result{Folder: plan.Folder}, services.Wrap(services.ErrUndoLog, stageOrganize, "reset undo log", "Failed to start a new undo log", err)
	}

	runID, _ := services.RunIDFromContext(ctx)
	result := Result{Folder: plan.Folder, Categories: map[string]int{}}
	sampler := logging.NewProgressSampler(10)
	ensured := map[string]struct{}{}

	for i, mv := range plan.Moves {
		dir := filepath.Dir(mv.To)
		if _, ok := ensured[dir]; !ok {
			if err := e.ensureDir(dir); err != nil {
				logging.ErrorWithContext(logger, "category folder unavailable", "directory_create_failed",
					logging.String("category", mv.Category),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "remove or rename any file named like the category"),
				)
				return result, services.Wrap(services.ErrDirectoryCreate, stageOrganize, "create category folder",
					fmt.Sprintf("Failed to create folder %s", mv.Category), err)
			}
			ensured[dir] = struct{}{}
		}

		if err := e.move(e.fs, mv.From, mv.To); err != nil {
			logging.ErrorWithContext(logger, "move failed", "move_failed",
				logging.String("from", mv.From),
				logging.String("to", mv.To),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run undo to restore the files moved so far"),
			)
			return result, services.Wrap(services.ErrMove, stageOrganize, "move file",
				fmt.Sprintf("Failed to move %s", mv.Name), err)
		}

		rec := undolog.Record{NewPath: mv.To, OriginalPath: mv.From, RunID: runID, MovedAt: time.Now()}
		if err := e.store.Append(ctx, rec); err != nil {
			rollbackErr := e.move(e.fs, mv.To, mv.From)
			attrs := []logging.Attr{logging.String("file", mv.From), logging.Error(err)}
			if rollbackErr != nil {
				attrs = append(attrs, logging.Any("rollback_error", rollbackErr))
			}
			logging.ErrorWithContext(logger, "undo record not written", "undo_log_failed", attrs...)
			return result, services.Wrap(services.ErrUndoLog, stageOrganize, "record move",
				fmt.Sprintf("Failed to record move of %s", mv.Name), errors.Join(err, rollbackErr))
		}

		result.Moved++
		result.Categories[mv.Category]++
		logger.Debug("moved file",
			logging.String("from", mv.From),
			logging.String("to", mv.To),
			logging.String("category", mv.Category),
		)

		percent := percentOf(i+1, total)
		if sampler.ShouldLog(percent) {
			logger.Debug("organize progress", logging.Int("percent", percent))
		}
		report(progress, percent)
	}

	logger.Info("organize completed",
		logging.Int("moved", result.Moved),
		logging.Int("categories", len(result.Categories)),
		logging.Any("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return result, nil
}

// ensureDir creates dir unless it already exists as a directory.
func (e *Engine) ensureDir(dir string) error {
	err := e.fs.Mkdir(dir, 0o755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		info, statErr := e.fs.Stat(dir)
		if statErr == nil && info.IsDir() {
			return nil
		}
		if statErr == nil {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return statErr
	}
	return err
}
