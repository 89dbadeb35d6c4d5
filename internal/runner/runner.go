package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tidy/internal/logging"
	"tidy/internal/organizer"
	"tidy/internal/services"
)

// Engine is the subset of organizer.Engine the runner drives.
type Engine interface {
	Organize(ctx context.Context, folder string, progress organizer.Progress) (organizer.Result, error)
	Undo(ctx context.Context, progress organizer.Progress) (organizer.UndoResult, error)
}

// Runner starts at most one organize or undo run at a time.
type Runner struct {
	engine   Engine
	lockPath string
	logger   *slog.Logger
	running  atomic.Bool
	newID    func() string
}

// New constructs a runner that guards runs with a lock file at lockPath.
func New(engine Engine, lockPath string, logger *slog.Logger) *Runner {
	return &Runner{
		engine:   engine,
		lockPath: lockPath,
		logger:   logging.NewComponentLogger(logger, "runner"),
		newID:    uuid.NewString,
	}
}

// StartOrganize begins organizing folder and returns immediately.
func (r *Runner) StartOrganize(ctx context.Context, folder string) (*Job[organizer.Result], error) {
	return start(ctx, r, "organize", func(ctx context.Context, progress organizer.Progress) (organizer.Result, error) {
		return r.engine.Organize(ctx, folder, progress)
	})
}

// StartUndo begins undoing the most recent run and returns immediately.
func (r *Runner) StartUndo(ctx context.Context) (*Job[organizer.UndoResult], error) {
	return start(ctx, r, "undo", r.engine.Undo)
}

func start[T any](ctx context.Context, r *Runner, operation string, run func(context.Context, organizer.Progress) (T, error)) (*Job[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, services.Wrap(services.ErrBusy, operation, "acquire lock", "Another run is already in progress", nil)
	}
	lock, err := r.acquire(operation)
	if err != nil {
		r.running.Store(false)
		return nil, err
	}

	id := r.newID()
	ctx = services.WithRunID(context.WithoutCancel(ctx), id)
	job := newJob[T](id, operation)
	logger := logging.WithContext(ctx, r.logger)

	go func() {
		started := time.Now()
		logger.Info("run started", logging.String(logging.FieldOperation, operation))
		result, err := run(ctx, job.progress)
		outcome := "success"
		if err != nil {
			outcome = string(services.KindOf(err))
		}
		logger.Info("run finished",
			logging.String(logging.FieldOperation, operation),
			logging.String("outcome", outcome),
			logging.Any("elapsed", time.Since(started).Round(time.Millisecond)),
		)

		// release before finishing so a caller returning from Wait can start again
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release run lock", logging.String("lock", r.lockPath), logging.Error(unlockErr))
		}
		r.running.Store(false)
		job.finish(result, err)
	}()

	return job, nil
}

func (r *Runner) acquire(operation string) (*flock.Flock, error) {
	if dir := filepath.Dir(r.lockPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrBusy, operation, "acquire lock", "Failed to prepare lock directory", err)
		}
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrBusy, operation, "acquire lock", fmt.Sprintf("Failed to lock %s", r.lockPath), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, operation, "acquire lock", "Another tidy run is already in progress", nil)
	}
	return lock, nil
}

// Held reports whether a run currently holds the lock at lockPath.
func Held(lockPath string) (bool, error) {
	if _, err := os.Stat(lockPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return false, err
	}
	if ok {
		_ = lock.Unlock()
		return false, nil
	}
	return true, nil
}
