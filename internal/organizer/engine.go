package organizer

import (
	"log/slog"

	"github.com/spf13/afero"

	"tidy/internal/classifier"
	"tidy/internal/config"
	"tidy/internal/fileutil"
	"tidy/internal/logging"
	"tidy/internal/undolog"
)

// Progress receives completion percentages in the range 0-100.
type Progress func(percent int)

// Options tune engine behaviour.
type Options struct {
	// Strict makes the first restore failure abort an undo.
	Strict bool
	// RemoveEmptyDirs deletes category folders emptied by an undo.
	RemoveEmptyDirs bool
	// Exclude lists absolute paths that are never moved.
	Exclude []string
}

// Engine organizes folders and undoes the most recent run.
type Engine struct {
	fs         afero.Fs
	store      undolog.Store
	classifier *classifier.Classifier
	logger     *slog.Logger
	opts       Options
	exclude    map[string]struct{}
	move       func(fsys afero.Fs, src, dst string) error
}

// New constructs an engine. A nil filesystem means the host filesystem and a
// nil classifier means the built-in extension table.
func New(fsys afero.Fs, store undolog.Store, cls *classifier.Classifier, logger *slog.Logger, opts Options) *Engine {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if cls == nil {
		cls = classifier.Default()
	}
	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, path := range opts.Exclude {
		if path == "" {
			continue
		}
		exclude[cleanPath(path)] = struct{}{}
	}
	return &Engine{
		fs:         fsys,
		store:      store,
		classifier: cls,
		logger:     logging.NewComponentLogger(logger, "organizer"),
		opts:       opts,
		exclude:    exclude,
		move:       fileutil.MoveFile,
	}
}

// NewFromConfig wires an engine on the host filesystem using the configured
// categories and undo behaviour. tidy's own state files are excluded so a
// folder that doubles as the state directory does not move its undo log.
func NewFromConfig(cfg *config.Config, store undolog.Store, logger *slog.Logger) *Engine {
	return New(nil, store, classifier.New(cfg.Categories.Extra), logger, Options{
		Strict:          cfg.Undo.Strict,
		RemoveEmptyDirs: cfg.Undo.RemoveEmptyDirs,
		Exclude:         cfg.StateFiles(),
	})
}

// Classifier returns the classifier the engine uses.
func (e *Engine) Classifier() *classifier.Classifier {
	return e.classifier
}

func report(progress Progress, percent int) {
	if progress != nil {
		progress(percent)
	}
}

func percentOf(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
