package undolog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const fieldSeparator = "|"

// maxLineBytes bounds a single log line; two paths of PATH_MAX fit easily.
const maxLineBytes = 64 * 1024

// FileStore keeps the log as plain text, one `new|original` line per record.
// The format has no escaping, so paths containing the separator are rejected
// by CheckPath.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a store writing to path on the given filesystem. A nil
// filesystem means the host filesystem.
func NewFileStore(fsys afero.Fs, path string) *FileStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileStore{fs: fsys, path: path}
}

// Path returns the log file location.
func (s *FileStore) Path() string {
	return s.path
}

// CheckPath rejects paths that would corrupt the line format.
func (s *FileStore) CheckPath(path string) error {
	if strings.Contains(path, fieldSeparator) {
		return fmt.Errorf("%w: %q contains %q", ErrUnsupportedPath, path, fieldSeparator)
	}
	if strings.ContainsAny(path, "\r\n") {
		return fmt.Errorf("%w: %q contains a line break", ErrUnsupportedPath, path)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, s.path, nil, 0o644); err != nil {
		return fmt.Errorf("truncate undo log: %w", err)
	}
	return nil
}

func (s *FileStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	file, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open undo log: %w", err)
	}
	line := rec.NewPath + fieldSeparator + rec.OriginalPath + "\n"
	if _, err := file.WriteString(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("write undo record: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync undo log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close undo log: %w", err)
	}
	return nil
}

func (s *FileStore) ReadAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open undo log: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorrupt, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read undo log: %w", err)
	}
	return records, nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove undo log: %w", err)
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := s.fs.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat undo log: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("undo log %s is a directory", s.path)
	}
	return true, nil
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) ensureDir() error {
	dir := filepath.Dir(s.path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure undo log directory: %w", err)
	}
	return nil
}

func parseLine(line string) (Record, error) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) != 2 {
		return Record{}, fmt.Errorf("expected 2 fields, found %d", len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return Record{}, errors.New("empty path field")
	}
	return Record{NewPath: parts[0], OriginalPath: parts[1]}, nil
}
