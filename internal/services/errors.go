package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFolder   = errors.New("invalid folder")
	ErrEmpty           = errors.New("no files found")
	ErrDirectoryCreate = errors.New("directory create failed")
	ErrMove            = errors.New("move failed")
	ErrNoUndoLog       = errors.New("no undo log")
	ErrRestore         = errors.New("restore failed")
	ErrUndoLog         = errors.New("undo log failure")
	ErrBusy            = errors.New("operation in progress")
)

// Kind names an error class as surfaced to callers and JSON output.
type Kind string

const (
	KindNone                  Kind = ""
	KindInvalidFolder         Kind = "InvalidFolder"
	KindEmpty                 Kind = "Empty"
	KindDirectoryCreateFailed Kind = "DirectoryCreateFailed"
	KindMoveFailed            Kind = "MoveFailed"
	KindNoUndoLog             Kind = "NoUndoLog"
	KindRestoreFailed         Kind = "RestoreFailed"
	KindUndoLogFailed         Kind = "UndoLogFailed"
	KindBusy                  Kind = "Busy"
	KindUnknown               Kind = "Unknown"
)

var markerKinds = []struct {
	marker error
	kind   Kind
}{
	{ErrInvalidFolder, KindInvalidFolder},
	{ErrEmpty, KindEmpty},
	{ErrDirectoryCreate, KindDirectoryCreateFailed},
	{ErrMove, KindMoveFailed},
	{ErrNoUndoLog, KindNoUndoLog},
	{ErrRestore, KindRestoreFailed},
	{ErrUndoLog, KindUndoLogFailed},
	{ErrBusy, KindBusy},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrMove
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf reports the error kind carried by err. Errors without a marker map to
// KindUnknown; nil maps to KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, mk := range markerKinds {
		if errors.Is(err, mk.marker) {
			return mk.kind
		}
	}
	return KindUnknown
}

// IsInformational reports whether err describes an outcome the caller should
// present as a notice rather than a failure.
func IsInformational(err error) bool {
	return errors.Is(err, ErrEmpty)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failure"
	}
	return strings.Join(parts, ": ")
}
