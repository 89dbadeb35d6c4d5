package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	operationKey contextKey = "operation"
	folderKey    contextKey = "folder"
)

// WithRunID annotates context with the job run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the operation name (organize/undo).
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(operationKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithFolder annotates context with the folder being organized.
func WithFolder(ctx context.Context, folder string) context.Context {
	if folder == "" {
		return ctx
	}
	return context.WithValue(ctx, folderKey, folder)
}

// FolderFromContext returns the target folder if present.
func FolderFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(folderKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
