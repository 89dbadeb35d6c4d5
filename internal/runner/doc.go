// Package runner executes organize and undo runs on a background goroutine.
//
// A Runner serializes runs with an advisory file lock in the state directory,
// so a second run started while one is active (in this or another process)
// fails fast with services.ErrBusy. Each run gets a UUID that is attached to
// the context for log correlation and stored with SQLite undo records.
//
// Progress and the terminal outcome are delivered on a buffered channel sized
// so the worker never blocks on a slow consumer. Once started, a run ignores
// caller cancellation and always finishes.
package runner
