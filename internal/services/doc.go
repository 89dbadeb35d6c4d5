// Package services defines small shared building blocks used by the engine,
// the background runner, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, operation names, and target folders
//     for logging and undo-log bookkeeping.
//   - Structured error markers plus the Wrap helper so every failure carries
//     one of the documented error kinds alongside the underlying cause.
//
// Use these helpers when adding new operations so error reporting and
// observability stay uniform between organize and undo.
package services
