// Package organizer moves the top-level files of a folder into category
// subfolders and reverses the most recent run from the undo log.
//
// Organize lists regular files in lexical order, asks the classifier for each
// file's category, ensures the category folder exists, moves the file and
// appends an undo record before reporting progress. A run stops at the first
// failure; the log always describes exactly the files that were moved, so a
// partial run can still be undone. Undo replays the log, moving every file
// back to its original path, and deletes the log when nothing is left to
// restore.
//
// A folder without regular files, even one holding only subfolders, is an
// Empty outcome: nothing moves and the previous undo log is kept.
//
// The engine holds no lock and ignores cancellation once started; callers that
// need single-run semantics or background execution go through
// internal/runner.
package organizer
