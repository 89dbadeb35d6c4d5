// Package preflight provides readiness checks for the filesystem paths tidy
// depends on.
//
// The CLI "tidy status" command runs RunAll to report whether the state
// directory, log directory and undo log are usable, and CheckDirectoryAccess
// for an optional target folder.
package preflight
