// Package undolog persists the moves made by an organize run so a later undo
// can reverse them.
//
// A log is an ordered sequence of Records. It is cleared at the start of every
// organize run, appended to after each successful move, read back in append
// order during undo, and deleted once the undo succeeds. Only one log exists
// per state directory, so starting a new run discards the previous one.
//
// Three Store implementations share the same contract: FileStore writes the
// plain-text `new|original` line format, SQLiteStore keeps records in an
// embedded SQLite database, and MemoryStore backs tests. Open picks the
// backend named in the configuration.
package undolog
