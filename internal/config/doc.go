// Package config loads, normalizes, and validates tidy configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TIDY_STATE_DIR. The Config type centralizes every knob the engine and CLI
// need: where the undo log lives, which backend stores it, how strict undo
// is, extra category rules, and logging.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical enum values, and clear validation errors.
package config
