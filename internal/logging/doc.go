// Package logging assembles structured slog loggers and formatting helpers used
// across luamaker.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with app IDs, stages, and run correlation IDs. Console output goes to
// stderr; a JSON copy is appended to luamaker.log in the configured log
// directory. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
