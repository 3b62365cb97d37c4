// Package logging constructs slog loggers with console and JSON handlers
// and provides the attribute helpers used across the codebase.
package logging
