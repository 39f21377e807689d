// Package logging assembles structured slog loggers and formatting helpers used
// across emotiplot.
//
// It owns the configurable console/JSON handlers, mirrors every record as JSON
// into the log file, and exposes context-aware helpers so pipeline code can tag log
// lines with the run id, session, and channel automatically. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
