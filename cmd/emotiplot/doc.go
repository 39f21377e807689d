// Package main hosts the emotiplot CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies per-invocation
// flag overrides, and hands sessions to the pipeline package. Commands print
// human-oriented tables on stdout while structured logs go to stderr and the
// log file.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through flags or subcommands.
package main
