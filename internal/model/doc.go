// Package model holds the in-memory records that flow through a plotting run
// and the error markers every stage uses to classify failures.
//
// Schedule entries, signal series, and annotation spans are created fresh per
// run and never mutated once built; each stage hands the next a new value.
// Wrap errors with the sentinel markers so the CLI can map failures to exit
// codes without inspecting message text.
package model
