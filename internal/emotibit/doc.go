// Package emotibit loads EmotiBit DataParser CSV exports into signal series.
//
// Each data type is exported as one file per recording named
// `<date>_<time>_<CODE>.csv`. The loader discovers every file matching
// `*_<CODE>.csv` in a folder, reads the LocalTimestamp column as epoch
// seconds, takes the last column as the sample value, and merges the files
// into a single series sorted by time with duplicate timestamps dropped.
//
// Errors carry the markers from internal/model so callers can map them to
// exit codes: ErrNoFiles when a channel has no files, ErrDataFormat for bad
// headers or cells, and ErrEmptySeries when nothing remains to plot.
package emotibit
