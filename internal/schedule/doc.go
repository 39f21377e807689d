// Package schedule loads the music playback schedule that annotates plots.
//
// A schedule is a workbook (.xlsx/.xlsm) or CSV file with one row per
// playback start. Headers are matched by normalized key against the
// configured column names plus a few aliases used by observation exports.
// Times may be full timestamps, Excel serial numbers, or a time of day that is
// resolved against the session date; the returned entries are sorted by start
// time and carry the bounds of the music session.
package schedule
