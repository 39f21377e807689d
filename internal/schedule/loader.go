package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"emotiplot/internal/logging"
	"emotiplot/internal/model"
	"emotiplot/internal/textutil"
)

// Column aliases accepted alongside the configured names.
var (
	timeAliases        = []string{"time_str", "start_time", "start"}
	labelAliases       = []string{"song_artist", "song", "song_title"}
	observationAliases = []string{"observations", "notes"}
)

// Options configures schedule parsing.
type Options struct {
	Sheet             string
	TimeColumn        string
	LabelColumn       string
	ScoreColumn       string
	ObservationColumn string
	// EndMarker is matched case-insensitively against observations to find
	// the end of the music session.
	EndMarker string
	Location  *time.Location
	// Date anchors time-of-day values. Zero means unknown.
	Date time.Time
	// Afternoon shifts hours 1-11 without an AM/PM suffix into the afternoon.
	Afternoon bool
	Logger    *slog.Logger
}

type columns struct {
	time, label, score, observation int
}

// Load reads the schedule at path. Entries are sorted by start time; an empty
// schedule is not an error.
func Load(ctx context.Context, path string, opts Options) (model.Schedule, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "schedule"))
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	tbl, err := readTable(path, opts.Sheet)
	if err != nil {
		return model.Schedule{}, err
	}
	if len(tbl.header) == 0 {
		logging.WarnWithContext(logger, "schedule is empty", "empty_schedule",
			logging.String("path", path),
			logging.String(logging.FieldImpact, "plots have no song annotations"),
		)
		return model.Schedule{}, nil
	}

	cols, err := resolveColumns(tbl.header, opts)
	if err != nil {
		return model.Schedule{}, err
	}

	parser := timeParser{loc: loc, date: opts.Date, pm: opts.Afternoon}
	entries := make([]model.ScheduleEntry, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		if err := ctx.Err(); err != nil {
			return model.Schedule{}, err
		}
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		raw := cell(row, cols.time)
		start, err := parser.parse(raw)
		if err != nil {
			return model.Schedule{}, model.Wrap(model.ErrDataFormat, "schedule", "parse time", fmt.Sprintf("row %d value %q", rowNum, raw), err)
		}
		entry := model.ScheduleEntry{
			Start:       start,
			Label:       cell(row, cols.label),
			Score:       cell(row, cols.score),
			Observation: cell(row, cols.observation),
			Row:         rowNum,
		}
		logger.Debug("schedule entry",
			logging.Int("row", rowNum),
			logging.String("start", start.Format("15:04:05")),
			logging.String("song", textutil.FirstNonBlank(entry.Label, "N/A")),
			logging.String("score", textutil.FirstNonBlank(entry.Score, "N/A")),
		)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].Start.Equal(entries[i-1].Start) {
			return model.Schedule{}, model.Wrap(model.ErrDataFormat, "schedule", "validate",
				fmt.Sprintf("rows %d and %d share start time %s", entries[i-1].Row, entries[i].Row, entries[i].Start.Format("15:04:05")), nil)
		}
	}

	sched := model.Schedule{Entries: entries}
	sched.MusicStart, sched.MusicEnd = sessionBounds(entries, opts.EndMarker)

	attrs := []logging.Attr{
		logging.String("path", path),
		logging.Int("entries", len(entries)),
	}
	if sched.HasSession() {
		attrs = append(attrs,
			logging.String("music_start", sched.MusicStart.Format("15:04:05")),
			logging.String("music_end", sched.MusicEnd.Format("15:04:05")),
		)
	}
	logger.Info("schedule loaded", logging.Args(attrs...)...)
	return sched, nil
}

// sessionBounds finds the first labelled entry and the first entry whose
// observation contains marker, falling back to the last entry.
func sessionBounds(entries []model.ScheduleEntry, marker string) (time.Time, time.Time) {
	if len(entries) == 0 {
		return time.Time{}, time.Time{}
	}
	var start, end time.Time
	for _, e := range entries {
		if e.Label != "" {
			start = e.Start
			break
		}
	}
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker != "" {
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Observation), marker) {
				end = e.Start
				break
			}
		}
	}
	if end.IsZero() {
		end = entries[len(entries)-1].Start
	}
	return start, end
}

func resolveColumns(header []string, opts Options) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := textutil.HeaderKey(h)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	find := func(primary string, aliases []string) int {
		for _, name := range append([]string{primary}, aliases...) {
			key := textutil.HeaderKey(name)
			if key == "" {
				continue
			}
			if idx, ok := index[key]; ok {
				return idx
			}
		}
		return -1
	}

	cols := columns{
		time:        find(opts.TimeColumn, timeAliases),
		label:       find(opts.LabelColumn, labelAliases),
		score:       find(opts.ScoreColumn, nil),
		observation: find(opts.ObservationColumn, observationAliases),
	}
	if cols.time < 0 {
		return columns{}, missingColumn(opts.TimeColumn, "time", header)
	}
	if cols.label < 0 {
		return columns{}, missingColumn(opts.LabelColumn, "song_name", header)
	}
	return cols, nil
}

func missingColumn(configured, fallback string, header []string) error {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = fallback
	}
	msg := fmt.Sprintf("column %q not found in header [%s]", name, strings.Join(header, ", "))
	if suggestion, ok := textutil.ClosestMatch(name, header); ok {
		msg += fmt.Sprintf("; did you mean %q?", suggestion)
	}
	return model.Wrap(model.ErrDataFormat, "schedule", "resolve columns", msg, nil)
}
