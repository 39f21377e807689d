package schedule

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emotiplot/internal/model"
	"emotiplot/internal/testsupport"
)

var scheduleHeader = []string{"time", "song_name", "score", "observation"}

func sessionOptions() Options {
	return Options{
		TimeColumn:        "time",
		LabelColumn:       "song_name",
		ScoreColumn:       "score",
		ObservationColumn: "observation",
		EndMarker:         "music end",
		Location:          time.UTC,
		Date:              time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func at(h, m, s int) time.Time {
	return time.Date(2024, 5, 1, h, m, s, 0, time.UTC)
}

func writeCSV(t *testing.T, header []string, rows ...[]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Session Combined Observations.csv")
	testsupport.WriteCSV(t, path, header, rows)
	return path
}

func TestLoadCSVSortsAndKeepsEveryRow(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"10:05", "Song B", "7", ""},
		[]string{"10:00", "Song A", "", "calm"},
		[]string{"10:10:30", "Song C", "", ""},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	require.Len(t, sched.Entries, 3)

	assert.Equal(t, "Song A", sched.Entries[0].Label)
	assert.Equal(t, at(10, 0, 0), sched.Entries[0].Start)
	assert.Equal(t, 3, sched.Entries[0].Row)
	assert.Equal(t, "Song B", sched.Entries[1].Label)
	assert.Equal(t, "7", sched.Entries[1].Score)
	assert.Equal(t, at(10, 10, 30), sched.Entries[2].Start)
	for i := 1; i < len(sched.Entries); i++ {
		assert.True(t, sched.Entries[i].Start.After(sched.Entries[i-1].Start))
	}
}

func TestLoadAfternoonShiftsBareHours(t *testing.T) {
	opts := sessionOptions()
	opts.Afternoon = true
	path := writeCSV(t, scheduleHeader,
		[]string{"1:30", "a", "", ""},
		[]string{"12:15", "b", "", ""},
		[]string{"2:00 AM", "c", "", ""},
		[]string{"3:04 PM", "d", "", ""},
		[]string{"16:00", "e", "", ""},
	)

	sched, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	got := map[string]time.Time{}
	for _, e := range sched.Entries {
		got[e.Label] = e.Start
	}
	assert.Equal(t, at(13, 30, 0), got["a"])
	assert.Equal(t, at(12, 15, 0), got["b"])
	assert.Equal(t, at(2, 0, 0), got["c"])
	assert.Equal(t, at(15, 4, 0), got["d"])
	assert.Equal(t, at(16, 0, 0), got["e"])
}

func TestLoadRejectsUnparsableTime(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"10:00", "Song A", "", ""},
		[]string{"soon", "Song B", "", ""},
	)

	_, err := Load(context.Background(), path, sessionOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataFormat)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadRejectsEmptyTimeCell(t *testing.T) {
	path := writeCSV(t, scheduleHeader, []string{"", "Song A", "", ""})

	_, err := Load(context.Background(), path, sessionOptions())
	assert.ErrorIs(t, err, model.ErrDataFormat)
	assert.ErrorIs(t, err, errEmptyTime)
}

func TestLoadTimeOfDayNeedsDate(t *testing.T) {
	opts := sessionOptions()
	opts.Date = time.Time{}
	path := writeCSV(t, scheduleHeader, []string{"10:00", "Song A", "", ""})

	_, err := Load(context.Background(), path, opts)
	assert.ErrorIs(t, err, model.ErrDataFormat)
	assert.ErrorIs(t, err, errNoDate)
}

func TestLoadFullTimestampsNeedNoDate(t *testing.T) {
	opts := sessionOptions()
	opts.Date = time.Time{}
	path := writeCSV(t, scheduleHeader,
		[]string{"2024-05-01 10:00:00", "Song A", "", ""},
		[]string{"2024-05-01T14:03:00Z", "Song B", "", ""},
	)

	sched, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	require.Len(t, sched.Entries, 2)
	assert.Equal(t, at(14, 3, 0), sched.Entries[1].Start)
}

func TestLoadRejectsDuplicateStarts(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"10:00", "Song A", "", ""},
		[]string{"10:00:00", "Song B", "", ""},
	)

	_, err := Load(context.Background(), path, sessionOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataFormat)
	assert.Contains(t, err.Error(), "rows 2 and 3")
}

func TestLoadMissingLabelColumnSuggestsHeader(t *testing.T) {
	path := writeCSV(t, []string{"time", "Song Title Here"}, []string{"10:00", "Song A"})

	_, err := Load(context.Background(), path, sessionOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataFormat)
	assert.Contains(t, err.Error(), "song_name")
}

func TestLoadMissingTimeColumn(t *testing.T) {
	path := writeCSV(t, []string{"when", "song_name"}, []string{"10:00", "Song A"})

	_, err := Load(context.Background(), path, sessionOptions())
	assert.ErrorIs(t, err, model.ErrDataFormat)
}

func TestLoadAcceptsAliasesAndHeaderCase(t *testing.T) {
	path := writeCSV(t, []string{"Time_Str", "Song Artist", "Score", "Observation"},
		[]string{"10:00", "Song A", "9", "Music end"},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	require.Len(t, sched.Entries, 1)
	assert.Equal(t, "Song A | (Score: 9) | Music end", sched.Entries[0].Caption())
}

func TestLoadSkipsBlankRows(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"10:00", "Song A", "", ""},
		[]string{"", "", "", ""},
		[]string{" ", "", "", ""},
		[]string{"10:05", "Song B", "", ""},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	require.Len(t, sched.Entries, 2)
	assert.Equal(t, 5, sched.Entries[1].Row)
}

func TestLoadEmptySchedule(t *testing.T) {
	path := writeCSV(t, scheduleHeader)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	assert.Empty(t, sched.Entries)
	assert.False(t, sched.HasSession())

	empty := filepath.Join(t.TempDir(), "empty.csv")
	testsupport.WriteText(t, empty, "")
	sched, err = Load(context.Background(), empty, sessionOptions())
	require.NoError(t, err)
	assert.Empty(t, sched.Entries)
}

func TestLoadMusicSessionBounds(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"9:55", "", "", "setup"},
		[]string{"10:00", "Song A", "", ""},
		[]string{"10:05", "Song B", "", "MUSIC END, applause"},
		[]string{"10:10", "", "", "wrap up"},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	assert.Len(t, sched.Entries, 4)
	assert.Equal(t, at(10, 0, 0), sched.MusicStart)
	assert.Equal(t, at(10, 5, 0), sched.MusicEnd)
	assert.True(t, sched.HasSession())
}

func TestLoadMusicEndFallsBackToLastEntry(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"10:00", "Song A", "", ""},
		[]string{"10:07", "Song B", "", ""},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	assert.Equal(t, at(10, 7, 0), sched.MusicEnd)
}

func TestLoadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music.xlsx")
	testsupport.WriteScheduleXLSX(t, path, "Music",
		[]string{"Time", "Song Name", "Score", "Observation"},
		[][]any{
			{at(10, 0, 0), "Song A", 8, nil},
			{0.4375, "Song B", nil, "swaying"},
			{"10:45", "Song C", nil, "music end"},
		},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	require.Len(t, sched.Entries, 3)
	assert.Equal(t, at(10, 0, 0), sched.Entries[0].Start)
	assert.Equal(t, "8", sched.Entries[0].Score)
	assert.Equal(t, at(10, 30, 0), sched.Entries[1].Start)
	assert.Equal(t, "swaying", sched.Entries[1].Observation)
	assert.Equal(t, at(10, 45, 0), sched.Entries[2].Start)
	assert.Equal(t, at(10, 45, 0), sched.MusicEnd)
}

func TestLoadWorkbookMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music.xlsx")
	testsupport.WriteScheduleXLSX(t, path, "", scheduleHeader, [][]any{{"10:00", "Song A"}})

	opts := sessionOptions()
	opts.Sheet = "Nope"
	_, err := Load(context.Background(), path, opts)
	assert.ErrorIs(t, err, model.ErrDataFormat)
}

func TestLoadUnsupportedOrMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "music.xls"), sessionOptions())
	assert.ErrorIs(t, err, model.ErrDataFormat)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), sessionOptions())
	assert.ErrorIs(t, err, model.ErrDataFormat)
}

func TestLoadCSVNumericTimesAreDaySerials(t *testing.T) {
	path := writeCSV(t, scheduleHeader,
		[]string{"0.4375", "Song A", "", ""},
		[]string{"45413.5", "Song B", "", ""},
	)

	sched, err := Load(context.Background(), path, sessionOptions())
	require.NoError(t, err)
	require.Len(t, sched.Entries, 2)
	assert.Equal(t, at(10, 30, 0), sched.Entries[0].Start)
	assert.Equal(t, "Song B", sched.Entries[1].Label)
	assert.Equal(t, at(12, 0, 0), sched.Entries[1].Start)
}
