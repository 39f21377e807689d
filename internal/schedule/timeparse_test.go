package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeParserFormats(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	p := timeParser{loc: loc, date: time.Date(2024, 5, 1, 0, 0, 0, 0, loc)}

	cases := map[string]time.Time{
		"2024-05-01 10:00:00":       time.Date(2024, 5, 1, 10, 0, 0, 0, loc),
		"2024-05-01 10:00":          time.Date(2024, 5, 1, 10, 0, 0, 0, loc),
		"2024-05-01T10:00:00-04:00": time.Date(2024, 5, 1, 10, 0, 0, 0, loc),
		"10:15:30":                  time.Date(2024, 5, 1, 10, 15, 30, 0, loc),
		"12:30 am":                  time.Date(2024, 5, 1, 0, 30, 0, 0, loc),
		"12:30 PM":                  time.Date(2024, 5, 1, 12, 30, 0, 0, loc),
		"3:04 p.m.":                 time.Date(2024, 5, 1, 15, 4, 0, 0, loc),
		"45413.5":                   time.Date(2024, 5, 1, 12, 0, 0, 0, loc),
		"0.5":                       time.Date(2024, 5, 1, 12, 0, 0, 0, loc),
	}
	for raw, want := range cases {
		got, err := p.parse(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s: got %v want %v", raw, got, want)
	}
}

func TestTimeParserRejects(t *testing.T) {
	p := timeParser{loc: time.UTC, date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	for _, raw := range []string{"", "25:00", "10:61", "noon", "-3", "10h30"} {
		_, err := p.parse(raw)
		assert.Error(t, err, raw)
	}
}
