package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"emotiplot/internal/model"
)

// Paths contains input and output locations.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	SchedulePath string `toml:"schedule_path"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
}

// Session describes how recorded timestamps map onto wall-clock time.
type Session struct {
	Timezone   string `toml:"timezone"`
	Date       string `toml:"date"`
	Period     string `toml:"period"`
	TimeColumn string `toml:"time_column"`
}

// Schedule names the music schedule columns.
type Schedule struct {
	Sheet             string `toml:"sheet"`
	TimeColumn        string `toml:"time_column"`
	LabelColumn       string `toml:"label_column"`
	ScoreColumn       string `toml:"score_column"`
	ObservationColumn string `toml:"observation_column"`
	SessionEndMarker  string `toml:"session_end_marker"`
}

// Figure contains plot geometry. Width, Height, and LabelIncrement are inches.
type Figure struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	DPI            float64 `toml:"dpi"`
	LabelIncrement float64 `toml:"label_increment"`
	LineWidth      float64 `toml:"line_width"`
}

// Annotation contains shading settings for schedule spans.
type Annotation struct {
	Color          string  `toml:"color"`
	Opacity        float64 `toml:"opacity"`
	SessionShading bool    `toml:"session_shading"`
	SessionColor   string  `toml:"session_color"`
}

// Render contains run-level behaviour.
type Render struct {
	Signals         []string `toml:"signals"`
	Workers         int      `toml:"workers"`
	SkipMissing     bool     `toml:"skip_missing"`
	CreateOutputDir bool     `toml:"create_output_dir"`
}

// Channel is the display metadata for one signal code.
type Channel struct {
	Description string `toml:"description"`
	Units       string `toml:"units"`
	Color       string `toml:"color"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for emotiplot.
//
// Configuration sections:
//   - Paths: data folder, schedule file, output folder, log folder
//   - Session: time zone, recording date, am/pm period, CSV time column
//   - Schedule: schedule column names and the session end marker
//   - Figure: base figure size, resolution, label stacking increment
//   - Annotation: span shading colour and opacity
//   - Render: channel selection and worker fan-out
//   - Channels: per-code description, units, and line colour
//   - Logging: log format and level
type Config struct {
	Paths      Paths              `toml:"paths"`
	Session    Session            `toml:"session"`
	Schedule   Schedule           `toml:"schedule"`
	Figure     Figure             `toml:"figure"`
	Annotation Annotation         `toml:"annotation"`
	Render     Render             `toml:"render"`
	Channels   map[string]Channel `toml:"channels"`
	Logging    Logging            `toml:"logging"`
}

// Location returns the session time zone, falling back to UTC when the name
// cannot be resolved. Validate rejects unknown zones, so the fallback only
// applies to configs that skipped validation.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Session.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionDate parses session.date. ok is false when the date is unset.
func (c *Config) SessionDate() (time.Time, bool, error) {
	value := strings.TrimSpace(c.Session.Date)
	if value == "" {
		return time.Time{}, false, nil
	}
	date, err := time.ParseInLocation(sessionDateLayout, value, c.Location())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("session.date: %w", err)
	}
	return date, true, nil
}

// Channel returns display metadata for code. Unknown codes fall back to the
// code itself and the default line colour.
func (c *Config) Channel(code string) Channel {
	code = strings.ToUpper(strings.TrimSpace(code))
	ch, ok := c.Channels[code]
	if !ok {
		ch = Channel{}
	}
	if strings.TrimSpace(ch.Description) == "" {
		if known, ok := model.LookupChannel(code); ok {
			ch.Description = known.Description
		} else {
			ch.Description = code
		}
	}
	if strings.TrimSpace(ch.Color) == "" {
		ch.Color = defaultLineColor
	}
	return ch
}

// SignalCodes returns the channel codes a run should plot. An explicit
// render.signals list wins; otherwise every configured channel is used in the
// EmotiBit export order, followed by any custom codes sorted by name.
func (c *Config) SignalCodes() []string {
	if len(c.Render.Signals) > 0 {
		out := make([]string, len(c.Render.Signals))
		copy(out, c.Render.Signals)
		return out
	}
	out := make([]string, 0, len(c.Channels))
	seen := make(map[string]struct{}, len(c.Channels))
	for _, known := range model.Channels {
		if _, ok := c.Channels[known.Code]; ok {
			out = append(out, known.Code)
			seen[known.Code] = struct{}{}
		}
	}
	extra := make([]string, 0)
	for code := range c.Channels {
		if _, ok := seen[code]; !ok {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
