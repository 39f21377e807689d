package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSession()
	c.normalizeSchedule()
	c.normalizeFigure()
	c.normalizeAnnotation()
	c.normalizeRender()
	c.normalizeChannels()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		if value, ok := os.LookupEnv("EMOTIPLOT_DATA_DIR"); ok {
			c.Paths.DataDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.SchedulePath) == "" {
		if value, ok := os.LookupEnv("EMOTIPLOT_SCHEDULE"); ok {
			c.Paths.SchedulePath = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		if value, ok := os.LookupEnv("EMOTIPLOT_OUTPUT_DIR"); ok {
			c.Paths.OutputDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.SchedulePath, err = expandPath(strings.TrimSpace(c.Paths.SchedulePath)); err != nil {
		return fmt.Errorf("paths.schedule_path: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSession() {
	c.Session.Timezone = strings.TrimSpace(c.Session.Timezone)
	if c.Session.Timezone == "" {
		c.Session.Timezone = defaultTimezone
	}
	c.Session.Date = strings.TrimSpace(c.Session.Date)
	c.Session.Period = strings.ToLower(strings.TrimSpace(c.Session.Period))
	if c.Session.Period == "" {
		c.Session.Period = defaultPeriod
	}
	c.Session.TimeColumn = strings.TrimSpace(c.Session.TimeColumn)
	if c.Session.TimeColumn == "" {
		c.Session.TimeColumn = defaultSignalTimeColumn
	}
}

func (c *Config) normalizeSchedule() {
	c.Schedule.Sheet = strings.TrimSpace(c.Schedule.Sheet)
	c.Schedule.TimeColumn = defaultIfBlank(c.Schedule.TimeColumn, defaultScheduleTimeColumn)
	c.Schedule.LabelColumn = defaultIfBlank(c.Schedule.LabelColumn, defaultScheduleLabelColumn)
	c.Schedule.ScoreColumn = defaultIfBlank(c.Schedule.ScoreColumn, defaultScoreColumn)
	c.Schedule.ObservationColumn = defaultIfBlank(c.Schedule.ObservationColumn, defaultObservationColumn)
	c.Schedule.SessionEndMarker = strings.ToLower(defaultIfBlank(c.Schedule.SessionEndMarker, defaultSessionEndMarker))
}

func (c *Config) normalizeFigure() {
	if c.Figure.Width <= 0 {
		c.Figure.Width = defaultFigureWidth
	}
	if c.Figure.Height <= 0 {
		c.Figure.Height = defaultFigureHeight
	}
	if c.Figure.DPI <= 0 {
		c.Figure.DPI = defaultFigureDPI
	}
	if c.Figure.LabelIncrement < 0 {
		c.Figure.LabelIncrement = defaultLabelIncrement
	}
	if c.Figure.LineWidth <= 0 {
		c.Figure.LineWidth = defaultLineWidth
	}
}

func (c *Config) normalizeAnnotation() {
	c.Annotation.Color = normalizeColor(defaultIfBlank(c.Annotation.Color, defaultAnnotationColor))
	c.Annotation.SessionColor = normalizeColor(defaultIfBlank(c.Annotation.SessionColor, defaultSessionColor))
}

func (c *Config) normalizeRender() {
	if c.Render.Workers <= 0 {
		c.Render.Workers = defaultWorkers
	}
	if len(c.Render.Signals) == 0 {
		return
	}
	codes := make([]string, 0, len(c.Render.Signals))
	seen := make(map[string]struct{}, len(c.Render.Signals))
	for _, code := range c.Render.Signals {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		codes = append(codes, normalized)
	}
	c.Render.Signals = codes
}

func (c *Config) normalizeChannels() {
	merged := defaultChannels()
	for code, ch := range c.Channels {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		base := merged[code]
		ch.Description = defaultIfBlank(ch.Description, base.Description)
		ch.Units = defaultIfBlank(ch.Units, base.Units)
		if ch.Description == "" {
			ch.Description = code
		}
		ch.Color = normalizeColor(defaultIfBlank(ch.Color, defaultIfBlank(base.Color, defaultLineColor)))
		merged[code] = ch
	}
	c.Channels = merged
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func defaultIfBlank(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func normalizeColor(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value != "" && !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	return value
}
