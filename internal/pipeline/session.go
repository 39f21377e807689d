package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"emotiplot/internal/config"
	"emotiplot/internal/model"
)

const (
	plotsDirName            = "plots"
	combinedSchedulePattern = "* Combined Observations.csv"
	afternoonMarker         = "afternoon"
)

// Session identifies the inputs and output of one run.
type Session struct {
	// Name labels log lines and summaries; the data folder name when blank.
	Name         string
	DataDir      string
	SchedulePath string
	OutputDir    string
	// CreateOutputDir creates OutputDir when it is missing.
	CreateOutputDir bool
}

// SessionFromConfig builds the session described by the [paths] section.
func SessionFromConfig(cfg *config.Config) Session {
	return Session{
		DataDir:         cfg.Paths.DataDir,
		SchedulePath:    cfg.Paths.SchedulePath,
		OutputDir:       cfg.Paths.OutputDir,
		CreateOutputDir: cfg.Render.CreateOutputDir,
	}
}

func (s Session) displayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return filepath.Base(filepath.Clean(s.DataDir))
}

func (s Session) outputDir() string {
	if strings.TrimSpace(s.OutputDir) != "" {
		return s.OutputDir
	}
	return filepath.Join(s.DataDir, plotsDirName)
}

// FindSchedule locates the schedule inside a session folder: the first
// "* Combined Observations.csv" file, else the first workbook.
func FindSchedule(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, combinedSchedulePattern))
	if err != nil {
		return "", model.Wrap(model.ErrDataFormat, "pipeline", "find schedule", dir, err)
	}
	sort.Strings(matches)
	if len(matches) > 0 {
		return matches[0], nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", model.Wrap(model.ErrDataFormat, "pipeline", "find schedule", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			return filepath.Join(dir, name), nil
		}
	}
	return "", model.Wrap(model.ErrDataFormat, "pipeline", "find schedule", "no schedule file in "+dir, nil)
}

// afternoonSession reports whether schedule clock times without AM/PM belong
// to the afternoon.
func afternoonSession(period, name string) bool {
	switch period {
	case config.PeriodPM:
		return true
	case config.PeriodAM:
		return false
	default:
		return strings.Contains(strings.ToLower(name), afternoonMarker)
	}
}
