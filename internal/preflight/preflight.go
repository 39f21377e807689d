package preflight

import (
	"emotiplot/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks for unset paths are skipped.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data folder (always checked)
	results = append(results, CheckDirectoryAccess("Data folder", cfg.Paths.DataDir, false))

	results = append(results, CheckSchedule(cfg.Paths.SchedulePath, cfg.Paths.DataDir))

	// Output folder (when configured; otherwise <data>/plots at run time)
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output folder", cfg.Paths.OutputDir, true))
	}

	if cfg.Paths.DataDir != "" {
		results = append(results, CheckChannels(cfg.Paths.DataDir, cfg.SignalCodes(), len(cfg.Render.Signals) > 0 && !cfg.Render.SkipMissing))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
