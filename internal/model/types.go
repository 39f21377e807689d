package model

import (
	"strings"
	"time"
)

// ScheduleEntry is one playback start event from the music schedule.
type ScheduleEntry struct {
	Start       time.Time
	Label       string
	Score       string
	Observation string
	// Row is the 1-based row in the source sheet, header included.
	Row int
}

// Caption is the annotation text drawn for the entry.
func (e ScheduleEntry) Caption() string {
	parts := make([]string, 0, 3)
	if label := strings.TrimSpace(e.Label); label != "" {
		parts = append(parts, label)
	}
	if score := strings.TrimSpace(e.Score); score != "" {
		parts = append(parts, "(Score: "+score+")")
	}
	if obs := strings.TrimSpace(e.Observation); obs != "" {
		parts = append(parts, obs)
	}
	return strings.Join(parts, " | ")
}

// Schedule is the ordered entry list plus the bounds of the music session.
// MusicStart and MusicEnd are zero when the schedule is empty.
type Schedule struct {
	Entries    []ScheduleEntry
	MusicStart time.Time
	MusicEnd   time.Time
}

// HasSession reports whether the schedule carries a usable music session.
func (s Schedule) HasSession() bool {
	return !s.MusicStart.IsZero() && !s.MusicEnd.IsZero() && s.MusicEnd.After(s.MusicStart)
}

// SignalSeries is one channel's samples ordered by strictly increasing time.
type SignalSeries struct {
	ID         string
	Timestamps []time.Time
	Values     []float64
	Sources    []string
}

// Len returns the number of samples.
func (s SignalSeries) Len() int {
	return len(s.Timestamps)
}

// Bounds returns the first and last timestamps. ok is false for an empty series.
func (s SignalSeries) Bounds() (first, last time.Time, ok bool) {
	if len(s.Timestamps) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Timestamps[0], s.Timestamps[len(s.Timestamps)-1], true
}

// ValueRange returns the minimum and maximum sample values.
func (s SignalSeries) ValueRange() (lo, hi float64, ok bool) {
	if len(s.Values) == 0 {
		return 0, 0, false
	}
	lo, hi = s.Values[0], s.Values[0]
	for _, v := range s.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// AnnotationSpan is a schedule interval clipped to one signal's time range.
type AnnotationSpan struct {
	Start time.Time
	End   time.Time
	Label string
}

// Duration returns End minus Start.
func (s AnnotationSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Valid reports whether the span has a positive duration.
func (s AnnotationSpan) Valid() bool {
	return s.End.After(s.Start)
}
