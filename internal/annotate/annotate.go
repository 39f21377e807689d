// Package annotate clips schedule intervals onto a signal's time range.
package annotate

import (
	"time"

	"emotiplot/internal/model"
)

// Spans returns the schedule intervals overlapping series, clipped to its
// first and last timestamps. Each entry runs until the next entry starts; the
// last entry runs to the end of the signal. Spans with no positive duration
// after clipping are dropped. Entries must be sorted by start time.
func Spans(series model.SignalSeries, entries []model.ScheduleEntry) []model.AnnotationSpan {
	first, last, ok := series.Bounds()
	if !ok || len(entries) == 0 {
		return nil
	}
	spans := make([]model.AnnotationSpan, 0, len(entries))
	for i, entry := range entries {
		end := last
		if i+1 < len(entries) {
			end = entries[i+1].Start
		}
		span, ok := clip(entry.Start, end, first, last)
		if !ok {
			continue
		}
		span.Label = entry.Caption()
		spans = append(spans, span)
	}
	return spans
}

// SessionSpan returns the music session interval clipped to series. ok is
// false when the schedule has no session or it misses the signal entirely.
func SessionSpan(series model.SignalSeries, sched model.Schedule) (model.AnnotationSpan, bool) {
	first, last, ok := series.Bounds()
	if !ok || !sched.HasSession() {
		return model.AnnotationSpan{}, false
	}
	span, ok := clip(sched.MusicStart, sched.MusicEnd, first, last)
	if !ok {
		return model.AnnotationSpan{}, false
	}
	span.Label = "music session"
	return span, true
}

func clip(start, end, lo, hi time.Time) (model.AnnotationSpan, bool) {
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	span := model.AnnotationSpan{Start: start, End: end}
	return span, span.Valid()
}
