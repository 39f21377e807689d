package render

import (
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// maxTimeTicks keeps the time axis readable on long recordings.
const maxTimeTicks = 20

// pickTimeStep maps the visible span to a tick step and label layout.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04:05"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 30 * time.Minute, "15:04"
	case span <= 24*time.Hour:
		return 1 * time.Hour, "Jan 2 15:04"
	default:
		return 6 * time.Hour, "Jan 2 15:04"
	}
}

// timeTicks returns step-aligned ticks inside [first, last], labelled in loc.
func timeTicks(first, last time.Time, loc *time.Location) []chart.Tick {
	step, layout := pickTimeStep(last.Sub(first))
	for last.Sub(first)/step > maxTimeTicks {
		step *= 2
	}
	aligned := first.In(loc).Truncate(step)
	if aligned.Before(first) {
		aligned = aligned.Add(step)
	}
	ticks := make([]chart.Tick, 0, maxTimeTicks+1)
	for ts := aligned; !ts.After(last); ts = ts.Add(step) {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(ts), Label: ts.In(loc).Format(layout)})
	}
	if len(ticks) < 2 {
		ticks = []chart.Tick{
			{Value: chart.TimeToFloat64(first), Label: first.In(loc).Format("15:04:05")},
			{Value: chart.TimeToFloat64(last), Label: last.In(loc).Format("15:04:05")},
		}
	}
	return ticks
}

func timeFormatter(loc *time.Location, span time.Duration) chart.ValueFormatter {
	_, layout := pickTimeStep(span)
	return func(v interface{}) string {
		switch typed := v.(type) {
		case float64:
			return chart.TimeFromFloat64(typed).In(loc).Format(layout)
		case time.Time:
			return typed.In(loc).Format(layout)
		default:
			return ""
		}
	}
}

// valueTicks spreads six ticks across the data range; the label band above
// hi stays unlabelled.
func valueTicks(lo, hi float64) []chart.Tick {
	const n = 5
	ticks := make([]chart.Tick, 0, n+1)
	step := (hi - lo) / n
	for i := 0; i <= n; i++ {
		v := lo + float64(i)*step
		ticks = append(ticks, chart.Tick{Value: v, Label: formatValue(v)})
	}
	return ticks
}

func valueFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return formatValue(f)
	}
	return fmt.Sprint(v)
}

// formatValue picks precision by magnitude.
func formatValue(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	case av >= 0.1 || av == 0:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3g", v)
	}
}
