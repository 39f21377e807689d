package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"emotiplot/internal/config"
	"emotiplot/internal/fileutil"
	"emotiplot/internal/logging"
	"emotiplot/internal/model"
	"emotiplot/internal/textutil"
)

// Result describes one render attempt.
type Result struct {
	Signal  string
	Path    string
	Skipped bool
	Reason  string
	Samples int
	Spans   int
	Levels  int
	Width   int
	Height  int
	Bytes   int
}

// Renderer draws signal plots into one output directory.
type Renderer struct {
	cfg       *config.Config
	outputDir string
	loc       *time.Location
	logger    *slog.Logger
}

// New constructs a Renderer writing into outputDir. The directory must exist
// by the time Render runs.
func New(cfg *config.Config, outputDir string, logger *slog.Logger) *Renderer {
	return &Renderer{
		cfg:       cfg,
		outputDir: outputDir,
		loc:       cfg.Location(),
		logger:    logging.NewComponentLogger(logger, "render"),
	}
}

// OutputPath returns the PNG path for signal id.
func (r *Renderer) OutputPath(id string) string {
	name := textutil.SanitizeFileName(id)
	if name == "" {
		name = "signal"
	}
	return filepath.Join(r.outputDir, name+".png")
}

// Render draws series with its spans and optional session background and
// writes the PNG. An empty series, a malformed span, or a chart that cannot
// be drawn is logged and skipped; only output failures are returned, marked
// with model.ErrIO.
func (r *Renderer) Render(ctx context.Context, series model.SignalSeries, spans []model.AnnotationSpan, session *model.AnnotationSpan) (Result, error) {
	logger := logging.WithContext(ctx, r.logger)
	result := Result{Signal: series.ID, Samples: series.Len()}

	if series.Len() == 0 || len(series.Values) != series.Len() {
		logging.WarnWithContext(logger, "empty series skipped", "empty_series",
			logging.String(logging.FieldChannel, series.ID),
			logging.String(logging.FieldImpact, "no plot written for this channel"),
		)
		result.Skipped = true
		result.Reason = "empty series"
		return result, nil
	}

	if !allFinite(series.Values) {
		logging.WarnWithContext(logger, "series with non-finite values skipped", "non_finite_values",
			logging.String(logging.FieldErrorHint, "check the channel export for NaN or Inf values"),
			logging.String(logging.FieldImpact, "no plot written for this channel"),
		)
		result.Skipped = true
		result.Reason = "non-finite values"
		return result, nil
	}

	valid := make([]model.AnnotationSpan, 0, len(spans))
	for _, span := range spans {
		if !span.Valid() {
			logging.WarnWithContext(logger, "malformed span skipped", "malformed_span",
				logging.Span(span.Label, span.Start, span.End),
				logging.String(logging.FieldImpact, "span not shaded"),
			)
			continue
		}
		valid = append(valid, span)
	}
	if session != nil && !session.Valid() {
		session = nil
	}
	result.Spans = len(valid)

	if err := fileutil.CheckWritableDir(r.outputDir); err != nil {
		return result, model.Wrap(model.ErrIO, "render", "check output", r.outputDir, err)
	}

	first, last, _ := series.Bounds()
	xs, ys := series.Timestamps, series.Values
	if first.Equal(last) {
		// go-chart needs two x values for a range.
		last = first.Add(time.Second)
		xs = []time.Time{first, last}
		ys = []float64{ys[0], ys[0]}
	}

	layout := PlanLayout(valid, NewGeometry(r.cfg.Figure, first, last))
	result.Levels = layout.Levels
	result.Width = layout.Width
	result.Height = layout.Height

	graph := r.buildChart(series, xs, ys, first, last, valid, session, layout)
	buf, err := drawPNG(graph)
	if err != nil {
		logging.WarnWithContext(logger, "plot could not be drawn", "chart_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the channel export for out-of-range values"),
			logging.String(logging.FieldImpact, "no plot written for this channel"),
		)
		result.Skipped = true
		result.Reason = "chart failed: " + err.Error()
		return result, nil
	}

	path := r.OutputPath(series.ID)
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return result, model.Wrap(model.ErrIO, "render", "write png", path, err)
	}
	result.Path = path
	result.Bytes = buf.Len()

	logger.Info("plot written",
		logging.String("path", path),
		logging.Int("samples", series.Len()),
		logging.Int("spans", len(valid)),
		logging.Int("label_rows", layout.Levels),
		logging.String("size", fmt.Sprintf("%dx%d", layout.Width, layout.Height)),
	)
	return result, nil
}

// drawPNG encodes graph, turning go-chart panics into errors.
func drawPNG(graph chart.Chart) (buf *bytes.Buffer, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("draw chart: %v", p)
		}
	}()
	buf = new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Renderer) buildChart(series model.SignalSeries, xs []time.Time, ys []float64, first, last time.Time, spans []model.AnnotationSpan, session *model.AnnotationSpan, layout Layout) chart.Chart {
	fig := r.cfg.Figure
	channel := r.cfg.Channel(series.ID)
	lo, hi := valueRange(ys)

	pad := padding(fig.DPI)
	// Pixels left for the curve once the label band and axes are removed.
	fontPx := labelFontPoints * fig.DPI / 72
	canvasPx := float64(layout.Height-pad.Top-pad.Bottom) - 3*fontPx
	bandPx := float64(layout.Levels * layout.RowPx)
	dataPx := math.Max(canvasPx-bandPx, 1)
	unitsPerPx := (hi - lo) / dataPx
	top := hi + bandPx*unitsPerPx

	shade := hexColor(r.cfg.Annotation.Color).WithAlpha(alpha(r.cfg.Annotation.Opacity))
	var plotted []chart.Series
	if session != nil && r.cfg.Annotation.SessionShading {
		plotted = append(plotted, shadeSeries(*session, top, hexColor(r.cfg.Annotation.SessionColor).WithAlpha(alpha(r.cfg.Annotation.Opacity/2))))
	}
	for _, span := range spans {
		plotted = append(plotted, shadeSeries(span, top, shade))
	}

	plotted = append(plotted, chart.TimeSeries{
		Name:    series.ID,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: hexColor(channel.Color),
			StrokeWidth: fig.LineWidth * fig.DPI / 72,
		},
	})

	if len(layout.Placements) > 0 {
		labels := chart.AnnotationSeries{Name: "songs"}
		for _, p := range layout.Placements {
			y := top - (float64(p.Level)+0.5)*float64(layout.RowPx)*unitsPerPx
			labels.Annotations = append(labels.Annotations, chart.Value2{
				XValue: chart.TimeToFloat64(p.Span.Start),
				YValue: y,
				Label:  p.Span.Label,
			})
		}
		plotted = append(plotted, labels)
	}

	title := fmt.Sprintf("EmotiBit Signal: %s (%s)", series.ID, textutil.Title(channel.Description))
	yName := textutil.FirstNonBlank(channel.Units, "Value")

	return chart.Chart{
		Title:  title,
		Width:  layout.Width,
		Height: layout.Height,
		DPI:    fig.DPI,
		Background: chart.Style{
			Padding: pad,
		},
		XAxis: chart.XAxis{
			Name:           "Time (" + first.In(r.loc).Format("MST") + ")",
			ValueFormatter: timeFormatter(r.loc, last.Sub(first)),
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(first), Max: chart.TimeToFloat64(last)},
			Ticks:          timeTicks(first, last, r.loc),
		},
		YAxis: chart.YAxis{
			Name:           yName,
			ValueFormatter: valueFormatter,
			Range:          &chart.ContinuousRange{Min: lo, Max: top},
			Ticks:          valueTicks(lo, hi),
			GridMajorStyle: chart.Style{
				StrokeColor:     drawing.ColorFromHex("a0a0a0").WithAlpha(180),
				StrokeWidth:     0.8,
				StrokeDashArray: []float64{2, 3},
			},
		},
		Series: plotted,
	}
}

// shadeSeries fills from top down to the canvas bottom between span start and end.
func shadeSeries(span model.AnnotationSpan, top float64, fill drawing.Color) chart.TimeSeries {
	return chart.TimeSeries{
		XValues: []time.Time{span.Start, span.End},
		YValues: []float64{top, top},
		Style: chart.Style{
			StrokeWidth: 1,
			StrokeColor: fill,
			FillColor:   fill,
		},
	}
}

func padding(dpi float64) chart.Box {
	scale := dpi / 100
	return chart.Box{
		Top:    int(math.Round(60 * scale)),
		Left:   int(math.Round(20 * scale)),
		Right:  int(math.Round(30 * scale)),
		Bottom: int(math.Round(20 * scale)),
	}
}

// valueRange pads a flat series so the y range is never empty.
func valueRange(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi > lo {
		margin := (hi - lo) * 0.05
		return lo - margin, hi + margin
	}
	margin := math.Abs(lo) * 0.1
	if margin == 0 {
		margin = 1
	}
	return lo - margin, hi + margin
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func hexColor(value string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(value), "#"))
}

func alpha(opacity float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}
