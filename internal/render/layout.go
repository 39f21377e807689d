package render

import (
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"emotiplot/internal/config"
	"emotiplot/internal/model"
)

const (
	// labelFontPoints matches the go-chart default annotation font size.
	labelFontPoints = 10.0
	// labelPadPx is the go-chart annotation box padding on each side.
	labelPadPx = 5.0
	// labelGapPx keeps neighbouring labels on a row visibly apart.
	labelGapPx = 6.0
)

// Geometry is the pixel frame labels are packed into.
type Geometry struct {
	// Width and Height are the base figure size in pixels.
	Width  int
	Height int
	DPI    float64
	// PlotLeft and PlotRight bound the time axis in pixels.
	PlotLeft  float64
	PlotRight float64
	Start     time.Time
	End       time.Time
	// RowPx is the height added per label row.
	RowPx int
}

// NewGeometry derives the base frame from figure settings and the time range.
func NewGeometry(fig config.Figure, start, end time.Time) Geometry {
	width := int(math.Round(fig.Width * fig.DPI))
	height := int(math.Round(fig.Height * fig.DPI))
	pad := padding(fig.DPI)
	yAxisPx := 8 * charWidthPx(fig.DPI)
	return Geometry{
		Width:     width,
		Height:    height,
		DPI:       fig.DPI,
		PlotLeft:  float64(pad.Left),
		PlotRight: float64(width-pad.Right) - yAxisPx,
		Start:     start,
		End:       end,
		RowPx:     int(math.Round(fig.LabelIncrement * fig.DPI)),
	}
}

// X maps ts onto the time axis.
func (g Geometry) X(ts time.Time) float64 {
	total := g.End.Sub(g.Start)
	if total <= 0 {
		return g.PlotLeft
	}
	frac := float64(ts.Sub(g.Start)) / float64(total)
	frac = math.Max(0, math.Min(1, frac))
	return g.PlotLeft + frac*(g.PlotRight-g.PlotLeft)
}

// Placement is one labelled span assigned to a row.
type Placement struct {
	Span  model.AnnotationSpan
	Level int
	X     float64
	Width float64
}

// Layout is the packed label plan and the grown figure size.
type Layout struct {
	Width      int
	Height     int
	Levels     int
	RowPx      int
	Placements []Placement
}

// PlanLayout assigns each labelled span, anchored at its start, to the lowest
// row where it clears the previous label. Unlabelled spans get no placement.
func PlanLayout(spans []model.AnnotationSpan, g Geometry) Layout {
	fontPx := labelFontPoints * g.DPI / 72
	rowEnds := make([]float64, 0, 4)
	placements := make([]Placement, 0, len(spans))
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		x := g.X(span.Start)
		width := MeasureLabel(span.Label, fontPx) + 2*labelPadPx
		level := -1
		for i, end := range rowEnds {
			if x >= end {
				level = i
				break
			}
		}
		if level < 0 {
			level = len(rowEnds)
			rowEnds = append(rowEnds, 0)
		}
		rowEnds[level] = x + width + labelGapPx
		placements = append(placements, Placement{Span: span, Level: level, X: x, Width: width})
	}
	levels := len(rowEnds)
	return Layout{
		Width:      g.Width,
		Height:     g.Height + levels*g.RowPx,
		Levels:     levels,
		RowPx:      g.RowPx,
		Placements: placements,
	}
}

// MeasureLabel returns the pixel width of text at fontPx, measured with the
// 7x13 bitmap face and scaled to the requested size.
func MeasureLabel(text string, fontPx float64) float64 {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := float64(d.MeasureString(text).Ceil())
	return width * fontPx / float64(face.Height)
}

func charWidthPx(dpi float64) float64 {
	return MeasureLabel("0", labelFontPoints*dpi/72)
}
