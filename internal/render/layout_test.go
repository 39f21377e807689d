package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emotiplot/internal/config"
	"emotiplot/internal/model"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func minutes(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Minute)
}

func testFigure() config.Figure {
	return config.Figure{Width: 10, Height: 4, DPI: 100, LabelIncrement: 0.3, LineWidth: 1.5}
}

func TestPlanLayoutSingleRowWhenLabelsFit(t *testing.T) {
	g := NewGeometry(testFigure(), minutes(0), minutes(60))
	spans := []model.AnnotationSpan{
		{Start: minutes(0), End: minutes(20), Label: "A"},
		{Start: minutes(20), End: minutes(40), Label: "B"},
		{Start: minutes(40), End: minutes(60), Label: "C"},
	}

	layout := PlanLayout(spans, g)
	assert.Equal(t, 1, layout.Levels)
	assert.Equal(t, 400+30, layout.Height)
	assert.Equal(t, 1000, layout.Width)
	for _, p := range layout.Placements {
		assert.Equal(t, 0, p.Level)
	}
}

func TestPlanLayoutStacksOverlappingLabels(t *testing.T) {
	g := NewGeometry(testFigure(), minutes(0), minutes(60))
	long := strings.Repeat("Long Song Title ", 4)
	spans := []model.AnnotationSpan{
		{Start: minutes(0), End: minutes(1), Label: long},
		{Start: minutes(1), End: minutes(2), Label: long},
		{Start: minutes(2), End: minutes(3), Label: long},
		{Start: minutes(50), End: minutes(60), Label: "short"},
	}

	layout := PlanLayout(spans, g)
	require.Len(t, layout.Placements, 4)
	assert.Equal(t, 0, layout.Placements[0].Level)
	assert.Equal(t, 1, layout.Placements[1].Level)
	assert.Equal(t, 2, layout.Placements[2].Level)
	assert.Equal(t, 0, layout.Placements[3].Level, "a label clear of earlier ones returns to the first row")
	assert.Equal(t, 3, layout.Levels)
	assert.Equal(t, 400+3*30, layout.Height)
}

func TestPlanLayoutRowsNeverOverlap(t *testing.T) {
	g := NewGeometry(testFigure(), minutes(0), minutes(30))
	var spans []model.AnnotationSpan
	for i := 0; i < 30; i++ {
		spans = append(spans, model.AnnotationSpan{Start: minutes(i), End: minutes(i + 1), Label: strings.Repeat("x", 3+i%7)})
	}

	layout := PlanLayout(spans, g)
	byLevel := map[int][]Placement{}
	for _, p := range layout.Placements {
		byLevel[p.Level] = append(byLevel[p.Level], p)
	}
	for level, row := range byLevel {
		for i := 1; i < len(row); i++ {
			assert.GreaterOrEqual(t, row[i].X, row[i-1].X+row[i-1].Width, "labels overlap on row %d", level)
		}
	}
}

func TestPlanLayoutSkipsUnlabelledSpans(t *testing.T) {
	g := NewGeometry(testFigure(), minutes(0), minutes(10))
	layout := PlanLayout([]model.AnnotationSpan{{Start: minutes(0), End: minutes(5)}}, g)
	assert.Empty(t, layout.Placements)
	assert.Equal(t, 0, layout.Levels)
	assert.Equal(t, 400, layout.Height)
}

func TestGeometryXClampsToAxis(t *testing.T) {
	g := NewGeometry(testFigure(), minutes(0), minutes(10))
	assert.Equal(t, g.PlotLeft, g.X(minutes(-5)))
	assert.Equal(t, g.PlotRight, g.X(minutes(15)))
	assert.InDelta(t, (g.PlotLeft+g.PlotRight)/2, g.X(minutes(5)), 0.001)
}

func TestMeasureLabelScalesWithFont(t *testing.T) {
	small := MeasureLabel("Song", 13)
	assert.InDelta(t, 28, small, 0.001)
	assert.InDelta(t, 2*small, MeasureLabel("Song", 26), 0.001)
}
