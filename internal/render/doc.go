// Package render draws one PNG per signal with the schedule spans shaded
// behind the curve.
//
// PlanLayout packs span labels into stacked rows so labels on a row never
// overlap horizontally; every extra row grows the figure by the configured
// label increment. Widths are measured with a fixed bitmap face, so packing is
// approximate rather than exact. The Renderer turns a series, its spans, and
// the plan into a go-chart figure and writes <output>/<signal>.png atomically.
package render
