package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/frame"
)

// Points is a coloured point cloud in mesh x/y coordinates.
type Points struct {
	X, Y, Values []float64
}

// FromFrame takes the coordinates and values of a frame.
func FromFrame(f *frame.Frame) Points {
	p := Points{
		X:      make([]float64, f.Len()),
		Y:      make([]float64, f.Len()),
		Values: make([]float64, f.Len()),
	}
	for i, r := range f.Rows {
		p.X[i], p.Y[i], p.Values[i] = r.X, r.Y, r.Value
	}
	return p
}

// Bounds returns the box around the points.
func (p Points) Bounds() (min, max Point) {
	return Bounds(p.X, p.Y)
}

// RenderScatter plots every point into c. Points sharing a cell are
// averaged.
func RenderScatter(c *Canvas, pts Points, view PlanView) {
	w, h := c.Dots()
	for i := range pts.X {
		x, y, ok := view.Project(Point{pts.X[i], pts.Y[i]}, w, h)
		if ok {
			c.Plot(x, y, pts.Values[i])
		}
	}
}

// RenderFrame plots a frame fitted to the canvas and returns the view used.
func RenderFrame(c *Canvas, f *frame.Frame) PlanView {
	pts := FromFrame(f)
	lo, hi := pts.Bounds()
	view := PlanView{Min: lo, Max: hi, Margin: 1}
	RenderScatter(c, pts, view)
	return view
}

// ColorBar renders a horizontal colour bar of width cells with the range
// labels underneath.
func ColorBar(s colorscale.Scale, min, max float64, width int) string {
	if width < 2 {
		width = 2
	}
	var bar strings.Builder
	for i := 0; i < width; i++ {
		t := float64(i) / float64(width-1)
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(s.At(t).Hex())).Render("█"))
	}
	lo, hi := fmt.Sprintf("%.4g", min), fmt.Sprintf("%.4g", max)
	gap := width - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	return bar.String() + "\n" + lo + strings.Repeat(" ", gap) + hi
}

// Scatter renders a frame as a coloured terminal plot with its colour bar,
// coloured over [min, max].
func Scatter(f *frame.Frame, s colorscale.Scale, min, max float64, cols, rows int, plain lipgloss.Style) string {
	c := NewCanvas(cols, rows)
	RenderFrame(c, f)
	return c.Paint(func(v float64) string { return s.Hex(v, min, max) }, plain) + ColorBar(s, min, max, cols)
}
