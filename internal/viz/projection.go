package viz

import "math"

// Point is a position in mesh x/y coordinates.
type Point struct {
	X, Y float64
}

// Bounds returns the axis-aligned box around the points.
func Bounds(xs, ys []float64) (min, max Point) {
	if len(xs) == 0 {
		return Point{}, Point{}
	}
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for i := range xs {
		min = Point{math.Min(min.X, xs[i]), math.Min(min.Y, ys[i])}
		max = Point{math.Max(max.X, xs[i]), math.Max(max.Y, ys[i])}
	}
	return min, max
}

// PlanView maps the box [Min, Max] onto a dot grid, y up. x and y share one
// scale so the mesh keeps its aspect ratio; braille dots are close to square.
type PlanView struct {
	Min, Max Point
	Margin   int
}

// Project returns the dot of p on a w x h grid and whether it lies inside.
func (p PlanView) Project(v Point, w, h int) (int, int, bool) {
	spanX, spanY := p.Max.X-p.Min.X, p.Max.Y-p.Min.Y
	usableW, usableH := float64(w-1-2*p.Margin), float64(h-1-2*p.Margin)
	if usableW < 0 || usableH < 0 {
		return 0, 0, false
	}
	scale := math.Inf(1)
	if spanX > 0 {
		scale = usableW / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, usableH/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}
	offX := float64(p.Margin) + (usableW-spanX*scale)/2
	offY := float64(p.Margin) + (usableH-spanY*scale)/2
	x := int(math.Round(offX + (v.X-p.Min.X)*scale))
	y := int(math.Round(float64(h-1) - offY - (v.Y-p.Min.Y)*scale))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// DrawBounds outlines the view's box on the canvas.
func DrawBounds(c *Canvas, view PlanView) {
	w, h := c.Dots()
	x0, y0, _ := view.Project(view.Min, w, h)
	x1, y1, _ := view.Project(view.Max, w, h)
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}
