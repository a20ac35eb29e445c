package colorscale

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// ColorMap adapts a Scale to gonum's palette.ColorMap.
type ColorMap struct {
	scale    Scale
	min, max float64
	alpha    float64
}

var _ palette.ColorMap = (*ColorMap)(nil)

// ColorMap returns a palette.ColorMap over [min, max] with the given opacity.
func (s Scale) ColorMap(min, max, alpha float64) *ColorMap {
	return &ColorMap{scale: s, min: min, max: max, alpha: alpha}
}

// At implements palette.ColorMap.
func (m *ColorMap) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < m.min:
		return nil, palette.ErrUnderflow
	case v > m.max:
		return nil, palette.ErrOverflow
	}
	return m.withAlpha(m.scale.At(Normalize(v, m.min, m.max))), nil
}

func (m *ColorMap) withAlpha(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	a := m.alpha
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(math.Round(a * 255))}
}

func (m *ColorMap) Max() float64       { return m.max }
func (m *ColorMap) SetMax(v float64)   { m.max = v }
func (m *ColorMap) Min() float64       { return m.min }
func (m *ColorMap) SetMin(v float64)   { m.min = v }
func (m *ColorMap) Alpha() float64     { return m.alpha }
func (m *ColorMap) SetAlpha(a float64) { m.alpha = a }

// Palette implements palette.ColorMap.
func (m *ColorMap) Palette(n int) palette.Palette {
	colors := m.scale.Sample(n)
	for i, c := range colors {
		colors[i] = m.withAlpha(c)
	}
	return colorList(colors)
}

type colorList []color.Color

func (l colorList) Colors() []color.Color { return l }
