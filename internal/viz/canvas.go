package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Besides the dots, each cell keeps the
// values plotted into it so it can be coloured by their mean.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	sum  [][]float64
	hits [][]int
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		sum:    make([][]float64, h),
		hits:   make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.sum[i] = make([]float64, w)
		c.hits[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels: (Width*2) x (Height*4).
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot sets a pixel and adds v to its cell.
func (c *Canvas) Plot(x, y int, v float64) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Set(x, y)
	c.sum[row][col] += v
	c.hits[row][col]++
}

// Value returns the mean of the values plotted into a cell.
func (c *Canvas) Value(row, col int) (float64, bool) {
	if row < 0 || col < 0 || row >= c.Height || col >= c.Width || c.hits[row][col] == 0 {
		return 0, false
	}
	return c.sum[row][col] / float64(c.hits[row][col]), true
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.sum[i][j] = 0
			c.hits[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Paint renders the canvas with each valued cell coloured by colorOf.
// Cells with dots but no value, such as wireframe lines, use plain.
func (c *Canvas) Paint(colorOf func(v float64) string, plain lipgloss.Style) string {
	var b strings.Builder
	for r, row := range c.Grid {
		for col, ch := range row {
			switch v, ok := c.Value(r, col); {
			case ok:
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colorOf(v))).Render(string(ch)))
			case ch != blank:
				b.WriteString(plain.Render(string(ch)))
			default:
				b.WriteRune(ch)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
