package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	. "github.com/onsi/gomega"

	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/frame"
)

func squareFrame() *frame.Frame {
	return &frame.Frame{
		Variable: "temp",
		Rows: []frame.Row{
			{Node: 1, X: 0, Y: 0, Value: 1},
			{Node: 2, X: 1, Y: 0, Value: 2},
			{Node: 3, X: 1, Y: 1, Value: 3},
			{Node: 4, X: 0, Y: 1, Value: 4},
		},
	}
}

func valuedCells(c *Canvas) []float64 {
	var out []float64
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if v, ok := c.Value(row, col); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func TestRenderFrame(t *testing.T) {
	g := NewWithT(t)
	c := NewCanvas(20, 10)
	view := RenderFrame(c, squareFrame())

	g.Expect(view.Min).To(Equal(Point{0, 0}))
	g.Expect(view.Max).To(Equal(Point{1, 1}))
	g.Expect(valuedCells(c)).To(ConsistOf(1.0, 2.0, 3.0, 4.0))
}

func TestRenderScatterAveragesSharedCells(t *testing.T) {
	g := NewWithT(t)
	pts := Points{
		X:      []float64{0, 0, 10},
		Y:      []float64{0, 0, 10},
		Values: []float64{2, 4, 9},
	}
	lo, hi := pts.Bounds()
	c := NewCanvas(6, 3)
	RenderScatter(c, pts, PlanView{Min: lo, Max: hi})
	g.Expect(valuedCells(c)).To(ConsistOf(3.0, 9.0))
}

func TestColorBar(t *testing.T) {
	g := NewWithT(t)
	out := ColorBar(colorscale.Default(), 0.5, 120, 20)
	lines := strings.Split(out, "\n")
	g.Expect(lines).To(HaveLen(2))
	g.Expect(lines[1]).To(HavePrefix("0.5"))
	g.Expect(lines[1]).To(HaveSuffix("120"))
	g.Expect(lines[1]).To(HaveLen(20))
}

func TestScatter(t *testing.T) {
	g := NewWithT(t)
	out := Scatter(squareFrame(), colorscale.Default(), 1, 4, 20, 6, lipgloss.NewStyle())
	lines := strings.Split(out, "\n")
	// six canvas rows, the bar and its labels
	g.Expect(lines).To(HaveLen(8))
	g.Expect(lines[7]).To(HavePrefix("1"))
	g.Expect(lines[7]).To(HaveSuffix("4"))
}
