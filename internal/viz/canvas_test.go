package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("cell = %U, want %U", got, blank|0x1|0x80)
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.Grid[0][1] != blank {
		t.Errorf("untouched cell changed: %U", c.Grid[0][1])
	}
}

func TestCanvasValues(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(0, 0, 1)
	c.Plot(1, 1, 3)
	c.Plot(2, 4, 10)

	if v, ok := c.Value(0, 0); !ok || v != 2 {
		t.Errorf("Value(0,0) = %v, %v; want 2, true", v, ok)
	}
	if v, ok := c.Value(1, 1); !ok || v != 10 {
		t.Errorf("Value(1,1) = %v, %v; want 10, true", v, ok)
	}
	if _, ok := c.Value(0, 1); ok {
		t.Error("empty cell reported a value")
	}
	if _, ok := c.Value(5, 5); ok {
		t.Error("out of range cell reported a value")
	}

	c.Clear()
	if _, ok := c.Value(0, 0); ok {
		t.Error("Clear kept values")
	}
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("Clear kept dots")
	}
}

func TestCanvasPaint(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Plot(0, 0, 5)
	c.Set(2, 0)
	var seen []float64
	out := c.Paint(func(v float64) string {
		seen = append(seen, v)
		return "#ff0000"
	}, lipgloss.NewStyle())
	if len(seen) != 1 || seen[0] != 5 {
		t.Errorf("colorOf called with %v", seen)
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 1 {
		t.Errorf("got %d lines", len(lines))
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != blank|0x1|0x8 {
			t.Errorf("col %d = %U", col, c.Grid[0][col])
		}
	}
}
